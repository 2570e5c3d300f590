package logparse

import "testing"

func TestPriority(t *testing.T) {
	tests := []struct {
		input    string
		expected byte
	}{
		{"08-25 14:03:21.345  1234  1234 I ActivityManager: am_proc_start", 'I'},
		{"08-25 14:03:21.345  1234  1234 W Logtap  : slow dispatch", 'W'},
		{"08-25 14:03:21.345   512   512 E lowmemorykiller: oom", 'E'},
		{"08-25 14:03:21.345     1     1 V init    : chatter", 'V'},
		{"08-25 14:03:21.345     1     1 F libc    : abort", 'F'},
		// Not threadtime shaped
		{"--------- beginning of main", 0},
		{"plain text line", 0},
		{"", 0},
		// Fifth field longer than one letter
		{"08-25 14:03:21.345  1234  1234 IN Tag: msg", 0},
		// Fifth field not a known priority
		{"08-25 14:03:21.345  1234  1234 X Tag: msg", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Priority(tt.input)
			if got != tt.expected {
				t.Errorf("Priority(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPriorityName(t *testing.T) {
	tests := []struct {
		input    byte
		expected string
	}{
		{'V', "VERBOSE"}, {'D', "DEBUG"}, {'I', "INFO"}, {'W', "WARN"},
		{'E', "ERROR"}, {'F', "FATAL"}, {'S', "SILENT"},
		{0, "UNKNOWN"}, {'X', "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := PriorityName(tt.input)
			if got != tt.expected {
				t.Errorf("PriorityName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestContainsTag(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"info priority", "08-25 14:03:21.345  1234  1234 I Logtap  : mounted", true},
		{"warn priority", "08-25 14:03:21.345  1234  1234 W Logtap  : slow", true},
		{"error priority", "08-25 14:03:21.345  1234  1234 E Logtap  : failed", true},
		{"debug priority rejected", "08-25 14:03:21.345  1234  1234 D Logtap  : trace", false},
		{"verbose priority rejected", "08-25 14:03:21.345  1234  1234 V Logtap  : noisy", false},
		{"tag absent", "08-25 14:03:21.345  1234  1234 I Other   : mounted", false},
		{"tag at line start", " Logtap: bare", true},
		{"only first occurrence checked", "x D Logtap then I Logtap", false},
		{"empty line", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContainsTag(tt.line, "Logtap")
			if got != tt.expected {
				t.Errorf("ContainsTag(%q, %q) = %v, want %v", tt.line, "Logtap", got, tt.expected)
			}
		})
	}
}

func TestIsSeparator(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"--------- beginning of main", true},
		{"--------- switch to events", true},
		{"-", true},
		{"08-25 14:03:21.345  1234  1234 I Tag: msg", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := IsSeparator(tt.input)
			if got != tt.expected {
				t.Errorf("IsSeparator(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
