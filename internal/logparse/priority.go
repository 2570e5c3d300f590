package logparse

import "strings"

// Threadtime lines carry the priority as a single letter in the fifth
// field: "MM-DD HH:MM:SS.mmm PID TID P Tag: message".
const priorityField = 4

// Priority extracts the single-letter priority from a threadtime line.
// It returns 0 when the line does not carry one.
func Priority(line string) byte {
	fields := strings.Fields(line)
	if len(fields) <= priorityField {
		return 0
	}
	f := fields[priorityField]
	if len(f) != 1 {
		return 0
	}
	switch f[0] {
	case 'V', 'D', 'I', 'W', 'E', 'F', 'S':
		return f[0]
	}
	return 0
}

// PriorityName expands a priority letter to its long form.
func PriorityName(p byte) string {
	switch p {
	case 'V':
		return "VERBOSE"
	case 'D':
		return "DEBUG"
	case 'I':
		return "INFO"
	case 'W':
		return "WARN"
	case 'E':
		return "ERROR"
	case 'F':
		return "FATAL"
	case 'S':
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// ContainsTag reports whether line mentions tag (matched with a leading
// space, as threadtime renders it) at a priority other than debug or
// verbose. Only the first occurrence is examined. The byte immediately
// before the match is the priority letter; a match at the start of the
// line has no priority to reject.
func ContainsTag(line, tag string) bool {
	i := strings.Index(line, " "+tag)
	if i < 0 {
		return false
	}
	if i == 0 {
		return true
	}
	c := line[i-1]
	return c != 'D' && c != 'V'
}

// IsSeparator reports whether the producer emitted a buffer separator
// ("--------- beginning of main") rather than a log line.
func IsSeparator(line string) bool {
	return len(line) > 0 && line[0] == '-'
}
