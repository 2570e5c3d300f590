package registry

import (
	"io"
	"log"
	"strings"
	"sync"

	"github.com/logtap/logtap/internal/logparse"
	"github.com/logtap/logtap/internal/model"
)

// Slot identifies one fan-out target position.
type Slot int

const (
	// SlotEvents is the dynamic slot: process-start event lines for the
	// single connected subscriber.
	SlotEvents Slot = iota
	// SlotPersist is the primary log file: the daemon's own tag at info
	// priority and above.
	SlotPersist
	// SlotDebug is the optional debug file: everything except event lines.
	SlotDebug

	numSlots
)

func (s Slot) String() string {
	switch s {
	case SlotEvents:
		return "events"
	case SlotPersist:
		return "persist"
	case SlotDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// FilterFunc decides whether a line belongs to a slot.
type FilterFunc func(line string) bool

// Config fixes the filter inputs. Filters are built once at construction
// and never change afterwards.
type Config struct {
	EventMarker string // process-start event marker, e.g. "am_proc_start"
	DaemonTag   string // the daemon's own log tag
}

type entry struct {
	filter  FilterFunc
	target  io.WriteCloser
	matched uint64
	dropped uint64
}

// Registry is the fan-out table: a fixed set of slots, each pairing an
// immutable filter with a swappable target. One mutex guards the slot
// table, the counters, and the acceptor-armed flag.
type Registry struct {
	mu    sync.Mutex
	slots [numSlots]entry
	armed bool // an acceptor task is outstanding
}

// New builds the registry with all targets absent.
func New(cfg Config) *Registry {
	marker := cfg.EventMarker
	tag := cfg.DaemonTag

	r := &Registry{}
	r.slots[SlotEvents].filter = func(line string) bool {
		return strings.Contains(line, marker)
	}
	r.slots[SlotPersist].filter = func(line string) bool {
		return logparse.ContainsTag(line, tag)
	}
	r.slots[SlotDebug].filter = func(line string) bool {
		return !strings.Contains(line, marker)
	}
	return r
}

// Register installs target in slot, replacing any previous target
// without closing it.
func (r *Registry) Register(s Slot, target io.WriteCloser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[s].target = target
}

// InstallSubscriber installs the dynamic events target and marks the
// acceptor task finished.
func (r *Registry) InstallSubscriber(target io.WriteCloser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[SlotEvents].target = target
	r.armed = false
}

// DisarmAcceptor marks the acceptor task finished without installing a
// target. Dispatch arms a fresh one when the next line needs it.
func (r *Registry) DisarmAcceptor() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = false
}

// Clear removes and closes the target in slot. No-op when absent.
func (r *Registry) Clear(s Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t := r.slots[s].target; t != nil {
		t.Close()
		r.slots[s].target = nil
	}
}

// CloseAll closes and removes every installed target. Idempotent.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		if t := r.slots[i].target; t != nil {
			t.Close()
			r.slots[i].target = nil
		}
	}
}

// Dispatch fans line out to every slot whose filter accepts it, then
// reports whether the caller must arm an acceptor: true exactly when the
// events target is absent and no acceptor is outstanding. The fan-out
// pass and the arming decision happen under a single lock acquisition,
// so no other registry operation can interleave between them.
//
// A write failure on the events slot means the subscriber is gone: the
// connection is closed and the slot cleared. Write failures on file
// slots are logged and absorbed.
func (r *Registry) Dispatch(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload := append([]byte(line), '\n')
	for i := range r.slots {
		e := &r.slots[i]
		if e.target == nil || !e.filter(line) {
			continue
		}
		if _, err := e.target.Write(payload); err != nil {
			e.dropped++
			if Slot(i) == SlotEvents {
				e.target.Close()
				e.target = nil
				log.Printf("registry: subscriber gone: %v", err)
			} else {
				log.Printf("registry: %s sink write failed: %v", Slot(i), err)
			}
			continue
		}
		e.matched++
	}

	if r.slots[SlotEvents].target == nil && !r.armed {
		r.armed = true
		return true
	}
	return false
}

// Snapshot reports per-slot status and whether an acceptor is outstanding.
func (r *Registry) Snapshot() ([]model.SlotStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := make([]model.SlotStatus, 0, len(r.slots))
	for i := range r.slots {
		e := &r.slots[i]
		slots = append(slots, model.SlotStatus{
			Name:    Slot(i).String(),
			Active:  e.target != nil,
			Matched: e.matched,
			Dropped: e.dropped,
		})
	}
	return slots, r.armed
}
