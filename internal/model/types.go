package model

import "time"

// MonitorState is the lifecycle state of the dispatch loop.
type MonitorState string

const (
	StateDisabled   MonitorState = "disabled"
	StateRunning    MonitorState = "running"
	StateRestarting MonitorState = "restarting"
)

// SlotStatus describes one registry slot for status surfaces.
type SlotStatus struct {
	Name    string
	Active  bool // a target is currently installed
	Matched uint64
	Dropped uint64 // write failures absorbed on this slot
}

// DaemonStats is the snapshot served by the status API. It is assembled
// from the monitor, the registry, and the source supervisor.
type DaemonStats struct {
	State         MonitorState
	SourceUsable  bool
	SourceAlive   bool
	StartedAt     time.Time
	Lines         uint64 // lines handed to dispatch
	Skipped       uint64 // producer separator lines discarded
	Restarts      uint64
	AcceptorArmed bool
	Slots         []SlotStatus
}
