package model

// StatusAPI is the read contract for status surfaces (HTTP and CLI).
type StatusAPI interface {
	Stats() DaemonStats
}
