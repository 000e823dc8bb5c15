package registry

import (
	"github.com/wippyai/magick-wand/native"
)

// Identity is a process-wide unique wand id. Identity 0 is reserved and always invalid.
type Identity uint64

// ReleaseFunc releases the native handle behind an identity.
// It must be idempotent; the registry calls it at most once per identity.
type ReleaseFunc func() error

// Event types for wand lifecycle notifications.
type EventType uint8

const (
	EventRegistered EventType = iota
	EventDestroyed
)

func (t EventType) String() string {
	switch t {
	case EventRegistered:
		return "registered"
	case EventDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Event represents a wand lifecycle event.
type Event struct {
	Err    error
	ID     Identity
	Handle native.Handle
	Wand   native.WandType
	Type   EventType
}

// Observer receives notifications about wand lifecycle events.
// Observers are called without the table lock held.
type Observer interface {
	OnWandEvent(Event)
}
