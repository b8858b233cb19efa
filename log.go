package swim

import "log"

// EventType enumerates the events a Logger can be asked to record.
// Mirrors zeromq-gyre's event.go enum-with-String idiom, trimmed to
// the two events spec.md's Log contract actually needs.
type EventType int

const (
	EventNodeAdd EventType = iota + 1
	EventNodeRemove
)

func (e EventType) String() string {
	switch e {
	case EventNodeAdd:
		return "NodeAdd"
	case EventNodeRemove:
		return "NodeRemove"
	default:
		return "Unknown"
	}
}

// Logger is the Log contract consumed by the engine (spec §6): it
// only ever writes, never reads back, and a failed Logger call is not
// itself an error the engine needs to react to.
type Logger interface {
	LogNodeAdd(self, peer Address)
	LogNodeRemove(self, peer Address)
	Log(self Address, freeText string)
}

// StdLogger is the default Logger, writing through the standard
// library log package with the "I:"/"W:" line-prefix convention
// zeromq-gyre uses throughout node.go and cmd/monitor.go.
type StdLogger struct{}

func (StdLogger) LogNodeAdd(self, peer Address) {
	log.Printf("I: [%s] added %s to membership list", self, peer)
}

func (StdLogger) LogNodeRemove(self, peer Address) {
	log.Printf("W: [%s] removed %s from membership list", self, peer)
}

func (StdLogger) Log(self Address, freeText string) {
	log.Printf("I: [%s] %s", self, freeText)
}

// NopLogger discards everything; useful in tests that only care about
// membership-list side effects, not log output.
type NopLogger struct{}

func (NopLogger) LogNodeAdd(Address, Address)    {}
func (NopLogger) LogNodeRemove(Address, Address) {}
func (NopLogger) Log(Address, string)            {}
