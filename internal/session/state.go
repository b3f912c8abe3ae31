// Package session owns the lifecycle of one generate action: it accumulates
// streamed fragments, records the outcome and gates export on success.
package session

import "time"

// State is the lifecycle state of the current session.
type State int

const (
	Idle State = iota
	Streaming
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Token identifies one generate action. Seq increases with every Begin and
// is what the controller compares; ID is a uuid carried in logs and traces.
type Token struct {
	Seq uint64
	ID  string
}

// IsZero reports whether t was never issued.
func (t Token) IsZero() bool {
	return t.Seq == 0
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }
