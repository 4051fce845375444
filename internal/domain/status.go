package domain

import "strings"

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusCompleted   Status = "COMPLETED"
	StatusRescheduled Status = "RESCHEDULED"
	StatusCancelled   Status = "CANCELLED"
)

// validNext is total for now: any status may follow any other. Tighten here.
var validNext = map[Status]map[Status]bool{
	StatusPending:     {StatusPending: true, StatusCompleted: true, StatusRescheduled: true, StatusCancelled: true},
	StatusCompleted:   {StatusPending: true, StatusCompleted: true, StatusRescheduled: true, StatusCancelled: true},
	StatusRescheduled: {StatusPending: true, StatusCompleted: true, StatusRescheduled: true, StatusCancelled: true},
	StatusCancelled:   {StatusPending: true, StatusCompleted: true, StatusRescheduled: true, StatusCancelled: true},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ParseStatus accepts the canonical names case-insensitively. Empty input
// yields ok=true with an empty status so callers can apply their default.
func ParseStatus(s string) (Status, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", true
	}
	st := Status(s)
	_, ok := validNext[st]
	return st, ok
}

// Holds reports whether an order in this status keeps its stock reserved.
func (s Status) Holds() bool { return s != StatusCancelled }
