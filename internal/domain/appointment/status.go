package appointment

import "strings"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusCancelled, StatusCompleted},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusCancelled, StatusCompleted:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Blocks reports whether an appointment in this status occupies its slot.
func (s Status) Blocks() bool {
	return s != StatusCancelled
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Reschedulable reports whether the start time may still change.
func (s Status) Reschedulable() bool {
	return s == StatusPending || s == StatusApproved
}

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

// InitialStatus is approved for businesses that skip manual review.
func InitialStatus(autoApprove bool) Status {
	if autoApprove {
		return StatusApproved
	}
	return StatusPending
}
