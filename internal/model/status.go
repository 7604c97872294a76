package model

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusSeated    Status = "seated"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Trigger names the operation that moves a reservation between states.
type Trigger string

const (
	TriggerSeat         Trigger = "seat"
	TriggerReset        Trigger = "reset"
	TriggerStatusUpdate Trigger = "status_update"
)

// transitions is the only place that decides which status changes are legal
// and which operation may perform them.
var transitions = map[Status]map[Status]Trigger{
	StatusBooked: {
		StatusSeated:    TriggerSeat,
		StatusCancelled: TriggerStatusUpdate,
	},
	StatusSeated: {
		StatusFinished: TriggerReset,
	},
}

// ParseStatus returns the Status for s and whether it is one of the four
// recognised values.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusBooked, StatusSeated, StatusFinished, StatusCancelled:
		return st, true
	}
	return "", false
}

// Valid reports whether s is a recognised status.
func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// TriggerFor returns the operation allowed to move s to next.  ok is false
// when the transition is not part of the lifecycle at all.
func (s Status) TriggerFor(next Status) (Trigger, bool) {
	t, ok := transitions[s][next]
	return t, ok
}

// CanTransition reports whether trigger may move s to next.
func (s Status) CanTransition(next Status, trigger Trigger) bool {
	t, ok := s.TriggerFor(next)
	return ok && t == trigger
}
