package formflow

// Status is the tri-state progress of a Submission Attempt
// (Idle, InFlight, then Succeeded or Failed).
type Status string

const (
	StatusIdle      Status = "IDLE"
	StatusInFlight  Status = "IN_FLIGHT"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the form instance is finished for the session.
// Failed is recoverable by resubmitting, so only Succeeded is terminal.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded
}

// validTransitions lists every allowed move. Nothing reaches Succeeded or
// Failed without passing through InFlight.
var validTransitions = map[Status][]Status{
	StatusIdle:     {StatusInFlight},
	StatusInFlight: {StatusSucceeded, StatusFailed},
	StatusFailed:   {StatusInFlight, StatusIdle},
}

// CanTransitionTo returns true if moving from s to next is valid.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
