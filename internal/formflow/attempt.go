package formflow

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Task performs the one collaborator call behind a submission. The returned
// value is kept on the attempt and shown to the client on success.
type Task func(ctx context.Context, fields Fields) (any, error)

// Form describes one kind of form: how its fields are validated, which
// collaborator call a submission makes, and where a success leads.
type Form struct {
	Name           string
	Title          string
	Protected      bool
	SuccessRoute   string
	SuccessMessage string
	Validate       Validator
	Submit         Task

	// Timeout bounds the collaborator call. Zero waits until the caller's
	// context ends.
	Timeout time.Duration
}

// Snapshot is a consistent copy of an attempt's state.
type Snapshot struct {
	ID             string    `json:"id"`
	Form           string    `json:"form"`
	Status         Status    `json:"status"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	Result         any       `json:"result,omitempty"`
	Submissions    int       `json:"submissions"`
	Fields         []string  `json:"fields"`
	SuccessRoute   string    `json:"-"`
	SuccessMessage string    `json:"-"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Attempt is the state holder of one mounted form instance. All methods are
// safe for concurrent use; at most one submission is in flight at a time.
type Attempt struct {
	ID    string
	Owner string

	form *Form
	now  func() time.Time

	mu           sync.Mutex
	fields       Fields
	status       Status
	errorMessage string
	result       any
	submissions  int
	updatedAt    time.Time
}

// NewAttempt mounts form as a fresh Idle instance.
func NewAttempt(id, owner string, form *Form) *Attempt {
	a := &Attempt{
		ID:     id,
		Owner:  owner,
		form:   form,
		now:    time.Now,
		fields: Fields{},
		status: StatusIdle,
	}
	a.updatedAt = a.now()
	return a
}

// Form returns the definition this instance was mounted from.
func (a *Attempt) Form() *Form {
	return a.form
}

// Set records a field input event. Editing a failed form returns it to Idle
// and clears the error.
func (a *Attempt) Set(name string, v Value) error {
	return a.SetAll(Fields{name: v})
}

// SetAll applies several field input events atomically.
func (a *Attempt) SetAll(fields Fields) error {
	if len(fields) == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.editableLocked(); err != nil {
		return err
	}
	if a.status == StatusFailed {
		if err := a.transitionLocked(StatusIdle); err != nil {
			return err
		}
	}
	for k, v := range fields {
		a.fields[k] = v
	}
	a.updatedAt = a.now()
	return nil
}

// Reset moves a failed instance back to Idle without changing its fields.
func (a *Attempt) Reset() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == StatusIdle {
		return nil
	}
	return a.transitionLocked(StatusIdle)
}

// Submit validates the current fields and, when they are valid, performs
// the form's collaborator call. The instance is InFlight before the call
// starts, so a concurrent Submit returns ErrInFlight without a second call.
//
// The returned error is a *ValidationError (status unchanged), a
// *CollaboratorError (status Failed), ErrInFlight or ErrClosed.
func (a *Attempt) Submit(ctx context.Context) (Snapshot, error) {
	a.mu.Lock()
	if err := a.editableLocked(); err != nil {
		snap := a.snapshotLocked()
		a.mu.Unlock()
		return snap, err
	}
	fields := a.fields.Clone()
	if a.form.Validate != nil {
		if err := a.form.Validate(fields); err != nil {
			snap := a.snapshotLocked()
			a.mu.Unlock()
			return snap, err
		}
	}
	if err := a.transitionLocked(StatusInFlight); err != nil {
		snap := a.snapshotLocked()
		a.mu.Unlock()
		return snap, err
	}
	a.submissions++
	a.mu.Unlock()

	result, err := a.run(ctx, fields)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		cerr := collaboratorError(err)
		if terr := a.transitionLocked(StatusFailed); terr != nil {
			return a.snapshotLocked(), terr
		}
		a.errorMessage = cerr.Message
		return a.snapshotLocked(), cerr
	}
	if terr := a.transitionLocked(StatusSucceeded); terr != nil {
		return a.snapshotLocked(), terr
	}
	a.result = result
	return a.snapshotLocked(), nil
}

// Snapshot returns a copy of the current state.
func (a *Attempt) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Status returns the current status.
func (a *Attempt) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// idleSince reports when the instance last changed.
func (a *Attempt) idleSince() (Status, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status, a.updatedAt
}

func (a *Attempt) run(ctx context.Context, fields Fields) (result any, err error) {
	if a.form.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.form.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%s submission aborted: %v", a.form.Name, r)
		}
	}()
	return a.form.Submit(ctx, fields)
}

func (a *Attempt) editableLocked() error {
	switch a.status {
	case StatusInFlight:
		return ErrInFlight
	case StatusSucceeded:
		return ErrClosed
	}
	return nil
}

func (a *Attempt) transitionLocked(next Status) error {
	if !a.status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: a.status, To: next}
	}
	if a.status == StatusFailed {
		a.errorMessage = ""
	}
	a.status = next
	a.updatedAt = a.now()
	return nil
}

func (a *Attempt) snapshotLocked() Snapshot {
	return Snapshot{
		ID:             a.ID,
		Form:           a.form.Name,
		Status:         a.status,
		ErrorMessage:   a.errorMessage,
		Result:         a.result,
		Submissions:    a.submissions,
		Fields:         a.fields.Names(),
		SuccessRoute:   a.form.SuccessRoute,
		SuccessMessage: a.form.SuccessMessage,
		UpdatedAt:      a.updatedAt,
	}
}

func collaboratorError(err error) *CollaboratorError {
	if cerr, ok := AsCollaborator(err); ok {
		return cerr
	}
	msg := err.Error()
	if msg == "" {
		msg = "unknown error"
	}
	return &CollaboratorError{Message: msg, Err: err}
}
