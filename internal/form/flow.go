package form

import (
	"context"
	"errors"

	"github.com/pdihub/pdihub/internal/models"
)

// IdentityChecker resolves the current actor. The flow re-checks identity
// before every forward transition and before submit, so no mutating
// transition proceeds on a stale session.
type IdentityChecker interface {
	CurrentActor(ctx context.Context) (*models.Actor, error)
}

// AggregateSaver persists the aggregate at submission time.
type AggregateSaver interface {
	// CreateCompleted persists a brand-new aggregate with status completed
	// and returns its storage id.
	CreateCompleted(ctx context.Context, insp *models.Inspection) (string, error)
	// SaveAllDraft writes the full current state of an existing aggregate,
	// keeping status draft.
	SaveAllDraft(ctx context.Context, insp *models.Inspection) error
}

// Flow is the step navigation state machine for one in-progress inspection.
// States are steps 1..6 plus a terminal submitted state reachable only from
// step 6 after all-steps validation passes.
type Flow struct {
	state     *models.Inspection
	identity  IdentityChecker
	saver     AggregateSaver
	current   int
	submitted bool
}

// NewFlow creates a Flow positioned at step 1.
func NewFlow(state *models.Inspection, identity IdentityChecker, saver AggregateSaver) *Flow {
	return &Flow{
		state:    state,
		identity: identity,
		saver:    saver,
		current:  FirstStep,
	}
}

// Current returns the current step number.
func (f *Flow) Current() int { return f.current }

// Submitted reports whether the flow has reached the terminal state.
func (f *Flow) Submitted() bool { return f.submitted }

// State returns the in-memory form state backing this flow.
func (f *Flow) State() *models.Inspection { return f.state }

// NextResult is the outcome of a forward transition attempt.
type NextResult struct {
	Advanced bool   `json:"advanced"`
	Error    string `json:"error,omitempty"`
}

// GoNext validates the current step and advances by one, capped at the last
// step. The session is re-checked first; on an authentication failure the
// step is left unchanged and the error is distinct from validation errors.
func (f *Flow) GoNext(ctx context.Context) (NextResult, error) {
	if err := f.recheckIdentity(ctx); err != nil {
		return NextResult{}, err
	}

	if err := ValidateStep(f.state, f.current); err != nil {
		return NextResult{Error: err.Message}, nil
	}

	if f.current < LastStep {
		f.current++
	}

	return NextResult{Advanced: true}, nil
}

// GoPrevious moves back one step unconditionally, floored at step 1.
func (f *Flow) GoPrevious() {
	if f.current > FirstStep {
		f.current--
	}
}

// GoToStep jumps directly to step n. Backward jumps are always allowed
// (read-only review, correcting earlier steps); forward jumps would skip
// validation of intervening steps and are rejected.
func (f *Flow) GoToStep(n int) bool {
	if n < FirstStep || n >= f.current {
		return false
	}

	f.current = n

	return true
}

// SubmitResult is the outcome of a final submission attempt.
type SubmitResult struct {
	Success     bool   `json:"success"`
	ID          string `json:"id,omitempty"`
	Error       string `json:"error,omitempty"`
	FailingStep int    `json:"failing_step,omitempty"`
}

// Submit runs the terminal transition: identity re-check, then all-steps
// validation. On a validation failure the flow moves to the failing step and
// nothing is persisted.
//
// For a brand-new inspection the aggregate is persisted as completed and the
// flow transitions out of the form. For an aggregate that already has a
// storage id, submit performs a draft-preserving save-all instead; marking
// an existing draft completed is a separate explicit action.
func (f *Flow) Submit(ctx context.Context) (SubmitResult, error) {
	if err := f.recheckIdentity(ctx); err != nil {
		return SubmitResult{}, err
	}

	if stepErr := ValidateAll(f.state); stepErr != nil {
		f.current = stepErr.Step

		return SubmitResult{Error: stepErr.Message, FailingStep: stepErr.Step}, nil
	}

	if f.state.ID == "" {
		id, err := f.saver.CreateCompleted(ctx, f.state)
		if err != nil {
			return SubmitResult{}, err
		}

		f.state.ID = id
		f.submitted = true

		return SubmitResult{Success: true, ID: id}, nil
	}

	if err := f.saver.SaveAllDraft(ctx, f.state); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{Success: true, ID: f.state.ID}, nil
}

// recheckIdentity queries the identity collaborator and maps any failure to
// ErrNotAuthenticated without mutating the current step.
func (f *Flow) recheckIdentity(ctx context.Context) error {
	if f.identity == nil {
		return models.ErrNotAuthenticated
	}

	actor, err := f.identity.CurrentActor(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotAuthenticated) {
			return err
		}

		return models.ErrNotAuthenticated
	}

	if actor == nil {
		return models.ErrNotAuthenticated
	}

	return nil
}
