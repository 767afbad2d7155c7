// Package reconcile implements the idempotent reconciliation every managed
// kind follows: resolve the current remote object, diff it against the
// desired payload, and issue the minimal create/update/delete call to
// converge the two.
package reconcile

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/bloxops/b1apply/internal/bloxone"
)

// State is the desired disposition of a resource.
type State string

// Recognized states. Some kinds use an alternate terminal state (join
// tokens revoke instead of delete); those map onto StateAbsent before the
// reconciler runs.
const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// Action is the single remote call a reconciliation decides to make.
type Action string

// Actions, computed by Diff and never stored.
const (
	ActionNone   Action = "none"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Remote is the per-kind client surface the reconciler drives. It wraps
// the vendor API for exactly one resource type.
type Remote interface {
	// Find resolves the current remote object for the spec's identity,
	// or nil if none exists. An ambiguous identity (more than one match)
	// fails with a *LookupError.
	Find(ctx context.Context, spec Spec) (bloxone.Object, error)

	// Create makes the desired object and returns its remote representation.
	Create(ctx context.Context, payload bloxone.Object) (bloxone.Object, error)

	// Update converges the existing object toward payload and returns the
	// remote representation after the call.
	Update(ctx context.Context, current, payload bloxone.Object) (bloxone.Object, error)

	// Delete removes the existing object.
	Delete(ctx context.Context, current bloxone.Object) error
}

// Spec is the desired state of one remote resource. It is never mutated
// during a reconciliation.
type Spec struct {
	// State says whether the resource should exist.
	State State
	// ID addresses the resource directly when known; otherwise the
	// remote resolves identity from the payload's identity fields.
	ID string
	// Payload holds the desired field values. Fields absent from the
	// payload are ignored during comparison, never reset.
	Payload bloxone.Object
}

// Diff captures the remote representation before and after the applied
// action, for reporting.
type Diff struct {
	Before bloxone.Object
	After  bloxone.Object
}

// Result reports the outcome of one reconciliation.
type Result struct {
	// Changed is true when a create, update, or delete was applied.
	Changed bool
	// Action is what the reconciliation decided to do.
	Action Action
	// ID is the remote identifier, when one exists.
	ID string
	// Object is the remote representation after the action; nil after a
	// delete and in dry-run mode.
	Object bloxone.Object
	// Diff is the before/after pair. Empty in dry-run mode.
	Diff Diff
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDryRun makes the reconciler compute the action and changed flag
// without issuing any mutating call.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

// Reconciler converges one remote resource per Run call. It holds no
// state across invocations.
type Reconciler struct {
	remote Remote
	log    logr.Logger
	dryRun bool
}

// New creates a Reconciler driving the given remote.
func New(log logr.Logger, remote Remote, opts ...Option) *Reconciler {
	r := &Reconciler{
		remote: remote,
		log:    log,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run performs one synchronous resolve, diff, apply sequence.
func (r *Reconciler) Run(ctx context.Context, spec Spec) (Result, error) {
	current, err := r.Resolve(ctx, spec)
	if err != nil {
		return Result{}, err
	}

	action := DecideAction(spec, current)
	r.log.V(1).Info("decided action", "action", action, "found", current != nil)

	return r.Apply(ctx, action, spec, current)
}

// Resolve fetches the current remote object, or nil when it does not
// exist. The current state is re-fetched on every reconciliation.
func (r *Reconciler) Resolve(ctx context.Context, spec Spec) (bloxone.Object, error) {
	current, err := r.remote.Find(ctx, spec)
	if err != nil {
		return nil, err
	}
	return current, nil
}

// DecideAction computes the action converging current toward spec. It is
// a pure function of its inputs.
func DecideAction(spec Spec, current bloxone.Object) Action {
	switch {
	case spec.State == StateAbsent && current == nil:
		// Deleting something already absent is not an error.
		return ActionNone
	case spec.State == StateAbsent:
		return ActionDelete
	case current == nil:
		return ActionCreate
	case Changed(current, spec.Payload):
		return ActionUpdate
	default:
		return ActionNone
	}
}

// Apply executes the decided action and reports the result. Each action
// issues exactly one remote call; failures wrap as *ApplyError and are
// never retried.
func (r *Reconciler) Apply(ctx context.Context, action Action, spec Spec, current bloxone.Object) (Result, error) {
	res := Result{
		Action:  action,
		Changed: action != ActionNone,
		ID:      objectID(current),
	}

	if r.dryRun {
		return res, nil
	}

	var after bloxone.Object
	switch action {
	case ActionNone:
		res.Object = current

	case ActionCreate:
		obj, err := r.remote.Create(ctx, spec.Payload)
		if err != nil {
			return Result{}, &ApplyError{Action: action, Err: err}
		}
		after = obj

	case ActionUpdate:
		obj, err := r.remote.Update(ctx, current, spec.Payload)
		if err != nil {
			return Result{}, &ApplyError{Action: action, Err: err}
		}
		after = obj

	case ActionDelete:
		if err := r.remote.Delete(ctx, current); err != nil {
			return Result{}, &ApplyError{Action: action, Err: err}
		}

	default:
		return Result{}, fmt.Errorf("reconcile: unknown action %q", action)
	}

	if action != ActionNone {
		res.Object = after
		res.Diff = Diff{Before: current, After: after}
	}
	if id := objectID(after); id != "" {
		res.ID = id
	}
	return res, nil
}

// objectID extracts the remote identifier when present.
func objectID(obj bloxone.Object) string {
	if obj == nil {
		return ""
	}
	if id, ok := obj["id"].(string); ok {
		return id
	}
	return ""
}
