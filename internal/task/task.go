// Package task is the orchestrator boundary: it turns one declarative
// task invocation into a reconciliation and reports the outcome as a
// changed/unchanged result.
package task

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-logr/logr"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/manifest"
	"github.com/bloxops/b1apply/internal/reconcile"
	"github.com/bloxops/b1apply/internal/resource"
	"github.com/bloxops/b1apply/internal/schema"
)

// Result is what one task invocation reports back.
type Result struct {
	// Kind is the resource kind the task managed.
	Kind string
	// Changed is true when a create, update, or delete was applied.
	Changed bool
	// ID is the remote identifier, when one exists.
	ID string
	// Object is the remote representation after the action; nil after a
	// delete and in check mode.
	Object bloxone.Object
	// Diff is the before/after pair for reporting.
	Diff reconcile.Diff
	// Msg is a short human-readable summary, e.g. "ipam/subnet created".
	Msg string
}

// Option configures a Runner.
type Option func(*Runner)

// WithCheckMode makes every apply compute its action without issuing
// mutating calls.
func WithCheckMode(check bool) Option {
	return func(r *Runner) {
		r.checkMode = check
	}
}

// Runner executes task invocations against one configured client. It is
// stateless across invocations; each call is an independent synchronous
// resolve/diff/apply chain.
type Runner struct {
	client    *bloxone.Client
	log       logr.Logger
	checkMode bool
}

// NewRunner creates a task runner.
func NewRunner(log logr.Logger, client *bloxone.Client, opts ...Option) *Runner {
	r := &Runner{
		client: client,
		log:    log,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Apply reconciles one resource: validate parameters, resolve the current
// object, and converge it toward the desired state.
func (r *Runner) Apply(ctx context.Context, kind, state, id string, params map[string]any) (Result, error) {
	def, err := resource.Lookup(kind)
	if err != nil {
		return Result{}, err
	}

	if state == "" {
		state = "present"
	}
	if !slices.Contains(def.States(), state) {
		return Result{}, &schema.ValidationError{
			Field:  "state",
			Reason: fmt.Sprintf("value %q is not one of %v", state, def.States()),
		}
	}

	payload, err := def.Schema.Validate(params)
	if err != nil {
		return Result{}, err
	}

	desired := reconcile.StatePresent
	if state == def.StateAbsent() {
		desired = reconcile.StateAbsent
	}

	log := r.log.WithValues("kind", kind)
	rec := reconcile.New(log, resource.NewRemote(log, r.client, def), reconcile.WithDryRun(r.checkMode))
	res, err := rec.Run(ctx, reconcile.Spec{State: desired, ID: id, Payload: payload})
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", kind, err)
	}

	out := Result{
		Kind:    kind,
		Changed: res.Changed,
		ID:      res.ID,
		Object:  res.Object,
		Diff:    res.Diff,
	}
	switch res.Action {
	case reconcile.ActionCreate:
		out.Msg = kind + " created"
	case reconcile.ActionUpdate:
		out.Msg = kind + " updated"
	case reconcile.ActionDelete:
		if def.StateAbsent() == "revoked" {
			out.Msg = kind + " revoked"
		} else {
			out.Msg = kind + " deleted"
		}
	}
	return out, nil
}

// ApplyDocument runs one manifest document.
func (r *Runner) ApplyDocument(ctx context.Context, doc manifest.Document) (Result, error) {
	return r.Apply(ctx, doc.Kind, doc.State, doc.ID, doc.Spec)
}

// Query runs the read-only surface of a kind.
func (r *Runner) Query(ctx context.Context, kind string, opts resource.QueryOptions) ([]bloxone.Object, error) {
	def, err := resource.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return resource.Query(ctx, r.client, def, opts)
}
