package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/reconcile"
	"github.com/bloxops/b1apply/internal/schema"
)

// nextAvailableParam carries the parent id for next-available allocation.
// It never reaches the API as a field of its own.
const nextAvailableParam = "next_available_id"

// Remote adapts one kind definition onto the reconcile.Remote contract,
// delegating every call to the bloxone client.
type Remote struct {
	def    Definition
	client *bloxone.Client
	log    logr.Logger
}

// NewRemote creates the remote for one kind.
func NewRemote(log logr.Logger, client *bloxone.Client, def Definition) *Remote {
	return &Remote{
		def:    def,
		client: client,
		log:    log,
	}
}

// Find resolves the current remote object by id when given, else by the
// kind's identity filter. Returns nil when no object exists.
func (r *Remote) Find(ctx context.Context, spec reconcile.Spec) (bloxone.Object, error) {
	if spec.ID != "" {
		obj, err := r.client.Read(ctx, r.def.objectPath(spec.ID))
		if err != nil {
			// An id that resolves to nothing is fine when the desired
			// state is absence.
			if bloxone.IsNotFound(err) && spec.State == reconcile.StateAbsent {
				return nil, nil
			}
			return nil, err
		}
		return r.found(obj, spec), nil
	}

	// A kind with next-available allocation and no literal address always
	// resolves to absent: the address is carved out of the parent on create.
	if r.def.NextAvailableSuffix != "" {
		if v, ok := spec.Payload["address"]; !ok || v == nil {
			return nil, nil
		}
	}

	filter, err := r.identityFilter(spec.Payload)
	if err != nil {
		return nil, err
	}

	objs, err := r.client.List(ctx, r.def.APIPath, bloxone.ListOptions{Filter: filter})
	if err != nil {
		return nil, err
	}
	switch len(objs) {
	case 0:
		return nil, nil
	case 1:
		return r.found(objs[0], spec), nil
	default:
		return nil, &reconcile.LookupError{Kind: r.def.Kind, Filter: filter, Matches: len(objs)}
	}
}

// found applies the kind's Removed hook: an object the remote still
// returns but that already counts as removed (a revoked join token)
// resolves to absent when absence is desired.
func (r *Remote) found(obj bloxone.Object, spec reconcile.Spec) bloxone.Object {
	if spec.State == reconcile.StateAbsent && r.def.Removed != nil && r.def.Removed(obj) {
		return nil
	}
	return obj
}

// identityFilter builds the equality filter locating an existing object,
// e.g. `address=='10.0.0.0' and space=='ipam/ip_space/x' and cidr=='24'`.
func (r *Remote) identityFilter(payload bloxone.Object) (string, error) {
	terms := make([]string, 0, len(r.def.IdentityFields))
	for _, field := range r.def.IdentityFields {
		v, ok := payload[field]
		if !ok || v == nil {
			return "", &schema.ValidationError{
				Field:  field,
				Reason: "required to identify the resource when no id is given",
			}
		}
		terms = append(terms, fmt.Sprintf("%s=='%v'", field, v))
	}
	return strings.Join(terms, " and "), nil
}

// Create makes the desired object. When the kind supports next-available
// allocation and the payload carries next_available_id, the address is
// carved out of the parent resource instead of taken literally.
func (r *Remote) Create(ctx context.Context, payload bloxone.Object) (bloxone.Object, error) {
	body := clone(payload)
	if parent, ok := body[nextAvailableParam]; ok {
		delete(body, nextAvailableParam)
		if r.def.NextAvailableSuffix != "" {
			body["address"] = fmt.Sprintf("%v/%s", parent, r.def.NextAvailableSuffix)
		}
	}

	r.log.V(1).Info("creating object", "kind", r.def.Kind)
	return r.client.Create(ctx, r.def.APIPath, body)
}

// Update patches the existing object toward payload. Read-only fields
// fail validation when changed and are elided when not.
func (r *Remote) Update(ctx context.Context, current, payload bloxone.Object) (bloxone.Object, error) {
	body := clone(payload)
	delete(body, nextAvailableParam)

	for _, field := range r.def.ReadOnlyOnUpdate {
		v, ok := body[field]
		if !ok {
			continue
		}
		if fmt.Sprintf("%v", v) != fmt.Sprintf("%v", current[field]) {
			return nil, &schema.ValidationError{Field: field, Reason: "cannot be updated"}
		}
		delete(body, field)
	}

	id, err := r.id(current)
	if err != nil {
		return nil, err
	}
	r.log.V(1).Info("updating object", "kind", r.def.Kind, "id", id)
	return r.client.Update(ctx, r.def.objectPath(id), body)
}

// Delete removes the existing object.
func (r *Remote) Delete(ctx context.Context, current bloxone.Object) error {
	id, err := r.id(current)
	if err != nil {
		return err
	}
	r.log.V(1).Info("deleting object", "kind", r.def.Kind, "id", id)
	return r.client.Delete(ctx, r.def.objectPath(id))
}

func (r *Remote) id(obj bloxone.Object) (string, error) {
	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%s object has no id", r.def.Kind)
	}
	return id, nil
}

func clone(obj bloxone.Object) bloxone.Object {
	out := make(bloxone.Object, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	return out
}
