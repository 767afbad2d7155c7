package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"

	"github.com/bloxops/b1apply/internal/bloxone"
)

// fakeRemote is an in-memory Remote holding at most one object.
type fakeRemote struct {
	object bloxone.Object

	findErr   error
	createErr error
	updateErr error
	deleteErr error

	creates int
	updates int
	deletes int
}

func (f *fakeRemote) Find(_ context.Context, _ Spec) (bloxone.Object, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.object, nil
}

func (f *fakeRemote) Create(_ context.Context, payload bloxone.Object) (bloxone.Object, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates++
	f.object = bloxone.Object{"id": "ipam/ip_space/new"}
	for k, v := range payload {
		f.object[k] = v
	}
	return f.object, nil
}

func (f *fakeRemote) Update(_ context.Context, current, payload bloxone.Object) (bloxone.Object, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates++
	for k, v := range payload {
		f.object[k] = v
	}
	return f.object, nil
}

func (f *fakeRemote) Delete(_ context.Context, _ bloxone.Object) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes++
	f.object = nil
	return nil
}

func TestRun_Create(t *testing.T) {
	remote := &fakeRemote{}
	r := New(logr.Discard(), remote)

	res, err := r.Run(context.Background(), Spec{
		State:   StatePresent,
		Payload: bloxone.Object{"name": "zone1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Changed {
		t.Error("expected Changed to be true")
	}
	if res.Action != ActionCreate {
		t.Errorf("expected action %q, got %q", ActionCreate, res.Action)
	}
	if res.Object["name"] != "zone1" {
		t.Errorf("expected created object to carry name, got %v", res.Object)
	}
	if res.ID != "ipam/ip_space/new" {
		t.Errorf("expected result ID from created object, got %q", res.ID)
	}
}

func TestRun_Update(t *testing.T) {
	remote := &fakeRemote{object: bloxone.Object{"id": "dns/auth_zone/z1", "fqdn": "zone1.", "ttl": float64(600)}}
	r := New(logr.Discard(), remote)

	res, err := r.Run(context.Background(), Spec{
		State:   StatePresent,
		Payload: bloxone.Object{"fqdn": "zone1.", "ttl": 300},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Changed {
		t.Error("expected Changed to be true")
	}
	if res.Action != ActionUpdate {
		t.Errorf("expected action %q, got %q", ActionUpdate, res.Action)
	}
	if res.Object["ttl"] != 300 {
		t.Errorf("expected resulting ttl 300, got %v", res.Object["ttl"])
	}
	if diff := cmp.Diff(res.Diff.Before["ttl"], float64(600)); diff != "" {
		t.Errorf("unexpected before state (-got +want):\n%s", diff)
	}
}

func TestRun_Delete(t *testing.T) {
	remote := &fakeRemote{object: bloxone.Object{"id": "dns/auth_zone/z1", "fqdn": "zone1."}}
	r := New(logr.Discard(), remote)

	res, err := r.Run(context.Background(), Spec{State: StateAbsent})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Changed {
		t.Error("expected Changed to be true")
	}
	if res.Object != nil {
		t.Errorf("expected nil object after delete, got %v", res.Object)
	}
	if remote.deletes != 1 {
		t.Errorf("expected exactly one delete call, got %d", remote.deletes)
	}
}

func TestRun_NoOp(t *testing.T) {
	remote := &fakeRemote{object: bloxone.Object{"id": "ipam/ip_space/s1", "name": "zone1"}}
	r := New(logr.Discard(), remote)

	res, err := r.Run(context.Background(), Spec{
		State:   StatePresent,
		Payload: bloxone.Object{"name": "zone1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Changed {
		t.Error("expected Changed to be false")
	}
	if res.Object == nil {
		t.Error("expected current object in result")
	}
}

func TestRun_AbsentAlreadyGone(t *testing.T) {
	remote := &fakeRemote{}
	r := New(logr.Discard(), remote)

	res, err := r.Run(context.Background(), Spec{State: StateAbsent})
	if err != nil {
		t.Fatalf("deleting an absent resource must not fail: %v", err)
	}
	if res.Changed {
		t.Error("expected Changed to be false")
	}
	if remote.deletes != 0 {
		t.Errorf("expected no delete call, got %d", remote.deletes)
	}
}

func TestRun_Idempotent(t *testing.T) {
	remote := &fakeRemote{}
	r := New(logr.Discard(), remote)
	spec := Spec{State: StatePresent, Payload: bloxone.Object{"name": "zone1", "ttl": 300}}

	first, err := r.Run(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Changed {
		t.Error("expected first run to change")
	}

	second, err := r.Run(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Changed {
		t.Error("expected second run to be unchanged")
	}
	if remote.creates != 1 || remote.updates != 0 {
		t.Errorf("expected a single create and no updates, got creates=%d updates=%d", remote.creates, remote.updates)
	}
}

func TestRun_DryRun(t *testing.T) {
	remote := &fakeRemote{}
	r := New(logr.Discard(), remote, WithDryRun(true))

	res, err := r.Run(context.Background(), Spec{
		State:   StatePresent,
		Payload: bloxone.Object{"name": "zone1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Changed {
		t.Error("expected Changed to be true in dry-run")
	}
	if res.Object != nil {
		t.Errorf("expected no object in dry-run, got %v", res.Object)
	}
	if remote.creates != 0 {
		t.Errorf("expected no create call in dry-run, got %d", remote.creates)
	}
}

func TestRun_ApplyErrorWrapsRemoteFailure(t *testing.T) {
	boom := errors.New("boom")
	remote := &fakeRemote{createErr: boom}
	r := New(logr.Discard(), remote)

	_, err := r.Run(context.Background(), Spec{
		State:   StatePresent,
		Payload: bloxone.Object{"name": "zone1"},
	})
	var applyErr *ApplyError
	if !errors.As(err, &applyErr) {
		t.Fatalf("expected *ApplyError, got %v", err)
	}
	if applyErr.Action != ActionCreate {
		t.Errorf("expected action %q, got %q", ActionCreate, applyErr.Action)
	}
	if !errors.Is(err, boom) {
		t.Error("expected wrapped remote error to be reachable via errors.Is")
	}
}

func TestRun_ResolveFailurePropagates(t *testing.T) {
	lookupErr := &LookupError{Kind: "ipam/ip_space", Filter: "name=='dup'", Matches: 2}
	remote := &fakeRemote{findErr: lookupErr}
	r := New(logr.Discard(), remote)

	_, err := r.Run(context.Background(), Spec{
		State:   StatePresent,
		Payload: bloxone.Object{"name": "dup"},
	})
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LookupError, got %v", err)
	}
	if le.Matches != 2 {
		t.Errorf("expected 2 matches, got %d", le.Matches)
	}
}
