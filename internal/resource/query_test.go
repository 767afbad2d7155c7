package resource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/schema"
)

func TestQueryOptions_MutuallyExclusive(t *testing.T) {
	tests := []struct {
		name string
		opts QueryOptions
	}{
		{"id and filters", QueryOptions{ID: "x", Filters: map[string]string{"name": "a"}}},
		{"id and filter query", QueryOptions{ID: "x", FilterQuery: "name=='a'"}},
		{"id and tag filters", QueryOptions{ID: "x", TagFilters: map[string]string{"env": "prod"}}},
		{"filters and filter query", QueryOptions{Filters: map[string]string{"name": "a"}, FilterQuery: "name=='a'"}},
		{"tag filters and tag query", QueryOptions{TagFilters: map[string]string{"env": "prod"}, TagFilterQuery: "env=='prod'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			var verr *schema.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %v", err)
			}
		})
	}
}

func TestFilterExpr(t *testing.T) {
	// Raw query wins.
	if got := filterExpr(map[string]string{"a": "1"}, "a=='raw'"); got != "a=='raw'" {
		t.Errorf("expected raw query, got %q", got)
	}
	// Equality terms sort by key.
	got := filterExpr(map[string]string{"space": "s1", "address": "10.0.0.3"}, "")
	want := "address=='10.0.0.3' and space=='s1'"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := filterExpr(nil, ""); got != "" {
		t.Errorf("expected empty expression, got %q", got)
	}
}

func TestQuery_ByIDNotFoundIsEmpty(t *testing.T) {
	client := newRemoteClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	objs, err := Query(context.Background(), client, subnetDef, QueryOptions{ID: "ipam/subnet/gone"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 0 {
		t.Errorf("expected empty result, got %v", objs)
	}
}

func TestQuery_ListPassesFilters(t *testing.T) {
	var gotFilter, gotTagFilter, gotFields string
	client := newRemoteClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotFilter = q.Get("_filter")
		gotTagFilter = q.Get("_tfilter")
		gotFields = q.Get("_fields")
		json.NewEncoder(w).Encode(map[string]any{"results": []bloxone.Object{{"id": "a"}}})
	}))

	objs, err := Query(context.Background(), client, subnetDef, QueryOptions{
		Filters:        map[string]string{"space": "ipam/ip_space/x"},
		TagFilterQuery: "env=='prod'",
		Fields:         []string{"id", "address"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objs))
	}
	if gotFilter != "space=='ipam/ip_space/x'" {
		t.Errorf("unexpected _filter %q", gotFilter)
	}
	if gotTagFilter != "env=='prod'" {
		t.Errorf("unexpected _tfilter %q", gotTagFilter)
	}
	if gotFields != "id,address" {
		t.Errorf("unexpected _fields %q", gotFields)
	}
}
