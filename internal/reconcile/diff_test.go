package reconcile

import (
	"testing"

	"github.com/bloxops/b1apply/internal/bloxone"
)

func TestChanged(t *testing.T) {
	tests := []struct {
		name     string
		existing bloxone.Object
		payload  bloxone.Object
		want     bool
	}{
		{
			name:     "identical scalars",
			existing: bloxone.Object{"name": "zone1", "ttl": 300},
			payload:  bloxone.Object{"name": "zone1", "ttl": 300},
			want:     false,
		},
		{
			name:     "scalar mismatch",
			existing: bloxone.Object{"name": "zone1", "ttl": 600},
			payload:  bloxone.Object{"name": "zone1", "ttl": 300},
			want:     true,
		},
		{
			name:     "field missing remotely",
			existing: bloxone.Object{"name": "zone1"},
			payload:  bloxone.Object{"name": "zone1", "comment": "managed"},
			want:     true,
		},
		{
			name:     "remote extras are ignored",
			existing: bloxone.Object{"name": "zone1", "created_at": "2024-01-01", "utilization": 42},
			payload:  bloxone.Object{"name": "zone1"},
			want:     false,
		},
		{
			name:     "nil payload fields are skipped",
			existing: bloxone.Object{"name": "zone1"},
			payload:  bloxone.Object{"name": "zone1", "comment": nil},
			want:     false,
		},
		{
			name:     "json float equals manifest int",
			existing: bloxone.Object{"cidr": float64(24)},
			payload:  bloxone.Object{"cidr": 24},
			want:     false,
		},
		{
			name:     "nested dict recurses",
			existing: bloxone.Object{"asm_config": map[string]any{"enable": true, "history": float64(30)}},
			payload:  bloxone.Object{"asm_config": map[string]any{"enable": true, "history": 30}},
			want:     false,
		},
		{
			name:     "nested dict mismatch",
			existing: bloxone.Object{"asm_config": map[string]any{"enable": true}},
			payload:  bloxone.Object{"asm_config": map[string]any{"enable": false}},
			want:     true,
		},
		{
			name:     "list length mismatch",
			existing: bloxone.Object{"hosts": []any{"a"}},
			payload:  bloxone.Object{"hosts": []any{"a", "b"}},
			want:     true,
		},
		{
			name:     "list order matters",
			existing: bloxone.Object{"hosts": []any{"a", "b"}},
			payload:  bloxone.Object{"hosts": []any{"b", "a"}},
			want:     true,
		},
		{
			name: "list of dicts equal",
			existing: bloxone.Object{"addresses": []any{
				map[string]any{"address": "10.0.0.1", "space": "ipam/ip_space/x"},
			}},
			payload: bloxone.Object{"addresses": []any{
				map[string]any{"address": "10.0.0.1", "space": "ipam/ip_space/x"},
			}},
			want: false,
		},
		{
			name:     "type mismatch on structured field",
			existing: bloxone.Object{"tags": "legacy"},
			payload:  bloxone.Object{"tags": map[string]any{"env": "prod"}},
			want:     true,
		},
		{
			name:     "empty payload never changes",
			existing: bloxone.Object{"name": "zone1"},
			payload:  bloxone.Object{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Changed(tt.existing, tt.payload); got != tt.want {
				t.Errorf("Changed() = %v, want %v", got, tt.want)
			}
			// Pure function: a second call must agree with the first.
			if got := Changed(tt.existing, tt.payload); got != tt.want {
				t.Errorf("Changed() second call = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideAction(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		current bloxone.Object
		want    Action
	}{
		{
			name:    "desired present, current absent",
			spec:    Spec{State: StatePresent, Payload: bloxone.Object{"name": "zone1"}},
			current: nil,
			want:    ActionCreate,
		},
		{
			name:    "field mismatch",
			spec:    Spec{State: StatePresent, Payload: bloxone.Object{"name": "zone1", "ttl": 300}},
			current: bloxone.Object{"name": "zone1", "ttl": float64(600)},
			want:    ActionUpdate,
		},
		{
			name:    "desired absent, current present",
			spec:    Spec{State: StateAbsent},
			current: bloxone.Object{"name": "zone1"},
			want:    ActionDelete,
		},
		{
			name:    "desired equals current",
			spec:    Spec{State: StatePresent, Payload: bloxone.Object{"name": "zone1"}},
			current: bloxone.Object{"name": "zone1"},
			want:    ActionNone,
		},
		{
			name:    "absent and already gone",
			spec:    Spec{State: StateAbsent},
			current: nil,
			want:    ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideAction(tt.spec, tt.current); got != tt.want {
				t.Errorf("DecideAction() = %v, want %v", got, tt.want)
			}
		})
	}
}
