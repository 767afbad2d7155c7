package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var zoneSchema = Schema{
	"fqdn": {Type: String, Required: true},
	"primary_type": {
		Type:    String,
		Choices: []string{"cloud", "external"},
		Default: "cloud",
	},
	"ttl":      {Type: Int},
	"disabled": {Type: Bool},
	"tags":     {Type: Dict},
	"asm_config": {
		Type: Dict,
		Fields: Schema{
			"enable":    {Type: Bool},
			"threshold": {Type: Int},
		},
	},
	"hosts": {
		Type: List,
		Elem: &Field{Type: String},
	},
}

func TestValidate(t *testing.T) {
	got, err := zoneSchema.Validate(map[string]any{
		"fqdn":     "zone1.example.com.",
		"ttl":      float64(300), // decoded JSON numbers arrive as float64
		"disabled": false,
		"tags":     map[string]any{"env": "prod"},
		"hosts":    []any{"ns1", "ns2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"fqdn":         "zone1.example.com.",
		"primary_type": "cloud", // default applied
		"ttl":          300,
		"disabled":     false,
		"tags":         map[string]any{"env": "prod"},
		"hosts":        []any{"ns1", "ns2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected payload (-want +got):\n%s", diff)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		field  string
	}{
		{
			name:   "unknown parameter",
			params: map[string]any{"fqdn": "z.", "bogus": 1},
			field:  "bogus",
		},
		{
			name:   "missing required",
			params: map[string]any{"ttl": 300},
			field:  "fqdn",
		},
		{
			name:   "bad choice",
			params: map[string]any{"fqdn": "z.", "primary_type": "secondary"},
			field:  "primary_type",
		},
		{
			name:   "wrong type",
			params: map[string]any{"fqdn": "z.", "ttl": "many"},
			field:  "ttl",
		},
		{
			name:   "fractional int",
			params: map[string]any{"fqdn": "z.", "ttl": 1.5},
			field:  "ttl",
		},
		{
			name:   "nested field error carries path",
			params: map[string]any{"fqdn": "z.", "asm_config": map[string]any{"enable": "yes"}},
			field:  "asm_config.enable",
		},
		{
			name:   "unknown nested field",
			params: map[string]any{"fqdn": "z.", "asm_config": map[string]any{"surprise": 1}},
			field:  "asm_config.surprise",
		},
		{
			name:   "list element type",
			params: map[string]any{"fqdn": "z.", "hosts": []any{"ns1", 2}},
			field:  "hosts[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := zoneSchema.Validate(tt.params)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected error on field %q, got %q (%s)", tt.field, verr.Field, verr.Reason)
			}
		})
	}
}

func TestValidate_NilValuesAreSkipped(t *testing.T) {
	got, err := zoneSchema.Validate(map[string]any{
		"fqdn": "z.",
		"ttl":  nil,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["ttl"]; ok {
		t.Error("expected nil ttl to be dropped from the payload")
	}
}

func TestValidate_DefaultNotOverridden(t *testing.T) {
	got, err := zoneSchema.Validate(map[string]any{
		"fqdn":         "z.",
		"primary_type": "external",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["primary_type"] != "external" {
		t.Errorf("expected explicit value to win over default, got %v", got["primary_type"])
	}
}
