// Package manifest reads the declarative resource manifests the apply
// command feeds to the task runner. A manifest is a YAML stream; each
// document describes one resource.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Document is one desired resource: a kind, a target state, and the
// desired field values.
type Document struct {
	// Kind names a registered resource kind, e.g. "ipam/subnet".
	Kind string `yaml:"kind"`
	// State is "present" unless set; removing kinds accept their
	// kind-specific removing state ("absent", "revoked").
	State string `yaml:"state"`
	// ID addresses an existing object directly, skipping identity
	// resolution.
	ID string `yaml:"id"`
	// Spec holds the desired field values.
	Spec map[string]any `yaml:"spec"`
}

// Load reads all documents from the manifest at path. Empty documents
// are skipped; every remaining document must name a kind. String values
// in specs may reference environment variables with ${VAR}.
func Load(fsys afero.Fs, path string) ([]Document, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []Document
	for i := 0; ; i++ {
		var doc Document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parsing manifest document %d: %w", i, err)
		}
		if doc.Kind == "" && doc.Spec == nil {
			continue
		}
		if doc.Kind == "" {
			return nil, fmt.Errorf("manifest document %d: missing required field 'kind'", i)
		}
		if doc.State == "" {
			doc.State = "present"
		}
		doc.Spec = expandEnv(doc.Spec).(map[string]any)
		docs = append(docs, doc)
	}
	return docs, nil
}

// expandEnv walks the decoded value and applies os.ExpandEnv to every
// string, so manifests can reference credentials and ids by variable.
func expandEnv(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case map[string]any:
		if val == nil {
			return map[string]any{}
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = expandEnv(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = expandEnv(item)
		}
		return out
	default:
		return v
	}
}
