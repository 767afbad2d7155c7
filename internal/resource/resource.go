// Package resource defines the managed resource kinds and the generic
// remote that lets one reconciler serve all of them.
package resource

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/schema"
)

// Definition describes one managed kind: where it lives in the API, how
// an existing object is identified, and what parameters it accepts.
type Definition struct {
	// Kind is the registry name, e.g. "ipam/subnet".
	Kind string

	// APIPath is the collection path, e.g. "/api/ddi/v1/ipam/subnet".
	APIPath string

	// IdentityFields locate an existing object when no id is given. They
	// are combined into an equality filter and must all be present in
	// the desired payload.
	IdentityFields []string

	// ReadOnlyOnUpdate lists fields that cannot change on an existing
	// object. Changing one fails validation; an unchanged value is
	// elided from the update payload.
	ReadOnlyOnUpdate []string

	// Schema is the closed parameter set for this kind.
	Schema schema.Schema

	// AbsentState names the state that removes the resource. Defaults
	// to "absent"; join tokens use "revoked".
	AbsentState string

	// Removed reports whether an existing remote object already counts
	// as removed, so no delete call is needed (a join token whose
	// status is REVOKED). Nil means existing objects never count.
	Removed func(bloxone.Object) bool

	// NextAvailableSuffix, when set, enables the next_available_id
	// parameter: on create, the address is allocated from the parent by
	// substituting "<parent-id>/<suffix>" for the address field.
	NextAvailableSuffix string
}

// StateAbsent returns the state value that removes this kind.
func (d Definition) StateAbsent() string {
	if d.AbsentState != "" {
		return d.AbsentState
	}
	return "absent"
}

// States returns the state choices this kind accepts.
func (d Definition) States() []string {
	return []string{"present", d.StateAbsent()}
}

// versionRoot returns the API root up to and including the version
// segment, e.g. "/api/ddi/v1". Object ids are paths relative to it.
func (d Definition) versionRoot() string {
	idx := strings.Index(d.APIPath, "/v1/")
	if idx < 0 {
		return d.APIPath
	}
	return d.APIPath[:idx+len("/v1")]
}

// objectPath returns the request path for one object. Ids returned by the
// API are relative paths like "ipam/subnet/<uuid>"; a bare uuid is
// resolved against the collection path.
func (d Definition) objectPath(id string) string {
	if strings.Contains(id, "/") {
		return d.versionRoot() + "/" + id
	}
	return d.APIPath + "/" + id
}

var (
	mu          sync.Mutex
	definitions = make(map[string]Definition)
)

// Register is called by kind packages in their init() to self-register.
func Register(def Definition) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := definitions[def.Kind]; exists {
		panic(fmt.Sprintf("resource: kind %q already registered", def.Kind))
	}
	definitions[def.Kind] = def
}

// Lookup returns the definition for the named kind.
func Lookup(kind string) (Definition, error) {
	mu.Lock()
	def, ok := definitions[kind]
	mu.Unlock()
	if !ok {
		return Definition{}, fmt.Errorf("unsupported resource kind: %q (registered: %v)", kind, Kinds())
	}
	return def, nil
}

// Kinds returns the registered kind names, sorted.
func Kinds() []string {
	mu.Lock()
	defer mu.Unlock()
	kinds := make([]string, 0, len(definitions))
	for k := range definitions {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
