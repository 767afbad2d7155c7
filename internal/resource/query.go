package resource

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/schema"
)

// QueryOptions narrows a read-only query over one kind. ID, the equality
// filters, and the raw filter query are mutually exclusive.
type QueryOptions struct {
	// ID reads a single object directly.
	ID string
	// Filters are field equality constraints, combined with `and`.
	Filters map[string]string
	// FilterQuery is a raw filter expression, passed through as-is.
	FilterQuery string
	// TagFilters are tag equality constraints, combined with `and`.
	TagFilters map[string]string
	// TagFilterQuery is a raw tag filter expression.
	TagFilterQuery string
	// Fields restricts the returned representation to the named fields.
	Fields []string
}

func (o QueryOptions) validate() error {
	if o.ID != "" && (len(o.Filters) > 0 || o.FilterQuery != "") {
		return &schema.ValidationError{Field: "id", Reason: "mutually exclusive with filters"}
	}
	if o.ID != "" && (len(o.TagFilters) > 0 || o.TagFilterQuery != "") {
		return &schema.ValidationError{Field: "id", Reason: "mutually exclusive with tag filters"}
	}
	if len(o.Filters) > 0 && o.FilterQuery != "" {
		return &schema.ValidationError{Field: "filters", Reason: "mutually exclusive with filter_query"}
	}
	if len(o.TagFilters) > 0 && o.TagFilterQuery != "" {
		return &schema.ValidationError{Field: "tag_filters", Reason: "mutually exclusive with tag_filter_query"}
	}
	return nil
}

// Query runs the read-only surface of a kind: read by id, or list with
// filters. A missing id yields an empty result, not an error.
func Query(ctx context.Context, client *bloxone.Client, def Definition, opts QueryOptions) ([]bloxone.Object, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	if opts.ID != "" {
		obj, err := client.Read(ctx, def.objectPath(opts.ID))
		if err != nil {
			if bloxone.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return []bloxone.Object{obj}, nil
	}

	return client.List(ctx, def.APIPath, bloxone.ListOptions{
		Filter:    filterExpr(opts.Filters, opts.FilterQuery),
		TagFilter: filterExpr(opts.TagFilters, opts.TagFilterQuery),
		Fields:    opts.Fields,
	})
}

// filterExpr renders equality constraints as a filter expression, or
// passes a raw query through. Constraints sort by key so the expression
// is deterministic.
func filterExpr(eq map[string]string, raw string) string {
	if raw != "" {
		return raw
	}
	if len(eq) == 0 {
		return ""
	}
	keys := make([]string, 0, len(eq))
	for k := range eq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	terms := make([]string, 0, len(keys))
	for _, k := range keys {
		terms = append(terms, fmt.Sprintf("%s=='%s'", k, eq[k]))
	}
	return strings.Join(terms, " and ")
}
