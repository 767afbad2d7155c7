package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bloxops/b1apply/internal/resource"
	"github.com/bloxops/b1apply/internal/task"
)

func newGetCmd(r *root) *cobra.Command {
	var opts queryFlags

	cmd := &cobra.Command{
		Use:   "get KIND",
		Short: "Read resources of a kind, by id or by filter",
		Long: "Read resources of a kind, by id or by filter.\n\n" +
			"Known kinds: " + strings.Join(resource.Kinds(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.queryOptions()
			if err != nil {
				return err
			}

			runner := task.NewRunner(r.log.WithName("task"), r.client)
			objs, err := runner.Query(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(objs)
		},
	}

	opts.bind(cmd.Flags())
	return cmd
}

// queryFlags collects the read-only query surface shared by get.
type queryFlags struct {
	id             string
	filters        []string
	filterQuery    string
	tagFilters     []string
	tagFilterQuery string
	fields         []string
}

func (q *queryFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&q.id, "id", "", "read a single object by id")
	fs.StringArrayVar(&q.filters, "filter", nil, "field equality filter KEY=VALUE (repeatable)")
	fs.StringVar(&q.filterQuery, "filter-query", "", "raw filter expression")
	fs.StringArrayVar(&q.tagFilters, "tag-filter", nil, "tag equality filter KEY=VALUE (repeatable)")
	fs.StringVar(&q.tagFilterQuery, "tag-filter-query", "", "raw tag filter expression")
	fs.StringSliceVar(&q.fields, "fields", nil, "restrict returned fields")
}

func (q *queryFlags) queryOptions() (resource.QueryOptions, error) {
	filters, err := parsePairs(q.filters)
	if err != nil {
		return resource.QueryOptions{}, err
	}
	tagFilters, err := parsePairs(q.tagFilters)
	if err != nil {
		return resource.QueryOptions{}, err
	}
	return resource.QueryOptions{
		ID:             q.id,
		Filters:        filters,
		FilterQuery:    q.filterQuery,
		TagFilters:     tagFilters,
		TagFilterQuery: q.tagFilterQuery,
		Fields:         q.fields,
	}, nil
}

func parsePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid filter %q, expected KEY=VALUE", p)
		}
		out[k] = v
	}
	return out, nil
}
