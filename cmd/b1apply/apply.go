package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bloxops/b1apply/internal/manifest"
	"github.com/bloxops/b1apply/internal/task"
)

func newApplyCmd(r *root) *cobra.Command {
	var (
		file  string
		check bool
		diff  bool
	)

	cmd := &cobra.Command{
		Use:   "apply -f MANIFEST",
		Short: "Reconcile the resources in a manifest against the portal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs, err := manifest.Load(afero.NewOsFs(), file)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return fmt.Errorf("manifest %s contains no documents", file)
			}

			runner := task.NewRunner(r.log.WithName("task"), r.client, task.WithCheckMode(check))

			changed := 0
			for i, doc := range docs {
				res, err := runner.ApplyDocument(cmd.Context(), doc)
				if err != nil {
					return fmt.Errorf("document %d: %w", i, err)
				}
				if res.Changed {
					changed++
				}
				printResult(cmd, res, check, diff)
			}

			mode := ""
			if check {
				mode = " (check mode, nothing written)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d applied, %d changed%s\n", len(docs), changed, mode)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "filename", "f", "", "manifest file to apply")
	cmd.Flags().BoolVar(&check, "check", false, "report what would change without writing")
	cmd.Flags().BoolVar(&diff, "diff", false, "print before/after representations for changed resources")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func printResult(cmd *cobra.Command, res task.Result, check, diff bool) {
	out := cmd.OutOrStdout()

	status := "unchanged"
	if res.Changed {
		status = "changed"
	}
	line := fmt.Sprintf("%-9s %s", status, res.Kind)
	if res.ID != "" {
		line += " " + res.ID
	}
	if res.Msg != "" {
		line += " (" + res.Msg + ")"
	}
	fmt.Fprintln(out, line)

	if diff && res.Changed && !check {
		before, _ := json.MarshalIndent(res.Diff.Before, "", "  ")
		after, _ := json.MarshalIndent(res.Diff.After, "", "  ")
		fmt.Fprintf(out, "--- before\n%s\n+++ after\n%s\n", before, after)
	}
}
