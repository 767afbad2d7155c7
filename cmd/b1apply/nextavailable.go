package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bloxops/b1apply/internal/bloxone"
	"github.com/bloxops/b1apply/internal/resource/ipam"
)

func newNextAvailableCmd(r *root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next-available",
		Short: "Query IPAM for the next free subnet, address block, or IP",
	}
	cmd.AddCommand(
		newNextAvailableAllocCmd(r, "subnet", "next free subnets under an address block", ipam.NextAvailableSubnets),
		newNextAvailableAllocCmd(r, "address-block", "next free child blocks under an address block", ipam.NextAvailableAddressBlocks),
		newNextAvailableIPCmd(r),
	)
	return cmd
}

func newNextAvailableAllocCmd(r *root, use, short string, query func(context.Context, *bloxone.Client, string, int, int) ([]bloxone.Object, error)) *cobra.Command {
	var (
		id    string
		cidr  int
		count int
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: "Query the " + short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			objs, err := query(cmd.Context(), r.client, id, cidr, count)
			if err != nil {
				return err
			}
			return printObjects(cmd, objs)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "parent address block id")
	cmd.Flags().IntVar(&cidr, "cidr", 0, "prefix length of the requested allocation")
	cmd.Flags().IntVar(&count, "count", 1, "number of allocations to return")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("cidr")
	return cmd
}

func newNextAvailableIPCmd(r *root) *cobra.Command {
	var (
		id    string
		count int
	)

	cmd := &cobra.Command{
		Use:   "ip",
		Short: "Query the next free IP addresses in a subnet or range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			objs, err := ipam.NextAvailableIPs(cmd.Context(), r.client, id, count)
			if err != nil {
				return err
			}
			return printObjects(cmd, objs)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "parent subnet or range id")
	cmd.Flags().IntVar(&count, "count", 1, "number of addresses to return")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func printObjects(cmd *cobra.Command, objs []bloxone.Object) error {
	if len(objs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "[]")
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(objs)
}
