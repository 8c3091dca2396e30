package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"infracheck/internal/blob"
	"infracheck/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect exported validation reports",
	}
	cmd.AddCommand(newReportListCmd(a), newReportShowCmd(a), newReportURLCmd(a))
	return cmd
}

func newReportListCmd(a *app) *cobra.Command {
	var infraID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the reports of an infrastructure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.requireBlob(cmd.Context())
			if err != nil {
				return err
			}
			infos, err := report.List(cmd.Context(), store, infraID)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSIZE\tLAST MODIFIED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Key, info.Size, info.LastModified.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int64Var(&infraID, "infra-id", 0, "infrastructure id")
	_ = cmd.MarkFlagRequired("infra-id")
	return cmd
}

func newReportShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show KEY",
		Short: "Print a stored report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.requireBlob(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := report.Read(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
}

func newReportURLCmd(a *app) *cobra.Command {
	var expiry time.Duration
	cmd := &cobra.Command{
		Use:   "url KEY",
		Short: "Print a download URL for a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.requireBlob(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := store.Head(cmd.Context(), args[0]); err != nil {
				return err
			}
			url, err := store.PresignURL(cmd.Context(), args[0], blob.SignedURLOptions{Expiry: expiry})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, url)
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiry, "expiry", 15*time.Minute, "lifetime of signed URLs")
	return cmd
}
