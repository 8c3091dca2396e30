package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"infracheck/internal/core"
)

func newErrorsCmd(a *app) *cobra.Command {
	var (
		infraID int64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Print the stored errors of an infrastructure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := store.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("close error store: %w", cerr)
				}
			}()

			errs, err := core.NewService(store, core.WithLogger(a.logger)).StoredErrors(ctx, infraID)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				if errs == nil {
					return enc.Encode([]any{})
				}
				return enc.Encode(errs)
			}
			if len(errs) == 0 {
				fmt.Fprintf(a.stdout, "infra %d: no stored errors\n", infraID)
				return nil
			}
			printErrors(a.stdout, errs)
			return nil
		},
	}
	cmd.Flags().Int64Var(&infraID, "infra-id", 0, "infrastructure id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored records as JSON")
	_ = cmd.MarkFlagRequired("infra-id")
	return cmd
}
