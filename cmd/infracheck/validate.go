package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"infracheck/internal/core"
	"infracheck/internal/infracache"
	"infracheck/internal/report"
)

type validateOptions struct {
	infraID      int64
	input        string
	workers      int
	failOnErrors bool
}

func newValidateCmd(a *app) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an infrastructure file and store its errors",
		Example: `  infracheck validate --infra-id 42 --input infra.yaml
  infracheck validate --infra-id 42 --input infra.json --fail-on-errors`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.validate(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.Int64Var(&opts.infraID, "infra-id", 0, "infrastructure id the errors are stored under")
	f.StringVar(&opts.input, "input", "", "infrastructure document (.json, .yaml or .yml)")
	f.IntVar(&opts.workers, "workers", 0, "objects validated concurrently (default from config)")
	f.BoolVar(&opts.failOnErrors, "fail-on-errors", false, "exit with status 2 when errors are found")
	_ = cmd.MarkFlagRequired("infra-id")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (a *app) validate(cmd *cobra.Command, opts *validateOptions) (err error) {
	ctx := cmd.Context()
	cache, err := infracache.LoadFile(opts.input)
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close error store: %w", cerr)
		}
	}()

	workers := a.cfg.Validation.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	svcOpts := []core.Option{core.WithLogger(a.logger), core.WithWorkers(workers)}

	var reg *prometheus.Registry
	if a.cfg.Metrics.Textfile != "" {
		reg = prometheus.NewRegistry()
		recorder, err := core.NewPrometheusRecorder(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		svcOpts = append(svcOpts, core.WithMetrics(recorder))
	}

	blobStore, err := a.openBlob(ctx)
	if err != nil {
		return err
	}
	if blobStore != nil {
		svcOpts = append(svcOpts, core.WithExporter(report.NewExporter(blobStore)))
	}

	rep, runErr := core.NewService(store, svcOpts...).Validate(ctx, opts.infraID, cache)
	if reg != nil {
		if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, reg); err != nil {
			a.logger.Warn("write metrics textfile failed", "path", a.cfg.Metrics.Textfile, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	printSummary(a.stdout, rep)
	if blobStore != nil {
		fmt.Fprintf(a.stdout, "report: %s\n", report.Key(rep.InfraID, rep.RunID))
	}
	if opts.failOnErrors && rep.Total() > 0 {
		return errors.Join(errFindings, fmt.Errorf("%d errors", rep.Total()))
	}
	return nil
}
