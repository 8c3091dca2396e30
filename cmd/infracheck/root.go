package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"infracheck/internal/blob"
	"infracheck/internal/config"
	"infracheck/internal/core"
	"infracheck/internal/logging"
	"infracheck/pkg/domain"
)

// errFindings marks a successful pass that found errors under --fail-on-errors.
var errFindings = errors.New("validation found errors")

// app carries the state shared by subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath    string
	storageDriver string
	sqlitePath    string
	postgresDSN   string
	logLevel      string
	logFormat     string
	noColor       bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "infracheck",
		Short: "Validate railway infrastructure data",
		Long: `infracheck loads a railway infrastructure (track sections, links, detectors,
signals and buffer stops), checks every object for invalid references and
out-of-range positions, and stores the errors found for the infrastructure.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./infracheck.yaml if present)")
	flags.StringVar(&a.storageDriver, "storage-driver", "", "error store: memory|sqlite|postgres")
	flags.StringVar(&a.sqlitePath, "sqlite-path", "", "sqlite database file")
	flags.StringVar(&a.postgresDSN, "postgres-dsn", "", "postgres connection string")
	flags.StringVar(&a.logLevel, "log-level", "", "debug|info|warn|error")
	flags.StringVar(&a.logFormat, "log-format", "", "text|json")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newErrorsCmd(a))
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

// setup loads config and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	override("storage-driver", &cfg.Storage.Driver, a.storageDriver)
	override("sqlite-path", &cfg.Storage.SQLitePath, a.sqlitePath)
	override("postgres-dsn", &cfg.Storage.PostgresDSN, a.postgresDSN)
	override("log-level", &cfg.Log.Level, a.logLevel)
	override("log-format", &cfg.Log.Format, a.logFormat)

	logger, err := logging.NewWithWriter(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	if a.noColor {
		color.NoColor = true
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// openErrorStore is swapped in tests.
var openErrorStore = core.OpenErrorStore

func (a *app) openStore(ctx context.Context) (domain.ErrorStore, error) {
	store, err := openErrorStore(ctx, a.cfg.ErrorStore())
	if err != nil {
		return nil, fmt.Errorf("open error store: %w", err)
	}
	return store, nil
}

// openBlob returns the report store, or nil when export is not configured.
func (a *app) openBlob(ctx context.Context) (blob.Store, error) {
	bc, enabled := a.cfg.BlobStore()
	if !enabled {
		return nil, nil
	}
	store, err := blob.Open(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	return store, nil
}

// requireBlob is openBlob for commands that cannot work without a store.
func (a *app) requireBlob(ctx context.Context) (blob.Store, error) {
	store, err := a.openBlob(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("report export is not configured (set blob.driver)")
	}
	return store, nil
}

func exitCode(err error, stderr io.Writer) int {
	if errors.Is(err, errFindings) {
		return 2
	}
	_, _ = color.New(color.FgRed).Fprintf(stderr, "error: %v\n", err)
	return 1
}
