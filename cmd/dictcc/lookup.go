package main

import (
	"fmt"
	"os"

	"github.com/at-ishikawa/dictcc/internal/cache"
	"github.com/at-ishikawa/dictcc/internal/cli"
	"github.com/at-ishikawa/dictcc/internal/config"
	"github.com/at-ishikawa/dictcc/internal/dictionary"
	"github.com/at-ishikawa/dictcc/internal/lookup"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ExportFormat cache.ExportFormat

func (f *ExportFormat) Set(val string) error {
	for _, format := range cache.AllExportFormats {
		if val == string(format) {
			*f = ExportFormat(format)
			return nil
		}
	}
	return fmt.Errorf("invalid export format: %s", val)
}

func (f ExportFormat) String() string {
	return string(f)
}

func (f *ExportFormat) Type() string {
	return "format"
}

var _ pflag.Value = (*ExportFormat)(nil)

func newRootCommand() *cobra.Command {
	var debugMode bool
	var exportFormat ExportFormat

	rootCommand := cobra.Command{
		Use:           "dictcc [term...]",
		Short:         "Look up translations online and keep them in a local cache",
		Long:          "Each argument is a query term. Without arguments, terms are read from standard input, one per line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			store := cache.NewStore(fs, cfg.Cache.File)
			if err := store.EnsureExists(); err != nil {
				return fmt.Errorf("store.EnsureExists > %w", err)
			}

			if exportFormat != "" {
				return store.Export(cmd.OutOrStdout(), cache.ExportFormat(exportFormat))
			}

			fetcher := dictionary.NewHTTPFetcher(fs, dictionary.FetcherConfig{
				Timeout:       cfg.Remote.Timeout,
				RetryAttempts: cfg.Remote.RetryAttempts,
				UserAgent:     cfg.Remote.UserAgent,
			})
			orchestrator := lookup.NewOrchestrator(
				store,
				fetcher,
				cli.NewReporter(cmd.ErrOrStderr()),
				cmd.OutOrStdout(),
				lookup.Source{
					SearchURL:  cfg.Remote.SearchURL,
					QueryParam: cfg.Remote.QueryParam,
				},
			)
			return cli.NewLookupCLI(orchestrator, cmd.InOrStdin()).Run(cmd.Context(), args)
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.Flags().Var(&exportFormat, "export", fmt.Sprintf("Print the cache and exit. Possible values are %v", cache.AllExportFormats))

	rootCommand.SetIn(os.Stdin)
	rootCommand.SetOut(os.Stdout)
	rootCommand.SetErr(os.Stderr)
	return &rootCommand
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
