// Package cli provides the nidctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nidgate/internal/birthplace"
	"nidgate/internal/birthplace/source"
	"nidgate/internal/platform/config"
	"nidgate/internal/platform/logger"
)

// Version is set at build time.
var Version = "0.1.0"

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// app holds what commands share once flags are parsed.
type app struct {
	cfg     *config.Config
	output  string
	service *birthplace.Service
	closeFn func()
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		output  string
	)

	rootCmd := &cobra.Command{
		Use:   "nidctl",
		Short: "Validate Iranian national codes and inspect the birthplace dataset",
		Long: `nidctl checks national codes offline with the same checksum and birthplace
dataset the HTTP service uses. The dataset source is configured exactly as for
the server: config file, BIRTHPLACE_* environment variables, then flags.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			if output != OutputTable && output != OutputJSON {
				return fmt.Errorf("invalid --output %q: want table or json", output)
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, "text")

			ctx := cmd.Context()
			loadCtx, cancel := context.WithTimeout(ctx, cfg.Dataset.LoadTimeout)
			defer cancel()
			src, closeFn := source.Open(loadCtx, cfg)
			dataset := source.Load(loadCtx, src, log, nil)

			a := &app{
				cfg:    cfg,
				output: output,
				service: birthplace.NewService(dataset,
					birthplace.WithLogger(log),
					birthplace.WithSource(src.Name()),
				),
				closeFn: closeFn,
			}
			cmd.SetContext(context.WithValue(ctx, appKey{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a := appFrom(cmd); a != nil {
				a.closeFn()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $BIRTHPLACE_CONFIG)")
	flags.StringVarP(&output, "output", "o", OutputTable, "Output format (table|json)")
	flags.String("dataset-source", "", "Dataset source (file|redis|postgres)")
	flags.String("dataset-path", "", "Path to the JSON dataset file")
	flags.String("redis-url", "", "Redis URL for the redis source")
	flags.String("postgres-url", "", "Postgres URL for the postgres source")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputTable, OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("dataset-source", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.SourceFile, config.SourceRedis, config.SourcePostgres}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newLookupCommand())
	rootCmd.AddCommand(newDatasetCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nidctl v%s\n", Version)
		},
	}
}
