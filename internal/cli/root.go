// Package cli provides the command-line interface for repsql.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repsql/repsql/internal/cli/commands"
	"github.com/repsql/repsql/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "repsql",
		Short: "repsql - SQL client for BIP-style report endpoints",
		Long: `repsql submits SQL to BIP-style report endpoints: HTTP services that
accept a Base64-encoded SELECT statement over POST and answer with CSV.

Store named connections, run queries from files, stdin or an interactive
REPL, and page through the results.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cfg.Verbose)
			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: repsql.yaml)")
	flags.String("connections-file", "", "Path to the connections file")
	flags.StringP("connection", "c", "", "Connection name to use")
	flags.Int("page-size", config.DefaultPageSize, "Rows per result page")
	flags.StringP("output", "o", config.DefaultOutput, "Output format: auto, table, csv, json")
	flags.BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewConnCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewReplCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))

	return rootCmd
}

// Execute runs the root command and returns its exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
