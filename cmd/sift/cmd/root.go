// Package cmd provides the CLI commands for sift.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/georgefloros/sift-go/pkg/logging"
)

var (
	// verbose enables verbose output
	verbose bool
	// noWhere disables the $where operator
	noWhere bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "MongoDB-style document filtering from the command line",
	Long: `sift evaluates MongoDB-style filter expressions against JSON documents.

Queries are ordinary filter documents ({"age": {"$gte": 21}}); documents are
JSON values, one per line for streaming commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// NewRootCmd creates a new root command for testing.
// This allows tests to create fresh command trees.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sift",
		Short:        rootCmd.Short,
		Long:         rootCmd.Long,
		SilenceUsage: true,
	}

	addFlags(cmd)
	addCommands(cmd)

	return cmd
}

func addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVar(&noWhere, "no-where", false, "reject queries containing $where")
}

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(newMatchCmd())
	cmd.AddCommand(newFilterCmd())
	cmd.AddCommand(newVersionCmd())
}

func init() {
	addFlags(rootCmd)
	addCommands(rootCmd)
}

// newLogger builds the CLI logger from the environment, raised to debug
// when --verbose is set.
func newLogger() *logging.Logger {
	cfg := logging.ConfigFromEnv()
	if verbose {
		cfg.Level = "debug"
	}
	return logging.New(cfg)
}

// engineLogger returns the slog logger handed to the engine.
func engineLogger(l *logging.Logger) *slog.Logger {
	return l.WithComponent("engine").Logger
}
