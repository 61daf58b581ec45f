// Package cmd implements the coderlink CLI: one stored credential set
// pushed into the native config files of the coding tools on this
// machine.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/coderlink/internal/toolman"
	"github.com/nextlevelbuilder/coderlink/internal/userconf"
)

const version = "1.3.0"

var (
	flagConfigPath string
	flagVerbose    bool
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "coderlink",
		Short:         "Sync one set of provider credentials into every coding tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if flagVerbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to the coderlink config file")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(useCmd())
	cmd.AddCommand(unloadCmd())
	cmd.AddCommand(statusCmd())
	cmd.AddCommand(authCmd())
	cmd.AddCommand(mcpCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(doctorCmd())
	return cmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func openStore() (*userconf.Store, error) {
	return userconf.Open(flagConfigPath)
}

func newManager() *toolman.Manager {
	return toolman.NewManager("", slog.Default())
}
