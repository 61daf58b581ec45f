package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/coderlink/internal/toolman"
)

func unloadCmd() *cobra.Command {
	var flagAll bool

	cmd := &cobra.Command{
		Use:   "unload [tool]",
		Short: "Remove the managed provider block from a tool's config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := newManager()

			if flagAll {
				var failed int
				for _, tool := range toolman.ProviderTools() {
					if err := mgr.UnloadConfig(tool); err != nil {
						fmt.Printf("  %-12s FAILED: %s\n", tool+":", err)
						failed++
						continue
					}
					fmt.Printf("  %-12s cleaned\n", tool+":")
				}
				if failed > 0 {
					return fmt.Errorf("%d tool(s) failed", failed)
				}
				return nil
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			tool, err := pickTool(store, args, toolman.ProviderTools())
			if err != nil {
				return err
			}
			if err := mgr.UnloadConfig(tool); err != nil {
				return err
			}
			fmt.Printf("Removed managed config from %s\n", tool)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagAll, "all", false, "unload every tool")
	return cmd
}
