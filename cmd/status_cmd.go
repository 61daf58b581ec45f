package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/coderlink/internal/registry"
	"github.com/nextlevelbuilder/coderlink/internal/toolman"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which plan each tool is currently configured with",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			mgr := newManager()

			if plan, key := store.Auth(); plan != "" {
				d, _ := registry.Lookup(plan)
				name := string(plan)
				if d != nil {
					name = d.DisplayName
				}
				fmt.Printf("Active plan: %s (key %s)\n\n", name, maskKey(key))
			} else {
				fmt.Println("Active plan: none")
				fmt.Println()
			}

			fmt.Println("Tools:")
			for _, tool := range toolman.ProviderTools() {
				d, err := mgr.DetectConfig(tool)
				switch {
				case err != nil:
					fmt.Printf("  %-12s ERROR: %s\n", tool+":", err)
				case !d.Configured():
					fmt.Printf("  %-12s (not configured)\n", tool+":")
				default:
					line := string(d.Plan)
					if d.Model != "" {
						line += "  model=" + d.Model
					}
					fmt.Printf("  %-12s %s\n", tool+":", line)
				}
			}

			fmt.Println()
			fmt.Println("MCP services:")
			for _, tool := range toolman.MCPTools() {
				ids, err := mgr.InstalledMCPs(tool)
				if err != nil {
					fmt.Printf("  %-12s ERROR: %s\n", tool+":", err)
					continue
				}
				if len(ids) == 0 {
					fmt.Printf("  %-12s (none)\n", tool+":")
					continue
				}
				fmt.Printf("  %-12s %v\n", tool+":", ids)
			}
			return nil
		},
	}
}
