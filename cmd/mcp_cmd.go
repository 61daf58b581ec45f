package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/toolman"
	"github.com/nextlevelbuilder/coderlink/internal/userconf"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Install and remove MCP services in tool configs",
	}
	cmd.AddCommand(mcpInstallCmd())
	cmd.AddCommand(mcpRemoveCmd())
	cmd.AddCommand(mcpListCmd())
	return cmd
}

func pickService(args []string) (mcp.Service, error) {
	if len(args) > 0 {
		svc, ok := mcp.BuiltinByID(args[0])
		if !ok {
			return mcp.Service{}, fmt.Errorf("unknown MCP service %q (choose from: %s)", args[0], strings.Join(mcp.BuiltinIDs(), ", "))
		}
		return svc, nil
	}
	var options []SelectOption[string]
	for _, s := range mcp.Builtin() {
		options = append(options, SelectOption[string]{Label: s.DisplayName, Value: s.ID})
	}
	id, err := promptSelect("Which MCP service?", options, 0)
	if err != nil {
		return mcp.Service{}, err
	}
	svc, _ := mcp.BuiltinByID(id)
	return svc, nil
}

// serviceAuthKey returns the active plan's key for services that need
// one. Services without RequiresAuth never see a credential.
func serviceAuthKey(store *userconf.Store, svc mcp.Service) (string, error) {
	if !svc.RequiresAuth {
		return "", nil
	}
	_, key := store.Auth()
	if key == "" {
		return "", fmt.Errorf("%s needs the active plan's API key; run: coderlink use", svc.ID)
	}
	return key, nil
}

func mcpInstallCmd() *cobra.Command {
	var flagAll bool

	cmd := &cobra.Command{
		Use:   "install [service] [tool]",
		Short: "Install an MCP service into a tool (or all tools with --all)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			svc, err := pickService(args)
			if err != nil {
				return err
			}
			apiKey, err := serviceAuthKey(store, svc)
			if err != nil {
				return err
			}
			plan, _ := store.Auth()
			mgr := newManager()

			if flagAll {
				res := mgr.InstallMCPEverywhere(svc, apiKey, plan)
				for _, tool := range res.Attempted {
					if err, ok := res.Failed[tool]; ok {
						fmt.Printf("  %-12s FAILED: %s\n", tool+":", err)
					} else {
						fmt.Printf("  %-12s installed\n", tool+":")
					}
				}
				fmt.Printf("Installed %s into %d/%d tools\n", svc.ID, len(res.Succeeded), len(res.Attempted))
				return nil
			}

			tool, err := pickTool(store, args[min(1, len(args)):], toolman.MCPTools())
			if err != nil {
				return err
			}
			if err := mgr.InstallMCP(tool, svc, apiKey, plan); err != nil {
				return err
			}
			fmt.Printf("Installed %s into %s\n", svc.ID, tool)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagAll, "all", false, "install into every MCP-capable tool")
	return cmd
}

func mcpRemoveCmd() *cobra.Command {
	var flagAll bool

	cmd := &cobra.Command{
		Use:   "remove <service> [tool]",
		Short: "Remove a managed MCP service from a tool",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			mgr := newManager()

			if flagAll {
				for _, tool := range toolman.MCPTools() {
					if err := mgr.UninstallMCP(tool, id); err != nil {
						fmt.Printf("  %-12s FAILED: %s\n", tool+":", err)
						continue
					}
					fmt.Printf("  %-12s removed\n", tool+":")
				}
				return nil
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			tool, err := pickTool(store, args[1:], toolman.MCPTools())
			if err != nil {
				return err
			}
			if err := mgr.UninstallMCP(tool, id); err != nil {
				return err
			}
			fmt.Printf("Removed %s from %s\n", id, tool)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagAll, "all", false, "remove from every MCP-capable tool")
	return cmd
}

func mcpListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed MCP services per tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := newManager()
			for _, tool := range toolman.MCPTools() {
				managed, err := mgr.InstalledMCPs(tool)
				if err != nil {
					fmt.Printf("%s: ERROR: %s\n", tool, err)
					continue
				}
				others, err := mgr.OtherMCPs(tool)
				if err != nil {
					fmt.Printf("%s: ERROR: %s\n", tool, err)
					continue
				}
				fmt.Printf("%s:\n", tool)
				if len(managed) == 0 && len(others) == 0 {
					fmt.Println("  (none)")
					continue
				}
				for _, id := range managed {
					fmt.Printf("  %s (managed)\n", id)
				}
				for _, id := range others {
					fmt.Printf("  %s\n", id)
				}
			}
			return nil
		},
	}
}
