package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored provider credentials",
	}
	cmd.AddCommand(authSetCmd())
	cmd.AddCommand(authRevokeCmd())
	cmd.AddCommand(authListCmd())
	return cmd
}

func authSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <plan> [api-key]",
		Short: "Store an API key for a plan",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := registry.Plan(args[0])
			d, ok := registry.Lookup(plan)
			if !ok {
				return fmt.Errorf("unknown plan %q", plan)
			}
			store, err := openStore()
			if err != nil {
				return err
			}

			var key string
			if len(args) == 2 {
				key = args[1]
			} else {
				key, err = promptPassword(fmt.Sprintf("API key for %s", d.DisplayName), "")
				if err != nil {
					return err
				}
			}
			if key == "" {
				return fmt.Errorf("no API key provided")
			}
			if err := store.SetAPIKeyFor(plan, key); err != nil {
				return err
			}
			fmt.Printf("Stored key for %s (%s)\n", plan, maskKey(key))
			return nil
		},
	}
}

func authRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <plan>",
		Short: "Delete a plan's stored credential and overrides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := registry.Plan(args[0])
			if !plan.Valid() {
				return fmt.Errorf("unknown plan %q", plan)
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.RevokeAuth(plan); err != nil {
				return err
			}
			fmt.Printf("Revoked %s\n", plan)
			return nil
		},
	}
}

func authListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plans and whether a key is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			active, _ := store.Auth()
			for _, d := range registry.Descriptors() {
				marker := " "
				if d.Plan == active {
					marker = "*"
				}
				fmt.Printf("%s %-12s %-28s %s\n", marker, d.Plan, d.DisplayName, maskKey(store.APIKeyFor(d.Plan)))
			}
			return nil
		},
	}
}
