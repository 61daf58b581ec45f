package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nextlevelbuilder/coderlink/internal/adapters"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
	"github.com/nextlevelbuilder/coderlink/internal/toolman"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and manage coderlink's own configuration",
	}
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configPathCmd())
	cmd.AddCommand(configPlansCmd())
	cmd.AddCommand(configToolsCmd())
	cmd.AddCommand(configLanguageCmd())
	return cmd
}

var languages = []SelectOption[string]{
	{Label: "English", Value: "en"},
	{Label: "中文", Value: "zh"},
}

func configLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language [en|zh]",
		Short: "Set the interface language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			var lang string
			if len(args) > 0 {
				lang = args[0]
				var known bool
				for _, o := range languages {
					known = known || o.Value == lang
				}
				if !known {
					return fmt.Errorf("unknown language %q", lang)
				}
			} else {
				defaultIdx := 0
				for i, o := range languages {
					if o.Value == store.Language() {
						defaultIdx = i
					}
				}
				lang, err = promptSelect("Interface language", languages, defaultIdx)
				if err != nil {
					return err
				}
			}
			if err := store.SetLanguage(lang); err != nil {
				return err
			}
			fmt.Printf("Language set to %s\n", lang)
			return nil
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display stored configuration (keys redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			rec := store.Snapshot()
			for _, p := range rec.Providers {
				p.APIKey = maskKey(p.APIKey)
			}
			data, err := yaml.Marshal(rec)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			fmt.Println(store.Path())
			return nil
		},
	}
}

func configPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Choose which plans appear in interactive pickers",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			var options []SelectOption[registry.Plan]
			var preselected []registry.Plan
			for _, d := range registry.Descriptors() {
				options = append(options, SelectOption[registry.Plan]{Label: d.DisplayName, Value: d.Plan})
				if store.PlanEnabled(d.Plan) {
					preselected = append(preselected, d.Plan)
				}
			}
			selected, err := promptMultiSelect("Enabled plans", "Unselected plans are hidden from pickers", options, preselected)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				return fmt.Errorf("at least one plan must stay enabled")
			}
			if len(selected) == len(options) {
				selected = nil
			}
			if err := store.SetEnabledPlans(selected); err != nil {
				return err
			}
			fmt.Println("Saved.")
			return nil
		},
	}
}

func configToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Choose which tools appear in interactive pickers",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			var options []SelectOption[string]
			var preselected []string
			for _, name := range adapters.Names {
				caps, _ := toolman.Capability(name)
				var tags []string
				if caps.Provider {
					tags = append(tags, "provider")
				}
				if caps.MCP {
					tags = append(tags, "mcp")
				}
				label := fmt.Sprintf("%-12s (%s)", name, strings.Join(tags, ", "))
				options = append(options, SelectOption[string]{Label: label, Value: name})
				if store.ToolEnabled(name) {
					preselected = append(preselected, name)
				}
			}
			selected, err := promptMultiSelect("Enabled tools", "Unselected tools are hidden from pickers", options, preselected)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				return fmt.Errorf("at least one tool must stay enabled")
			}
			if len(selected) == len(options) {
				selected = nil
			}
			if err := store.SetEnabledTools(selected); err != nil {
				return err
			}
			fmt.Println("Saved.")
			return nil
		},
	}
}
