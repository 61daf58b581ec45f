package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/coderlink/internal/registry"
	"github.com/nextlevelbuilder/coderlink/internal/toolman"
	"github.com/nextlevelbuilder/coderlink/internal/userconf"
)

func useCmd() *cobra.Command {
	var (
		flagAPIKey    string
		flagModel     string
		flagBaseURL   string
		flagSkipCheck bool
	)

	cmd := &cobra.Command{
		Use:   "use [tool] [plan]",
		Short: "Push a provider plan into a tool's config file",
		Long: `Resolves the plan's endpoints and models, merges them into the tool's
native config file, and remembers the credential for next time. With no
arguments an interactive picker is shown.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			tool, err := pickTool(store, args, toolman.ProviderTools())
			if err != nil {
				return err
			}
			plan, err := pickPlan(store, args[min(1, len(args)):], tool)
			if err != nil {
				return err
			}

			apiKey := flagAPIKey
			if apiKey == "" {
				apiKey, err = ensureAPIKey(store, plan)
				if err != nil {
					return err
				}
			}

			profile, _ := store.Profile(plan)
			if flagBaseURL != "" {
				profile.BaseURL = flagBaseURL
			}
			if flagModel != "" {
				profile.Model = flagModel
			}

			if err := checkLocalEndpoint(cmd, store, plan, &profile, flagSkipCheck); err != nil {
				return err
			}

			if flagBaseURL != "" || flagModel != "" {
				profile.APIKey = apiKey
				if err := store.SetProviderProfile(plan, profile); err != nil {
					return err
				}
			}

			mgr := newManager()
			if err := mgr.LoadConfig(tool, plan, profile.Overrides(), apiKey); err != nil {
				return err
			}
			if err := store.SetAuth(plan, apiKey); err != nil {
				return err
			}
			if err := store.SetLastTool(tool); err != nil {
				return err
			}

			settings, err := store.ProviderSettings(plan)
			if err != nil {
				return err
			}
			fmt.Printf("Configured %s for %s\n", tool, plan)
			fmt.Printf("  Endpoint: %s\n", settings.BaseURL)
			fmt.Printf("  Model:    %s\n", settings.Model)
			if p, ok := toolConfigPaths[tool]; ok {
				fmt.Printf("  File:     %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagAPIKey, "api-key", "", "API key (overrides the stored one)")
	cmd.Flags().StringVar(&flagModel, "model", "", "model id (overrides the plan default)")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "endpoint URL (overrides the plan default)")
	cmd.Flags().BoolVar(&flagSkipCheck, "skip-health-check", false, "do not probe local endpoints")
	return cmd
}

// checkLocalEndpoint probes local-server plans before writing. The
// probe is advisory: the user can proceed against an unreachable
// endpoint, and a discovered endpoint or loaded model pre-fills the
// profile.
func checkLocalEndpoint(cmd *cobra.Command, store *userconf.Store, plan registry.Plan, profile *userconf.ProviderProfile, skip bool) error {
	d, ok := registry.Lookup(plan)
	if !ok || !d.RequiresHealthCheck || skip {
		return nil
	}

	res := registry.CheckHealth(cmd.Context(), plan, registry.HealthOptions{BaseURL: profile.BaseURL})
	if !res.Reachable {
		fmt.Printf("Warning: no local server answered for %s\n", plan)
		proceed, err := promptConfirm("Write the config anyway?", false)
		if err != nil {
			return err
		}
		if !proceed {
			return fmt.Errorf("cancelled")
		}
		return nil
	}

	if res.URL != "" && profile.BaseURL == "" && res.URL != d.OpenAIBaseURL {
		profile.BaseURL = res.URL
		fmt.Printf("Found local server at %s\n", res.URL)
	}
	if res.Model != "" && profile.Model == "" {
		use, err := promptConfirm(fmt.Sprintf("Use loaded model %q?", res.Model), true)
		if err != nil {
			return err
		}
		if use {
			profile.Model = res.Model
			if err := store.SetProviderProfile(plan, *profile); err != nil {
				return err
			}
		}
	}
	return nil
}
