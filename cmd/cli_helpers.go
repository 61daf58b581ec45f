package cmd

import (
	"fmt"
	"strings"

	"github.com/nextlevelbuilder/coderlink/internal/adapters"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
	"github.com/nextlevelbuilder/coderlink/internal/toolman"
	"github.com/nextlevelbuilder/coderlink/internal/userconf"
)

// maskKey hides the middle of a credential for display.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// pickTool resolves a tool from args or an interactive picker,
// restricted to tools with the wanted capability and not disabled by
// the user's toggles. The previously used tool is the default.
func pickTool(store *userconf.Store, args []string, candidates []string) (string, error) {
	if len(args) > 0 {
		name := args[0]
		for _, c := range candidates {
			if c == name {
				return name, nil
			}
		}
		return "", fmt.Errorf("unknown or unsupported tool %q (choose from: %s)", name, strings.Join(candidates, ", "))
	}

	var options []SelectOption[string]
	defaultIdx := 0
	for _, name := range candidates {
		if !store.ToolEnabled(name) {
			continue
		}
		if name == store.LastTool() {
			defaultIdx = len(options)
		}
		options = append(options, SelectOption[string]{Label: name, Value: name})
	}
	if len(options) == 0 {
		return "", fmt.Errorf("all tools are disabled; run: coderlink config tools")
	}
	return promptSelect("Which tool?", options, defaultIdx)
}

// pickPlan resolves a plan from args or an interactive picker,
// restricted to what the tool supports and the user's toggles. Plans
// with a stored key are marked.
func pickPlan(store *userconf.Store, args []string, tool string) (registry.Plan, error) {
	caps, _ := toolman.Capability(tool)
	if len(args) > 0 {
		plan := registry.Plan(args[0])
		if !plan.Valid() {
			return "", fmt.Errorf("unknown plan %q", plan)
		}
		if !caps.SupportsPlan(plan) {
			return "", fmt.Errorf("%s does not support plan %q", tool, plan)
		}
		return plan, nil
	}

	activePlan, _ := store.Auth()
	var options []SelectOption[registry.Plan]
	defaultIdx := 0
	for _, d := range registry.Descriptors() {
		if !caps.SupportsPlan(d.Plan) || !store.PlanEnabled(d.Plan) {
			continue
		}
		label := d.DisplayName
		if store.APIKeyFor(d.Plan) != "" {
			label += " (key saved)"
		}
		if d.Plan == activePlan {
			defaultIdx = len(options)
		}
		options = append(options, SelectOption[registry.Plan]{Label: label, Value: d.Plan})
	}
	if len(options) == 0 {
		return "", fmt.Errorf("no plans available for %s", tool)
	}
	return promptSelect("Which provider plan?", options, defaultIdx)
}

// ensureAPIKey returns the stored key for a plan, prompting and saving
// one when missing. Local plans run without a credential.
func ensureAPIKey(store *userconf.Store, plan registry.Plan) (string, error) {
	if key := store.APIKeyFor(plan); key != "" {
		return key, nil
	}
	d, ok := registry.Lookup(plan)
	if !ok {
		return "", fmt.Errorf("unknown plan %q", plan)
	}
	if d.RequiresHealthCheck {
		// Local endpoints accept any token.
		return "local", nil
	}
	key, err := promptPassword(fmt.Sprintf("API key for %s", d.DisplayName), "Stored in "+store.Path())
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("no API key provided")
	}
	if err := store.SetAPIKeyFor(plan, key); err != nil {
		return "", err
	}
	return key, nil
}

// toolConfigDescription names the file an adapter writes, for display.
var toolConfigPaths = map[string]string{
	adapters.ToolClaudeCode: "~/.claude/settings.json",
	adapters.ToolCodex:      "~/.codex/config.toml",
	adapters.ToolGeminiCLI:  "~/.gemini/settings.json",
	adapters.ToolOpenCode:   "~/.config/opencode/opencode.json",
	adapters.ToolCrush:      "~/.config/crush/crush.json",
	adapters.ToolGoose:      "~/.config/goose/config.yaml",
	adapters.ToolIFlow:      "~/.iflow/config.toml",
	adapters.ToolOpenClaw:   "~/.openclaw/openclaw.json5",
}
