package adapters

import (
	"fmt"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// claudeCode manages Claude Code. Provider config lives in the env
// block of ~/.claude/settings.json; MCP servers live in ~/.claude.json.
// Claude Code speaks the Anthropic dialect only, so the managed block
// carries the plan's Anthropic endpoint.
type claudeCode struct {
	home string
}

// Env keys forming the Managed Provider Block. Everything else in the
// env block belongs to the user.
var claudeManagedEnvKeys = []string{
	"ANTHROPIC_BASE_URL",
	"ANTHROPIC_AUTH_TOKEN",
	"ANTHROPIC_MODEL",
	"ANTHROPIC_SMALL_FAST_MODEL",
}

func (c *claudeCode) Name() string { return ToolClaudeCode }

func (c *claudeCode) settingsPath() string { return joinHome(c.home, ".claude", "settings.json") }
func (c *claudeCode) mcpFilePath() string  { return joinHome(c.home, ".claude.json") }

func (c *claudeCode) DetectConfig() (Detected, error) {
	doc, err := configfile.ReadJSON(c.settingsPath())
	if err != nil {
		return Detected{}, err
	}
	env := subMap(doc, "env")
	url := str(env, "ANTHROPIC_BASE_URL")
	if url == "" {
		return Detected{}, nil
	}
	token := str(env, "ANTHROPIC_AUTH_TOKEN")
	if token == "" {
		token = str(env, "ANTHROPIC_API_KEY")
	}
	plan, ok := registry.DetectPlan(url)
	if !ok {
		return Detected{}, nil
	}
	return Detected{Plan: plan, APIKey: token, Model: str(env, "ANTHROPIC_MODEL")}, nil
}

func (c *claudeCode) LoadConfig(s registry.ProviderSettings, apiKey string) error {
	if s.AnthropicBaseURL == "" {
		return fmt.Errorf("claude-code: plan %s: %w", s.Plan, registry.ErrNoAnthropicEndpoint)
	}
	doc, err := configfile.ReadJSON(c.settingsPath())
	if err != nil {
		return err
	}
	env := ensureMap(doc, "env")
	env["ANTHROPIC_BASE_URL"] = s.AnthropicBaseURL
	env["ANTHROPIC_AUTH_TOKEN"] = apiKey
	env["ANTHROPIC_MODEL"] = s.AnthropicModel
	env["ANTHROPIC_SMALL_FAST_MODEL"] = s.AnthropicModel
	return configfile.WriteJSON(c.settingsPath(), doc)
}

func (c *claudeCode) UnloadConfig() error {
	doc, err := configfile.ReadJSON(c.settingsPath())
	if err != nil {
		return err
	}
	env := subMap(doc, "env")
	if env == nil {
		return nil
	}
	for _, key := range claudeManagedEnvKeys {
		delete(env, key)
	}
	deleteIfEmpty(doc, "env")
	return configfile.WriteJSON(c.settingsPath(), doc)
}

func (c *claudeCode) mcpTable() *mcpTable {
	return &mcpTable{
		path: c.mcpFilePath(),
		key:  "mcpServers",
		build: func(svc mcp.Service, apiKey string) (map[string]interface{}, error) {
			switch svc.Transport {
			case mcp.TransportStdio:
				entry := map[string]interface{}{
					"type":    "stdio",
					"command": svc.Command,
				}
				if len(svc.Args) > 0 {
					entry["args"] = stringsToAny(svc.Args)
				}
				if env := svc.ResolveEnv(apiKey); len(env) > 0 {
					entry["env"] = envToAny(env)
				}
				return entry, nil
			case mcp.TransportSSE, mcp.TransportStreamableHTTP:
				kind := "sse"
				if svc.Transport == mcp.TransportStreamableHTTP {
					kind = "http"
				}
				entry := map[string]interface{}{
					"type": kind,
					"url":  svc.URL,
				}
				if headers := svc.ResolveHeaders(apiKey); len(headers) > 0 {
					entry["headers"] = envToAny(headers)
				}
				return entry, nil
			default:
				return nil, &UnsupportedTransportError{Tool: ToolClaudeCode, Transport: svc.Transport}
			}
		},
	}
}

func (c *claudeCode) IsMCPInstalled(id string) (bool, error) { return c.mcpTable().isInstalled(id) }
func (c *claudeCode) InstallMCP(svc mcp.Service, apiKey string, plan registry.Plan) error {
	return c.mcpTable().install(svc, apiKey, plan)
}
func (c *claudeCode) UninstallMCP(id string) error    { return c.mcpTable().uninstall(id) }
func (c *claudeCode) InstalledMCPs() ([]string, error) { return c.mcpTable().installed() }
func (c *claudeCode) AllMCPServers() (map[string]map[string]interface{}, error) {
	return c.mcpTable().all()
}
func (c *claudeCode) OtherMCPs(builtinIDs []string) ([]string, error) {
	return c.mcpTable().others(builtinIDs)
}
