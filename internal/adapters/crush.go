package adapters

import (
	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// crush manages Crush, which can expose an OpenAI-style and an
// Anthropic-style model entry at the same time, so the managed block is
// two parallel provider entries, one per wire protocol. The Anthropic
// entry exists only for plans with an Anthropic endpoint.
type crush struct {
	home string
}

const (
	crushOpenAIKey    = "coderlink-openai"
	crushAnthropicKey = "coderlink-anthropic"
)

func (c *crush) Name() string { return ToolCrush }

func (c *crush) configPath() string {
	return joinHome(c.home, ".config", "crush", "crush.json")
}

func crushModelEntry(id string, contextWindow int) map[string]interface{} {
	entry := map[string]interface{}{"id": id, "name": id}
	if contextWindow > 0 {
		entry["context_window"] = float64(contextWindow)
	}
	return entry
}

func (c *crush) DetectConfig() (Detected, error) {
	doc, err := configfile.ReadJSON(c.configPath())
	if err != nil {
		return Detected{}, err
	}
	providers := subMap(doc, "providers")
	entry := subMap(providers, crushOpenAIKey)
	if entry == nil {
		entry = subMap(providers, crushAnthropicKey)
	}
	if entry == nil {
		return Detected{}, nil
	}
	plan, ok := registry.DetectPlan(str(entry, "base_url"))
	if !ok {
		return Detected{}, nil
	}
	d := Detected{Plan: plan, APIKey: str(entry, "api_key")}
	if models, ok := entry["models"].([]interface{}); ok && len(models) > 0 {
		if m, ok := models[0].(map[string]interface{}); ok {
			d.Model = str(m, "id")
		}
	}
	return d, nil
}

func (c *crush) LoadConfig(s registry.ProviderSettings, apiKey string) error {
	doc, err := configfile.ReadJSON(c.configPath())
	if err != nil {
		return err
	}
	providers := ensureMap(doc, "providers")
	providers[crushOpenAIKey] = map[string]interface{}{
		"name":     managedPrefix + s.Source + " (openai)",
		"type":     "openai",
		"base_url": s.BaseURL,
		"api_key":  apiKey,
		"models":   []interface{}{crushModelEntry(s.Model, s.MaxContextSize)},
	}
	if s.AnthropicBaseURL != "" {
		providers[crushAnthropicKey] = map[string]interface{}{
			"name":     managedPrefix + s.Source + " (anthropic)",
			"type":     "anthropic",
			"base_url": s.AnthropicBaseURL,
			"api_key":  apiKey,
			"models":   []interface{}{crushModelEntry(s.AnthropicModel, s.MaxContextSize)},
		}
	} else {
		delete(providers, crushAnthropicKey)
	}

	models := ensureMap(doc, "models")
	models["large"] = map[string]interface{}{
		"model":    s.Model,
		"provider": crushOpenAIKey,
	}
	return configfile.WriteJSON(c.configPath(), doc)
}

func (c *crush) UnloadConfig() error {
	doc, err := configfile.ReadJSON(c.configPath())
	if err != nil {
		return err
	}
	providers := subMap(doc, "providers")
	if providers == nil {
		return nil
	}
	delete(providers, crushOpenAIKey)
	delete(providers, crushAnthropicKey)
	deleteIfEmpty(doc, "providers")

	if models := subMap(doc, "models"); models != nil {
		if large := subMap(models, "large"); str(large, "provider") == crushOpenAIKey {
			delete(models, "large")
		}
		deleteIfEmpty(doc, "models")
	}
	return configfile.WriteJSON(c.configPath(), doc)
}

func (c *crush) mcpTable() *mcpTable {
	return &mcpTable{
		path: c.configPath(),
		key:  "mcp",
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
				return nil, &UnsupportedTransportError{Tool: ToolCrush, Transport: svc.Transport}
			}
		},
	}
}

func (c *crush) IsMCPInstalled(id string) (bool, error) { return c.mcpTable().isInstalled(id) }
func (c *crush) InstallMCP(svc mcp.Service, apiKey string, plan registry.Plan) error {
	return c.mcpTable().install(svc, apiKey, plan)
}
func (c *crush) UninstallMCP(id string) error     { return c.mcpTable().uninstall(id) }
func (c *crush) InstalledMCPs() ([]string, error) { return c.mcpTable().installed() }
func (c *crush) AllMCPServers() (map[string]map[string]interface{}, error) {
	return c.mcpTable().all()
}
func (c *crush) OtherMCPs(builtinIDs []string) ([]string, error) {
	return c.mcpTable().others(builtinIDs)
}
