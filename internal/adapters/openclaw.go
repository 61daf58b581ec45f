package adapters

import (
	"strings"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// openClaw manages OpenClaw's ~/.openclaw/openclaw.json5. The file is
// parsed as JSON5 (users keep comments in it) and written back as plain
// JSON, which OpenClaw also accepts; comments do not survive a managed
// write.
type openClaw struct {
	home string
}

const openClawProviderKey = "coderlink"

func (o *openClaw) Name() string { return ToolOpenClaw }

func (o *openClaw) configPath() string {
	return joinHome(o.home, ".openclaw", "openclaw.json5")
}

func (o *openClaw) DetectConfig() (Detected, error) {
	doc, err := configfile.ReadJSON5(o.configPath())
	if err != nil {
		return Detected{}, err
	}
	slot := subMap(subMap(subMap(doc, "models"), "providers"), openClawProviderKey)
	if slot == nil {
		return Detected{}, nil
	}
	plan, ok := registry.DetectPlan(str(slot, "baseUrl"))
	if !ok {
		return Detected{}, nil
	}
	d := Detected{Plan: plan, APIKey: str(slot, "apiKey")}
	if models, ok := slot["models"].([]interface{}); ok && len(models) > 0 {
		if id, ok := models[0].(string); ok {
			d.Model = id
		}
	}
	return d, nil
}

func (o *openClaw) LoadConfig(s registry.ProviderSettings, apiKey string) error {
	doc, err := configfile.ReadJSON5(o.configPath())
	if err != nil {
		return err
	}
	models := ensureMap(doc, "models")
	providers := ensureMap(models, "providers")
	providers[openClawProviderKey] = map[string]interface{}{
		"baseUrl": s.BaseURL,
		"apiKey":  apiKey,
		"api":     "openai-completions",
		"models":  []interface{}{s.Model},
	}

	agents := ensureMap(doc, "agents")
	defaults := ensureMap(agents, "defaults")
	defaults["model"] = openClawProviderKey + "/" + s.Model
	return configfile.WriteJSON(o.configPath(), doc)
}

func (o *openClaw) UnloadConfig() error {
	doc, err := configfile.ReadJSON5(o.configPath())
	if err != nil {
		return err
	}
	models := subMap(doc, "models")
	providers := subMap(models, "providers")
	if _, ok := providers[openClawProviderKey]; !ok {
		return nil
	}
	delete(providers, openClawProviderKey)
	deleteIfEmpty(models, "providers")
	deleteIfEmpty(doc, "models")

	if agents := subMap(doc, "agents"); agents != nil {
		if defaults := subMap(agents, "defaults"); defaults != nil {
			if strings.HasPrefix(str(defaults, "model"), openClawProviderKey+"/") {
				delete(defaults, "model")
			}
			deleteIfEmpty(agents, "defaults")
		}
		deleteIfEmpty(doc, "agents")
	}
	return configfile.WriteJSON(o.configPath(), doc)
}

func (o *openClaw) mcpTable() *mcpTable {
	return &mcpTable{
		path:  o.configPath(),
		key:   "mcpServers",
		read:  configfile.ReadJSON5,
		write: configfile.WriteJSON,
		build: func(svc mcp.Service, apiKey string) (map[string]interface{}, error) {
			switch svc.Transport {
			case mcp.TransportStdio:
				entry := map[string]interface{}{"command": svc.Command}
				if len(svc.Args) > 0 {
					entry["args"] = stringsToAny(svc.Args)
				}
				if env := svc.ResolveEnv(apiKey); len(env) > 0 {
					entry["env"] = envToAny(env)
				}
				return entry, nil
			case mcp.TransportSSE, mcp.TransportStreamableHTTP:
				entry := map[string]interface{}{
					"transport": string(svc.Transport),
					"url":       svc.URL,
				}
				if headers := svc.ResolveHeaders(apiKey); len(headers) > 0 {
					entry["headers"] = envToAny(headers)
				}
				return entry, nil
			default:
				return nil, &UnsupportedTransportError{Tool: ToolOpenClaw, Transport: svc.Transport}
			}
		},
	}
}

func (o *openClaw) IsMCPInstalled(id string) (bool, error) { return o.mcpTable().isInstalled(id) }
func (o *openClaw) InstallMCP(svc mcp.Service, apiKey string, plan registry.Plan) error {
	return o.mcpTable().install(svc, apiKey, plan)
}
func (o *openClaw) UninstallMCP(id string) error     { return o.mcpTable().uninstall(id) }
func (o *openClaw) InstalledMCPs() ([]string, error) { return o.mcpTable().installed() }
func (o *openClaw) AllMCPServers() (map[string]map[string]interface{}, error) {
	return o.mcpTable().all()
}
func (o *openClaw) OtherMCPs(builtinIDs []string) ([]string, error) {
	return o.mcpTable().others(builtinIDs)
}
