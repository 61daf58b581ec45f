package adapters

import (
	"strings"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// openCode manages OpenCode. Provider blocks in
// ~/.config/opencode/opencode.json are keyed by the plan's short name;
// coder-link recognizes its own blocks by the display-name marker, so
// switching plans replaces the old managed block instead of piling up
// one per short name.
type openCode struct {
	home string
}

func (o *openCode) Name() string { return ToolOpenCode }

func (o *openCode) configPath() string {
	return joinHome(o.home, ".config", "opencode", "opencode.json")
}

// managedProviderKeys returns the provider keys whose display name
// carries the coder-link marker.
func managedProviderKeys(provider map[string]interface{}) []string {
	var keys []string
	for key, v := range provider {
		entry, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if strings.HasPrefix(str(entry, "name"), managedPrefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

func (o *openCode) DetectConfig() (Detected, error) {
	doc, err := configfile.ReadJSON(o.configPath())
	if err != nil {
		return Detected{}, err
	}
	provider := subMap(doc, "provider")
	for _, key := range managedProviderKeys(provider) {
		entry := subMap(provider, key)
		options := subMap(entry, "options")
		url := str(options, "baseURL")
		plan, ok := registry.DetectPlan(url)
		if !ok {
			continue
		}
		d := Detected{Plan: plan, APIKey: str(options, "apiKey")}
		if sel := str(doc, "model"); strings.HasPrefix(sel, key+"/") {
			d.Model = strings.TrimPrefix(sel, key+"/")
		}
		return d, nil
	}
	return Detected{}, nil
}

func (o *openCode) LoadConfig(s registry.ProviderSettings, apiKey string) error {
	doc, err := configfile.ReadJSON(o.configPath())
	if err != nil {
		return err
	}
	provider := ensureMap(doc, "provider")
	for _, key := range managedProviderKeys(provider) {
		delete(provider, key)
	}
	provider[s.ProviderID] = map[string]interface{}{
		"npm":  "@ai-sdk/openai-compatible",
		"name": managedPrefix + s.Source,
		"options": map[string]interface{}{
			"baseURL": s.BaseURL,
			"apiKey":  apiKey,
		},
		"models": map[string]interface{}{
			s.Model: map[string]interface{}{"name": s.Model},
		},
	}
	doc["model"] = s.ProviderID + "/" + s.Model
	return configfile.WriteJSON(o.configPath(), doc)
}

func (o *openCode) UnloadConfig() error {
	doc, err := configfile.ReadJSON(o.configPath())
	if err != nil {
		return err
	}
	provider := subMap(doc, "provider")
	if provider == nil {
		return nil
	}
	removed := managedProviderKeys(provider)
	if len(removed) == 0 {
		return nil
	}
	for _, key := range removed {
		delete(provider, key)
		if sel := str(doc, "model"); strings.HasPrefix(sel, key+"/") {
			delete(doc, "model")
		}
	}
	deleteIfEmpty(doc, "provider")
	return configfile.WriteJSON(o.configPath(), doc)
}

func (o *openCode) mcpTable() *mcpTable {
	return &mcpTable{
		path: o.configPath(),
		key:  "mcp",
		build: func(svc mcp.Service, apiKey string) (map[string]interface{}, error) {
			switch svc.Transport {
			case mcp.TransportStdio:
				command := append([]string{svc.Command}, svc.Args...)
				entry := map[string]interface{}{
					"type":    "local",
					"command": stringsToAny(command),
					"enabled": true,
				}
				if env := svc.ResolveEnv(apiKey); len(env) > 0 {
					entry["environment"] = envToAny(env)
				}
				return entry, nil
			case mcp.TransportSSE, mcp.TransportStreamableHTTP:
				entry := map[string]interface{}{
					"type":    "remote",
					"url":     svc.URL,
					"enabled": true,
				}
				if headers := svc.ResolveHeaders(apiKey); len(headers) > 0 {
					entry["headers"] = envToAny(headers)
				}
				return entry, nil
			default:
				return nil, &UnsupportedTransportError{Tool: ToolOpenCode, Transport: svc.Transport}
			}
		},
	}
}

func (o *openCode) IsMCPInstalled(id string) (bool, error) { return o.mcpTable().isInstalled(id) }
func (o *openCode) InstallMCP(svc mcp.Service, apiKey string, plan registry.Plan) error {
	return o.mcpTable().install(svc, apiKey, plan)
}
func (o *openCode) UninstallMCP(id string) error     { return o.mcpTable().uninstall(id) }
func (o *openCode) InstalledMCPs() ([]string, error) { return o.mcpTable().installed() }
func (o *openCode) AllMCPServers() (map[string]map[string]interface{}, error) {
	return o.mcpTable().all()
}
func (o *openCode) OtherMCPs(builtinIDs []string) ([]string, error) {
	return o.mcpTable().others(builtinIDs)
}
