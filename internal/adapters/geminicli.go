package adapters

import (
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// geminiCLI manages Gemini CLI, which only talks to Google's backends:
// no managed provider block, so the provider surface is a documented
// no-op/error. MCP servers live in ~/.gemini/settings.json.
type geminiCLI struct {
	home string
}

func (g *geminiCLI) Name() string { return ToolGeminiCLI }

func (g *geminiCLI) settingsPath() string { return joinHome(g.home, ".gemini", "settings.json") }

func (g *geminiCLI) DetectConfig() (Detected, error) { return Detected{}, nil }

func (g *geminiCLI) LoadConfig(registry.ProviderSettings, string) error { return ErrNotSupported }

func (g *geminiCLI) UnloadConfig() error { return ErrNotSupported }

func (g *geminiCLI) mcpTable() *mcpTable {
	return &mcpTable{
		path: g.settingsPath(),
		key:  "mcpServers",
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
			case mcp.TransportSSE:
				entry := map[string]interface{}{"url": svc.URL}
				if headers := svc.ResolveHeaders(apiKey); len(headers) > 0 {
					entry["headers"] = envToAny(headers)
				}
				return entry, nil
			case mcp.TransportStreamableHTTP:
				entry := map[string]interface{}{"httpUrl": svc.URL}
				if headers := svc.ResolveHeaders(apiKey); len(headers) > 0 {
					entry["headers"] = envToAny(headers)
				}
				return entry, nil
			default:
				return nil, &UnsupportedTransportError{Tool: ToolGeminiCLI, Transport: svc.Transport}
			}
		},
	}
}

func (g *geminiCLI) IsMCPInstalled(id string) (bool, error) { return g.mcpTable().isInstalled(id) }
func (g *geminiCLI) InstallMCP(svc mcp.Service, apiKey string, plan registry.Plan) error {
	return g.mcpTable().install(svc, apiKey, plan)
}
func (g *geminiCLI) UninstallMCP(id string) error     { return g.mcpTable().uninstall(id) }
func (g *geminiCLI) InstalledMCPs() ([]string, error) { return g.mcpTable().installed() }
func (g *geminiCLI) AllMCPServers() (map[string]map[string]interface{}, error) {
	return g.mcpTable().all()
}
func (g *geminiCLI) OtherMCPs(builtinIDs []string) ([]string, error) {
	return g.mcpTable().others(builtinIDs)
}
