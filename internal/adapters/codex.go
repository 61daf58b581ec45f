package adapters

import (
	"os"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// codex manages the Codex CLI. The provider slot is a fixed key under
// [model_providers] in ~/.codex/config.toml; the credential lives in
// ~/.codex/auth.json under OPENAI_API_KEY, which is where Codex reads
// it regardless of provider.
type codex struct {
	home string
}

const codexProviderKey = "coderlink"

func (c *codex) Name() string { return ToolCodex }

func (c *codex) configPath() string { return joinHome(c.home, ".codex", "config.toml") }
func (c *codex) authPath() string   { return joinHome(c.home, ".codex", "auth.json") }

func (c *codex) DetectConfig() (Detected, error) {
	doc, err := configfile.ReadTOML(c.configPath())
	if err != nil {
		return Detected{}, err
	}
	slot := subMap(subMap(doc, "model_providers"), codexProviderKey)
	url := str(slot, "base_url")
	if url == "" {
		return Detected{}, nil
	}
	plan, ok := registry.DetectPlan(url)
	if !ok {
		return Detected{}, nil
	}

	auth, err := configfile.ReadJSON(c.authPath())
	if err != nil {
		return Detected{}, err
	}
	d := Detected{Plan: plan, APIKey: str(auth, "OPENAI_API_KEY")}
	if str(doc, "model_provider") == codexProviderKey {
		d.Model = str(doc, "model")
	}
	return d, nil
}

func (c *codex) LoadConfig(s registry.ProviderSettings, apiKey string) error {
	doc, err := configfile.ReadTOML(c.configPath())
	if err != nil {
		return err
	}
	providers := ensureMap(doc, "model_providers")
	providers[codexProviderKey] = map[string]interface{}{
		"name":     managedPrefix + s.Source,
		"base_url": s.BaseURL,
		"wire_api": "chat",
		"env_key":  mcp.DefaultAuthEnvVar,
	}
	doc["model_provider"] = codexProviderKey
	doc["model"] = s.Model
	if s.MaxContextSize > 0 {
		doc["model_context_window"] = int64(s.MaxContextSize)
	}
	if err := configfile.WriteTOML(c.configPath(), doc); err != nil {
		return err
	}

	auth, err := configfile.ReadJSON(c.authPath())
	if err != nil {
		return err
	}
	auth["OPENAI_API_KEY"] = apiKey
	return configfile.WriteJSON(c.authPath(), auth)
}

func (c *codex) UnloadConfig() error {
	doc, err := configfile.ReadTOML(c.configPath())
	if err != nil {
		return err
	}
	providers := subMap(doc, "model_providers")
	if _, ok := providers[codexProviderKey]; !ok {
		return nil
	}
	delete(providers, codexProviderKey)
	deleteIfEmpty(doc, "model_providers")
	if str(doc, "model_provider") == codexProviderKey {
		delete(doc, "model_provider")
		delete(doc, "model")
		delete(doc, "model_context_window")
	}
	if err := configfile.WriteTOML(c.configPath(), doc); err != nil {
		return err
	}

	auth, err := configfile.ReadJSON(c.authPath())
	if err != nil {
		return err
	}
	delete(auth, "OPENAI_API_KEY")
	return configfile.WriteJSON(c.authPath(), auth)
}

// Codex only launches stdio MCP servers, configured as TOML tables
// under [mcp_servers].
func (c *codex) buildMCPEntry(svc mcp.Service, apiKey string, existing map[string]interface{}) (map[string]interface{}, error) {
	if svc.Transport != mcp.TransportStdio {
		return nil, &UnsupportedTransportError{Tool: ToolCodex, Transport: svc.Transport}
	}
	entry := map[string]interface{}{"command": svc.Command}
	if len(svc.Args) > 0 {
		entry["args"] = stringsToAny(svc.Args)
	}
	env := svc.ResolveEnv(apiKey)
	existingEnv := subMap(existing, "env")
	for name, value := range env {
		if value != "" {
			continue
		}
		// Templated env vars with an empty default are back-filled from
		// the process environment, and an already-set value in the
		// tool's file is never overwritten with an empty one.
		if fromProc := os.Getenv(name); fromProc != "" {
			env[name] = fromProc
		} else if prev := str(existingEnv, name); prev != "" {
			env[name] = prev
		}
	}
	if len(env) > 0 {
		entry["env"] = envToAny(env)
	}
	return entry, nil
}

func (c *codex) IsMCPInstalled(id string) (bool, error) {
	doc, err := configfile.ReadTOML(c.configPath())
	if err != nil {
		return false, err
	}
	_, ok := subMap(doc, "mcp_servers")[id]
	return ok, nil
}

func (c *codex) InstallMCP(svc mcp.Service, apiKey string, _ registry.Plan) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	doc, err := configfile.ReadTOML(c.configPath())
	if err != nil {
		return err
	}
	servers := ensureMap(doc, "mcp_servers")
	entry, err := c.buildMCPEntry(svc, apiKey, subMap(servers, svc.ID))
	if err != nil {
		return err
	}
	servers[svc.ID] = entry
	return configfile.WriteTOML(c.configPath(), doc)
}

func (c *codex) UninstallMCP(id string) error {
	doc, err := configfile.ReadTOML(c.configPath())
	if err != nil {
		return err
	}
	servers := subMap(doc, "mcp_servers")
	if servers == nil {
		return nil
	}
	delete(servers, id)
	deleteIfEmpty(doc, "mcp_servers")
	return configfile.WriteTOML(c.configPath(), doc)
}

func (c *codex) InstalledMCPs() ([]string, error) {
	t := &mcpTable{path: c.configPath(), key: "mcp_servers", read: configfile.ReadTOML, write: configfile.WriteTOML}
	return t.installed()
}

func (c *codex) AllMCPServers() (map[string]map[string]interface{}, error) {
	t := &mcpTable{path: c.configPath(), key: "mcp_servers", read: configfile.ReadTOML, write: configfile.WriteTOML}
	return t.all()
}

func (c *codex) OtherMCPs(builtinIDs []string) ([]string, error) {
	t := &mcpTable{path: c.configPath(), key: "mcp_servers", read: configfile.ReadTOML, write: configfile.WriteTOML}
	return t.others(builtinIDs)
}
