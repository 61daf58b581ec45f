package adapters

import (
	"strings"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// goose manages Goose via ~/.config/goose/config.yaml. Goose splits the
// endpoint into OPENAI_HOST plus OPENAI_BASE_PATH, so the base URL is
// decomposed on write and reassembled on detect. Goose's extension
// table is not managed here, so the MCP surface is a documented no-op.
type goose struct {
	home string
	noMCP
}

// Top-level YAML keys forming the Managed Provider Block.
var gooseManagedKeys = []string{
	"GOOSE_PROVIDER",
	"GOOSE_MODEL",
	"OPENAI_HOST",
	"OPENAI_BASE_PATH",
	"OPENAI_API_KEY",
}

func (g *goose) Name() string { return ToolGoose }

func (g *goose) configPath() string {
	return joinHome(g.home, ".config", "goose", "config.yaml")
}

func (g *goose) DetectConfig() (Detected, error) {
	doc, err := configfile.ReadYAML(g.configPath())
	if err != nil {
		return Detected{}, err
	}
	if str(doc, "GOOSE_PROVIDER") != "openai" {
		return Detected{}, nil
	}
	plan, ok := registry.DetectPlan(str(doc, "OPENAI_HOST"))
	if !ok {
		return Detected{}, nil
	}
	return Detected{
		Plan:   plan,
		APIKey: str(doc, "OPENAI_API_KEY"),
		Model:  str(doc, "GOOSE_MODEL"),
	}, nil
}

func (g *goose) LoadConfig(s registry.ProviderSettings, apiKey string) error {
	doc, err := configfile.ReadYAML(g.configPath())
	if err != nil {
		return err
	}
	host, path := splitBaseURL(s.BaseURL)
	doc["GOOSE_PROVIDER"] = "openai"
	doc["GOOSE_MODEL"] = s.Model
	doc["OPENAI_HOST"] = host
	doc["OPENAI_BASE_PATH"] = strings.TrimPrefix(path, "/") + "/chat/completions"
	doc["OPENAI_API_KEY"] = apiKey
	return configfile.WriteYAML(g.configPath(), doc)
}

func (g *goose) UnloadConfig() error {
	doc, err := configfile.ReadYAML(g.configPath())
	if err != nil {
		return err
	}
	// Only clear the block when it is ours: a hand-configured OpenAI
	// setup pointing at an unknown host stays untouched.
	if str(doc, "GOOSE_PROVIDER") != "openai" {
		return nil
	}
	if _, ok := registry.DetectPlan(str(doc, "OPENAI_HOST")); !ok {
		return nil
	}
	for _, key := range gooseManagedKeys {
		delete(doc, key)
	}
	return configfile.WriteYAML(g.configPath(), doc)
}
