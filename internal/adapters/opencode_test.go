package adapters

import (
	"path/filepath"
	"testing"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

func TestOpenCodePlanSwitchReplacesManagedBlock(t *testing.T) {
	home := t.TempDir()
	a, _ := New(ToolOpenCode, home)

	if err := a.LoadConfig(mustSettings(t, registry.PlanGLMGlobal, nil), "sk-1"); err != nil {
		t.Fatal(err)
	}
	if err := a.LoadConfig(mustSettings(t, registry.PlanKimi, nil), "sk-2"); err != nil {
		t.Fatal(err)
	}

	doc, err := configfile.ReadJSON(filepath.Join(home, ".config", "opencode", "opencode.json"))
	if err != nil {
		t.Fatal(err)
	}
	provider := subMap(doc, "provider")
	if len(provider) != 1 {
		t.Fatalf("provider = %v, want exactly one managed block after switch", provider)
	}
	if subMap(provider, "kimi") == nil {
		t.Errorf("provider = %v, want block keyed by short name kimi", provider)
	}
	if str(doc, "model") != "kimi/kimi-k2-0905-preview" {
		t.Errorf("model = %q", str(doc, "model"))
	}
}

func TestOpenCodeKeepsUserProvider(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, ".config", "opencode", "opencode.json")
	seedJSON(t, cfg, `{"provider": {"ollama": {"name": "Ollama", "options": {"baseURL": "http://localhost:11434/v1"}}}}`)

	a, _ := New(ToolOpenCode, home)
	if err := a.LoadConfig(mustSettings(t, registry.PlanGLMGlobal, nil), "sk-x"); err != nil {
		t.Fatal(err)
	}
	if err := a.UnloadConfig(); err != nil {
		t.Fatal(err)
	}

	doc, err := configfile.ReadJSON(cfg)
	if err != nil {
		t.Fatal(err)
	}
	provider := subMap(doc, "provider")
	if subMap(provider, "ollama") == nil {
		t.Errorf("user provider lost: %v", provider)
	}
	if len(provider) != 1 {
		t.Errorf("provider = %v, want only the user block", provider)
	}
}
