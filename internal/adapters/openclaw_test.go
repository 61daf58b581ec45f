package adapters

import (
	"path/filepath"
	"testing"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

func TestOpenClawReadsJSON5(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, ".openclaw", "openclaw.json5")
	seedJSON(t, cfg, `{
  // user settings
  gateway: { port: 18789 },
  models: {
    providers: {
      coderlink: {
        baseUrl: "https://api.moonshot.cn/v1",
        apiKey: "sk-json5",
        models: ["kimi-k2-0905-preview"],
      },
    },
  },
}`)

	a, _ := New(ToolOpenClaw, home)
	d, err := a.DetectConfig()
	if err != nil {
		t.Fatal(err)
	}
	if d.Plan != registry.PlanKimi || d.APIKey != "sk-json5" || d.Model != "kimi-k2-0905-preview" {
		t.Errorf("DetectConfig = %+v", d)
	}
}

func TestOpenClawUnloadCleansEmptyContainers(t *testing.T) {
	home := t.TempDir()
	a, _ := New(ToolOpenClaw, home)
	if err := a.LoadConfig(mustSettings(t, registry.PlanGLMGlobal, nil), "sk-x"); err != nil {
		t.Fatal(err)
	}
	if err := a.UnloadConfig(); err != nil {
		t.Fatal(err)
	}
	doc, err := configfile.ReadJSON5(filepath.Join(home, ".openclaw", "openclaw.json5"))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"models", "agents"} {
		if _, ok := doc[key]; ok {
			t.Errorf("empty %s container left behind: %v", key, doc)
		}
	}
}

func TestOpenClawKeepsUserKeysOnLoad(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(home, ".openclaw", "openclaw.json5")
	seedJSON(t, cfg, `{ gateway: { port: 18789 } }`)

	a, _ := New(ToolOpenClaw, home)
	if err := a.LoadConfig(mustSettings(t, registry.PlanZenMux, nil), "sk-x"); err != nil {
		t.Fatal(err)
	}
	doc, err := configfile.ReadJSON5(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if subMap(doc, "gateway") == nil {
		t.Error("user gateway key lost")
	}
	slot := subMap(subMap(subMap(doc, "models"), "providers"), openClawProviderKey)
	if str(slot, "baseUrl") != "https://zenmux.ai/api/v1" {
		t.Errorf("baseUrl = %q", str(slot, "baseUrl"))
	}
}
