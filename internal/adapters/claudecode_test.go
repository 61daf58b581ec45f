package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

func seedJSON(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestClaudeCodeNonDestructiveMerge(t *testing.T) {
	home := t.TempDir()
	settings := filepath.Join(home, ".claude", "settings.json")
	seedJSON(t, settings, `{
  "permissions": {"allow": ["Bash(git:*)"]},
  "env": {"CUSTOM_VAR": "mine", "ANTHROPIC_BASE_URL": "https://stale.example.com"}
}`)

	a, _ := New(ToolClaudeCode, home)
	s := mustSettings(t, registry.PlanGLMGlobal, nil)
	if err := a.LoadConfig(s, "sk-merge"); err != nil {
		t.Fatal(err)
	}
	if err := a.UnloadConfig(); err != nil {
		t.Fatal(err)
	}

	doc, err := configfile.ReadJSON(settings)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["permissions"]; !ok {
		t.Error("unrelated permissions key lost")
	}
	env := subMap(doc, "env")
	if str(env, "CUSTOM_VAR") != "mine" {
		t.Errorf("user env var lost: %v", env)
	}
	if _, ok := env["ANTHROPIC_AUTH_TOKEN"]; ok {
		t.Error("managed key survived unload")
	}
}

func TestClaudeCodeUnloadRemovesEmptyEnv(t *testing.T) {
	home := t.TempDir()
	a, _ := New(ToolClaudeCode, home)
	s := mustSettings(t, registry.PlanGLMGlobal, nil)
	if err := a.LoadConfig(s, "sk-x"); err != nil {
		t.Fatal(err)
	}
	if err := a.UnloadConfig(); err != nil {
		t.Fatal(err)
	}
	doc, err := configfile.ReadJSON(filepath.Join(home, ".claude", "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["env"]; ok {
		t.Errorf("empty env container left behind: %v", doc)
	}
}

func TestClaudeCodeWritesAnthropicEndpoint(t *testing.T) {
	home := t.TempDir()
	a, _ := New(ToolClaudeCode, home)
	s := mustSettings(t, registry.PlanGLMGlobal, &registry.Overrides{Model: "glm-4.5"})
	if err := a.LoadConfig(s, "sk-x"); err != nil {
		t.Fatal(err)
	}
	doc, err := configfile.ReadJSON(filepath.Join(home, ".claude", "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	env := subMap(doc, "env")
	if str(env, "ANTHROPIC_BASE_URL") != "https://api.z.ai/api/anthropic" {
		t.Errorf("ANTHROPIC_BASE_URL = %q", str(env, "ANTHROPIC_BASE_URL"))
	}
	if str(env, "ANTHROPIC_MODEL") != "glm-4.5" {
		t.Errorf("ANTHROPIC_MODEL = %q", str(env, "ANTHROPIC_MODEL"))
	}
}

func TestClaudeCodeRejectsOpenAIOnlyPlan(t *testing.T) {
	home := t.TempDir()
	a, _ := New(ToolClaudeCode, home)
	s, err := registry.Settings(registry.PlanKimi, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.LoadConfig(s, "sk-x"); err == nil {
		t.Fatal("LoadConfig with openai-only plan succeeded")
	}
	if _, statErr := os.Stat(filepath.Join(home, ".claude", "settings.json")); statErr == nil {
		t.Error("file written despite rejected plan")
	}
}

func TestClaudeCodeMCPLifecycle(t *testing.T) {
	home := t.TempDir()
	a, _ := New(ToolClaudeCode, home)
	svc, _ := mcp.BuiltinByID("context7")

	if err := a.InstallMCP(svc, "sk-x", registry.PlanGLMGlobal); err != nil {
		t.Fatal(err)
	}
	ok, err := a.IsMCPInstalled("context7")
	if err != nil || !ok {
		t.Fatalf("IsMCPInstalled = (%v, %v)", ok, err)
	}
	ids, err := a.InstalledMCPs()
	if err != nil || len(ids) != 1 || ids[0] != "context7" {
		t.Fatalf("InstalledMCPs = (%v, %v)", ids, err)
	}

	// Removing the only entry removes the parent container too.
	if err := a.UninstallMCP("context7"); err != nil {
		t.Fatal(err)
	}
	doc, err := configfile.ReadJSON(filepath.Join(home, ".claude.json"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["mcpServers"]; ok {
		t.Errorf("empty mcpServers container left behind: %v", doc)
	}
}

func TestClaudeCodeMCPAuthHeader(t *testing.T) {
	home := t.TempDir()
	a, _ := New(ToolClaudeCode, home)
	svc, _ := mcp.BuiltinByID("zai-mcp")
	if err := a.InstallMCP(svc, "sk-secret", registry.PlanGLMGlobal); err != nil {
		t.Fatal(err)
	}
	all, err := a.AllMCPServers()
	if err != nil {
		t.Fatal(err)
	}
	entry := all["zai-mcp"]
	headers := subMap(entry, "headers")
	if str(headers, "Authorization") != "Bearer sk-secret" {
		t.Errorf("headers = %v", headers)
	}
	if str(entry, "type") != "http" {
		t.Errorf("type = %q", str(entry, "type"))
	}
}

func TestClaudeCodeOtherMCPs(t *testing.T) {
	home := t.TempDir()
	seedJSON(t, filepath.Join(home, ".claude.json"),
		`{"mcpServers": {"context7": {"command": "npx"}, "my-own": {"command": "foo"}}}`)
	a, _ := New(ToolClaudeCode, home)
	others, err := a.OtherMCPs(mcp.BuiltinIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(others) != 1 || others[0] != "my-own" {
		t.Errorf("OtherMCPs = %v", others)
	}
}

func TestClaudeCodeDetectCorruptFile(t *testing.T) {
	home := t.TempDir()
	seedJSON(t, filepath.Join(home, ".claude", "settings.json"), "{broken")
	a, _ := New(ToolClaudeCode, home)
	if _, err := a.DetectConfig(); err == nil {
		t.Error("corrupt file did not surface an error")
	}
}
