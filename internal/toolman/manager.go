// Package toolman coordinates the per-tool adapters behind a single
// capability-gated surface. Callers ask for an operation by tool name;
// the manager refuses combinations the tool cannot express before any
// file is touched.
package toolman

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/nextlevelbuilder/coderlink/internal/adapters"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// Capabilities declares what a tool's config surface can represent.
// An empty SupportedPlans means every registered plan works.
type Capabilities struct {
	Provider    bool
	MCP         bool
	ModelSelect bool

	SupportedPlans []registry.Plan
}

// SupportsPlan reports whether a plan can be pushed into this tool.
func (c Capabilities) SupportsPlan(plan registry.Plan) bool {
	if !c.Provider {
		return false
	}
	if len(c.SupportedPlans) == 0 {
		return true
	}
	for _, p := range c.SupportedPlans {
		if p == plan {
			return true
		}
	}
	return false
}

// CapabilityError reports an operation refused by the capability gate.
// Nothing has been read or written when it is returned.
type CapabilityError struct {
	Tool      string
	Operation string
	Plan      registry.Plan
}

func (e *CapabilityError) Error() string {
	if e.Plan != "" {
		return fmt.Sprintf("%s does not support plan %q", e.Tool, e.Plan)
	}
	return fmt.Sprintf("%s does not support %s", e.Tool, e.Operation)
}

// anthropicPlans are the plans usable by tools that speak only the
// Anthropic dialect.
var anthropicPlans = []registry.Plan{
	registry.PlanGLMGlobal,
	registry.PlanGLMChina,
	registry.PlanOpenRouter,
	registry.PlanLMStudio,
	registry.PlanAlibabaAPI,
	registry.PlanZenMux,
}

var matrix = map[string]Capabilities{
	adapters.ToolClaudeCode: {Provider: true, MCP: true, ModelSelect: true, SupportedPlans: anthropicPlans},
	adapters.ToolCodex:      {Provider: true, MCP: true, ModelSelect: true},
	adapters.ToolGeminiCLI:  {MCP: true},
	adapters.ToolOpenCode:   {Provider: true, MCP: true, ModelSelect: true},
	adapters.ToolCrush:      {Provider: true, MCP: true, ModelSelect: true},
	adapters.ToolGoose:      {Provider: true, ModelSelect: true},
	adapters.ToolIFlow:      {Provider: true, ModelSelect: true},
	adapters.ToolOpenClaw:   {Provider: true, MCP: true, ModelSelect: true},
}

// Capability returns the declared capabilities of a tool.
func Capability(tool string) (Capabilities, bool) {
	c, ok := matrix[tool]
	return c, ok
}

// ProviderTools returns the tools that accept provider config, in
// display order.
func ProviderTools() []string {
	var out []string
	for _, name := range adapters.Names {
		if matrix[name].Provider {
			out = append(out, name)
		}
	}
	return out
}

// MCPTools returns the tools that accept MCP service config, in
// display order.
func MCPTools() []string {
	var out []string
	for _, name := range adapters.Names {
		if matrix[name].MCP {
			out = append(out, name)
		}
	}
	return out
}

// Manager hands out adapters lazily and enforces the capability matrix
// in front of them. Safe for concurrent use.
type Manager struct {
	home   string
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]adapters.Adapter

	// newAdapter is swapped in tests.
	newAdapter func(name, home string) (adapters.Adapter, error)
}

// NewManager builds a manager rooted at the given home directory.
// Pass "" to use the current user's home.
func NewManager(home string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		home:       home,
		logger:     logger,
		cache:      make(map[string]adapters.Adapter),
		newAdapter: adapters.New,
	}
}

func (m *Manager) adapter(tool string) (adapters.Adapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.cache[tool]; ok {
		return a, nil
	}
	a, err := m.newAdapter(tool, m.home)
	if err != nil {
		return nil, err
	}
	m.cache[tool] = a
	return a, nil
}

// DetectConfig reverse-maps the tool's stored provider config.
func (m *Manager) DetectConfig(tool string) (adapters.Detected, error) {
	caps, ok := matrix[tool]
	if !ok {
		return adapters.Detected{}, fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.Provider {
		return adapters.Detected{}, nil
	}
	a, err := m.adapter(tool)
	if err != nil {
		return adapters.Detected{}, err
	}
	return a.DetectConfig()
}

// IsConfigured reports whether the tool currently carries a complete
// managed block (plan and credential both present).
func (m *Manager) IsConfigured(tool string) (bool, error) {
	d, err := m.DetectConfig(tool)
	if err != nil {
		return false, err
	}
	return d.Configured(), nil
}

// LoadConfig resolves the plan's effective settings and pushes them
// into the tool. The capability gate runs before anything is read, so
// an unsupported tool/plan pair leaves the tool's files untouched.
// Adapter errors surface unchanged.
func (m *Manager) LoadConfig(tool string, plan registry.Plan, ov *registry.Overrides, apiKey string) error {
	caps, ok := matrix[tool]
	if !ok {
		return fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.Provider {
		return &CapabilityError{Tool: tool, Operation: "provider config"}
	}
	if !caps.SupportsPlan(plan) {
		return &CapabilityError{Tool: tool, Plan: plan}
	}
	settings, err := registry.Settings(plan, ov)
	if err != nil {
		return err
	}
	a, err := m.adapter(tool)
	if err != nil {
		return err
	}
	if err := a.LoadConfig(settings, apiKey); err != nil {
		return err
	}
	m.logger.Info("provider config applied", "tool", tool, "plan", plan, "model", settings.Model)
	return nil
}

// UnloadConfig removes the tool's managed provider block.
func (m *Manager) UnloadConfig(tool string) error {
	caps, ok := matrix[tool]
	if !ok {
		return fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.Provider {
		return &CapabilityError{Tool: tool, Operation: "provider config"}
	}
	a, err := m.adapter(tool)
	if err != nil {
		return err
	}
	if err := a.UnloadConfig(); err != nil {
		return err
	}
	m.logger.Info("provider config removed", "tool", tool)
	return nil
}

// InstallMCP installs one MCP service into one tool.
func (m *Manager) InstallMCP(tool string, svc mcp.Service, apiKey string, plan registry.Plan) error {
	caps, ok := matrix[tool]
	if !ok {
		return fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.MCP {
		return &CapabilityError{Tool: tool, Operation: "mcp services"}
	}
	a, err := m.adapter(tool)
	if err != nil {
		return err
	}
	if err := a.InstallMCP(svc, apiKey, plan); err != nil {
		return err
	}
	m.logger.Info("mcp service installed", "tool", tool, "service", svc.ID)
	return nil
}

// UninstallMCP removes one MCP service from one tool.
func (m *Manager) UninstallMCP(tool, id string) error {
	caps, ok := matrix[tool]
	if !ok {
		return fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.MCP {
		return &CapabilityError{Tool: tool, Operation: "mcp services"}
	}
	a, err := m.adapter(tool)
	if err != nil {
		return err
	}
	if err := a.UninstallMCP(id); err != nil {
		return err
	}
	m.logger.Info("mcp service removed", "tool", tool, "service", id)
	return nil
}

// InstalledMCPs lists the managed MCP services present in one tool.
func (m *Manager) InstalledMCPs(tool string) ([]string, error) {
	caps, ok := matrix[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.MCP {
		return nil, nil
	}
	a, err := m.adapter(tool)
	if err != nil {
		return nil, err
	}
	return a.InstalledMCPs()
}

// AllMCPServers returns the tool's full MCP table, managed entries and
// user-added ones alike, keyed by service id.
func (m *Manager) AllMCPServers(tool string) (map[string]map[string]interface{}, error) {
	caps, ok := matrix[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.MCP {
		return nil, nil
	}
	a, err := m.adapter(tool)
	if err != nil {
		return nil, err
	}
	return a.AllMCPServers()
}

// OtherMCPs lists MCP entries in the tool's file that coder-link does
// not manage.
func (m *Manager) OtherMCPs(tool string) ([]string, error) {
	caps, ok := matrix[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", tool)
	}
	if !caps.MCP {
		return nil, nil
	}
	a, err := m.adapter(tool)
	if err != nil {
		return nil, err
	}
	return a.OtherMCPs(mcp.BuiltinIDs())
}

// BulkResult tallies a fan-out across tools. Failed maps tool name to
// the error it produced.
type BulkResult struct {
	Attempted []string
	Succeeded []string
	Failed    map[string]error
}

// InstallMCPEverywhere installs one service into every MCP-capable
// tool, continuing past per-tool failures. A tool that cannot
// represent the service's transport counts as failed, not fatal.
func (m *Manager) InstallMCPEverywhere(svc mcp.Service, apiKey string, plan registry.Plan) BulkResult {
	res := BulkResult{Failed: make(map[string]error)}
	for _, tool := range MCPTools() {
		res.Attempted = append(res.Attempted, tool)
		if err := m.InstallMCP(tool, svc, apiKey, plan); err != nil {
			m.logger.Warn("mcp install failed", "tool", tool, "service", svc.ID, "error", err)
			res.Failed[tool] = err
			continue
		}
		res.Succeeded = append(res.Succeeded, tool)
	}
	return res
}
