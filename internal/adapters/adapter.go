// Package adapters maps the abstract provider/credential/model triple
// onto each external tool's native config schema, and back. One adapter
// per tool; every adapter owns exactly its Managed Provider Block and
// leaves the rest of the tool's file untouched.
package adapters

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// Tool names. Wire-stable, used as capability-matrix and CLI keys.
const (
	ToolClaudeCode = "claude-code"
	ToolCodex      = "codex"
	ToolGeminiCLI  = "gemini-cli"
	ToolOpenCode   = "opencode"
	ToolCrush      = "crush"
	ToolGoose      = "goose"
	ToolIFlow      = "iflow"
	ToolOpenClaw   = "openclaw"
)

// Names lists every known tool in display order.
var Names = []string{
	ToolClaudeCode,
	ToolCodex,
	ToolGeminiCLI,
	ToolOpenCode,
	ToolCrush,
	ToolGoose,
	ToolIFlow,
	ToolOpenClaw,
}

// managedPrefix tags display names of config entries coder-link owns.
// Array-shaped tools match entries by this convention, not by index.
const managedPrefix = "coderlink: "

// ErrNotSupported is returned by the documented no-op surface of tools
// that lack a capability (e.g. provider config on gemini-cli). The
// manager's capability gate normally fires first.
var ErrNotSupported = errors.New("operation not supported by this tool")

// UnsupportedTransportError reports an MCP transport the target tool
// cannot represent; raised instead of writing a best-guess shape.
type UnsupportedTransportError struct {
	Tool      string
	Transport mcp.Transport
}

func (e *UnsupportedTransportError) Error() string {
	return fmt.Sprintf("%s does not support MCP transport %q", e.Tool, e.Transport)
}

// Detected is the result of reverse-mapping a tool's stored config.
// The zero value means "not configured".
type Detected struct {
	Plan   registry.Plan
	APIKey string
	Model  string
}

// Configured reports whether both a plan and a usable credential were
// found. A partially filled block does not count.
func (d Detected) Configured() bool { return d.Plan != "" && d.APIKey != "" }

// Adapter is the uniform per-tool contract. Implementations must be
// idempotent on LoadConfig and side-effect-free with respect to every
// key outside their Managed Provider Block. There is no cross-process
// locking on tool files; two concurrent invocations can race, matching
// how the external tools themselves behave.
type Adapter interface {
	Name() string

	// DetectConfig reads the tool's file and reverse-maps the managed
	// block. Absent file or block yields the zero Detected, not an
	// error; a corrupt file is an error.
	DetectConfig() (Detected, error)
	LoadConfig(settings registry.ProviderSettings, apiKey string) error
	UnloadConfig() error

	IsMCPInstalled(id string) (bool, error)
	InstallMCP(svc mcp.Service, apiKey string, plan registry.Plan) error
	UninstallMCP(id string) error
	InstalledMCPs() ([]string, error)
	AllMCPServers() (map[string]map[string]interface{}, error)
	OtherMCPs(builtinIDs []string) ([]string, error)
}

// New constructs the adapter for a tool rooted at the given home
// directory. Pass "" to use the current user's home.
func New(name, home string) (Adapter, error) {
	if home == "" {
		home = userHome()
	}
	switch name {
	case ToolClaudeCode:
		return &claudeCode{home: home}, nil
	case ToolCodex:
		return &codex{home: home}, nil
	case ToolGeminiCLI:
		return &geminiCLI{home: home}, nil
	case ToolOpenCode:
		return &openCode{home: home}, nil
	case ToolCrush:
		return &crush{home: home}, nil
	case ToolGoose:
		return &goose{home: home}, nil
	case ToolIFlow:
		return &iflow{home: home}, nil
	case ToolOpenClaw:
		return &openClaw{home: home}, nil
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

func userHome() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return h
}

func joinHome(home string, parts ...string) string {
	return filepath.Join(append([]string{home}, parts...)...)
}
