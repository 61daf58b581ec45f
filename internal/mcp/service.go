// Package mcp describes the MCP services coder-link can install into a
// tool's config. It only models service descriptors and their
// translation inputs; speaking the MCP protocol itself is out of scope.
package mcp

import "fmt"

// Transport is how a tool launches or reaches an MCP service.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportSSE            Transport = "sse"
	TransportStreamableHTTP Transport = "streamable-http"
)

// Default auth injection points used when a service requires the
// active provider's API key but does not name its own.
const (
	DefaultAuthEnvVar = "CODERLINK_API_KEY"
	DefaultAuthHeader = "Authorization"
	DefaultAuthScheme = "Bearer"
)

// Service is a transport-neutral MCP service descriptor. Adapters
// translate it into each tool's own schema.
type Service struct {
	ID          string
	DisplayName string
	Transport   Transport

	// stdio
	Command string
	Args    []string
	Env     map[string]string

	// sse / streamable-http
	URL     string
	Headers map[string]string

	// RequiresAuth injects the active provider's API key: into Env at
	// AuthEnvVar for stdio services, into Headers at AuthHeader with
	// AuthScheme for http-like ones.
	RequiresAuth bool
	AuthEnvVar   string
	AuthHeader   string
	AuthScheme   string
}

// Validate checks the descriptor has the fields its transport needs.
// Raised before any write, so a bad catalog entry never produces a
// best-guess config shape.
func (s Service) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("mcp service missing id")
	}
	switch s.Transport {
	case TransportStdio:
		if s.Command == "" {
			return fmt.Errorf("mcp service %s: stdio transport requires a command", s.ID)
		}
	case TransportSSE, TransportStreamableHTTP:
		if s.URL == "" {
			return fmt.Errorf("mcp service %s: %s transport requires a URL", s.ID, s.Transport)
		}
	default:
		return fmt.Errorf("mcp service %s: unknown transport %q", s.ID, s.Transport)
	}
	return nil
}

// ResolveEnv returns the service's env map with the API key injected
// when required. The input map is never mutated.
func (s Service) ResolveEnv(apiKey string) map[string]string {
	env := make(map[string]string, len(s.Env)+1)
	for k, v := range s.Env {
		env[k] = v
	}
	if s.RequiresAuth && s.Transport == TransportStdio {
		name := s.AuthEnvVar
		if name == "" {
			name = DefaultAuthEnvVar
		}
		env[name] = apiKey
	}
	return env
}

// ResolveHeaders returns the service's headers with auth injected when
// required. The input map is never mutated.
func (s Service) ResolveHeaders(apiKey string) map[string]string {
	headers := make(map[string]string, len(s.Headers)+1)
	for k, v := range s.Headers {
		headers[k] = v
	}
	if s.RequiresAuth && s.Transport != TransportStdio {
		header := s.AuthHeader
		if header == "" {
			header = DefaultAuthHeader
		}
		scheme := s.AuthScheme
		if scheme == "" {
			scheme = DefaultAuthScheme
		}
		value := apiKey
		if scheme != "" {
			value = scheme + " " + apiKey
		}
		headers[header] = value
	}
	return headers
}

var builtin = []Service{
	{
		ID:          "context7",
		DisplayName: "Context7 Docs",
		Transport:   TransportStdio,
		Command:     "npx",
		Args:        []string{"-y", "@upstash/context7-mcp"},
	},
	{
		ID:          "filesystem",
		DisplayName: "Filesystem",
		Transport:   TransportStdio,
		Command:     "npx",
		Args:        []string{"-y", "@modelcontextprotocol/server-filesystem", "."},
	},
	{
		ID:           "zai-mcp",
		DisplayName:  "Z.AI Vision",
		Transport:    TransportStreamableHTTP,
		URL:          "https://api.z.ai/api/mcp/v1",
		RequiresAuth: true,
	},
	{
		ID:           "web-search",
		DisplayName:  "Web Search",
		Transport:    TransportSSE,
		URL:          "https://api.z.ai/api/mcp/web_search/sse",
		RequiresAuth: true,
		AuthHeader:   "Authorization",
		AuthScheme:   "Bearer",
	},
}

// Builtin returns the catalog of services coder-link knows how to
// install.
func Builtin() []Service {
	out := make([]Service, len(builtin))
	copy(out, builtin)
	return out
}

// BuiltinByID looks up one builtin service.
func BuiltinByID(id string) (Service, bool) {
	for _, s := range builtin {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// BuiltinIDs returns the ids of every builtin service.
func BuiltinIDs() []string {
	out := make([]string, len(builtin))
	for i, s := range builtin {
		out[i] = s.ID
	}
	return out
}
