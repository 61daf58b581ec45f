package registry

import (
	"fmt"
	"strings"
)

// Overrides is the optional user-supplied bundle merged over registry
// defaults when computing effective settings.
type Overrides struct {
	BaseURL          string
	AnthropicBaseURL string
	Model            string
	AnthropicModel   string
	ProviderID       string
	MaxContextSize   int
}

// ProviderSettings is the fully resolved provider configuration for one
// invocation. It is recomputed on every call and never persisted
// verbatim.
type ProviderSettings struct {
	Plan             Plan
	BaseURL          string
	AnthropicBaseURL string
	Model            string
	AnthropicModel   string
	ProviderID       string
	Source           string
	MaxContextSize   int
}

// ErrNoAnthropicEndpoint is returned when an Anthropic-dialect URL is
// requested for an OpenAI-only plan.
var ErrNoAnthropicEndpoint = fmt.Errorf("plan has no anthropic endpoint")

// ResolveBaseURL picks the effective base URL for a plan and protocol.
// Priority: protocol-specific override, then generic override, then the
// registry default. Overrides are passed through NormalizeURL.
func ResolveBaseURL(plan Plan, proto Protocol, ov *Overrides) (string, error) {
	d, ok := Lookup(plan)
	if !ok {
		return "", fmt.Errorf("unknown plan %q", plan)
	}
	var candidate string
	if ov != nil {
		if proto == ProtocolAnthropic && ov.AnthropicBaseURL != "" {
			candidate = ov.AnthropicBaseURL
		}
		if candidate == "" {
			candidate = ov.BaseURL
		}
	}
	if candidate != "" {
		return NormalizeURL(candidate, plan, proto), nil
	}
	if proto == ProtocolAnthropic {
		if d.AnthropicBaseURL == "" {
			return "", fmt.Errorf("%s: %w", plan, ErrNoAnthropicEndpoint)
		}
		return d.AnthropicBaseURL, nil
	}
	return d.OpenAIBaseURL, nil
}

// NormalizeURL rewrites a user-supplied URL so it matches the path
// conventions the plan's provider family expects for the target
// protocol. Normalizing an already-canonical URL returns it unchanged.
func NormalizeURL(raw string, plan Plan, proto Protocol) string {
	u := strings.TrimSpace(raw)
	for strings.HasSuffix(u, "/") {
		u = strings.TrimSuffix(u, "/")
	}
	if u == "" {
		return u
	}
	d, ok := Lookup(plan)
	if !ok {
		return u
	}

	switch plan {
	case PlanGLMGlobal, PlanGLMChina:
		// Shared host, different path roots per protocol.
		oaPath := urlPath(d.OpenAIBaseURL)
		anPath := urlPath(d.AnthropicBaseURL)
		if proto == ProtocolAnthropic {
			if strings.HasSuffix(u, oaPath) {
				u = strings.TrimSuffix(u, oaPath) + anPath
			}
		} else if strings.HasSuffix(u, anPath) {
			u = strings.TrimSuffix(u, anPath) + oaPath
		}
	case PlanOpenRouter, PlanLMStudio:
		// OpenAI dialect lives under /v1, Anthropic at the root.
		if proto == ProtocolAnthropic {
			u = strings.TrimSuffix(u, "/v1")
		} else if !strings.HasSuffix(u, "/v1") {
			u += "/v1"
		}
	case PlanZenMux:
		if proto == ProtocolAnthropic {
			u = strings.TrimSuffix(u, "/v1")
			if !strings.HasSuffix(u, "/anthropic") {
				u += "/anthropic"
			}
		} else if strings.HasSuffix(u, "/anthropic") {
			u = strings.TrimSuffix(u, "/anthropic") + "/v1"
		} else if !strings.HasSuffix(u, "/v1") {
			u += "/v1"
		}
	}
	return u
}

// DetectPlan reverse-maps a stored base URL to the plan it belongs to.
// Patterns are tested in catalog registration order; the first match
// wins. Unrecognized hosts report ok=false — callers must not guess.
func DetectPlan(rawURL string) (Plan, bool) {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	for strings.HasSuffix(u, "/") {
		u = strings.TrimSuffix(u, "/")
	}
	if u == "" {
		return "", false
	}
	for _, d := range catalog {
		for _, pat := range d.DetectPatterns {
			if strings.Contains(u, pat) {
				return d.Plan, true
			}
		}
	}
	return "", false
}

// Settings merges registry defaults with overrides into the effective
// per-invocation settings. A model override with no separate Anthropic
// model also drives the Anthropic entry, so one "change model" action
// affects both protocol blocks where a tool keeps two.
func Settings(plan Plan, ov *Overrides) (ProviderSettings, error) {
	d, ok := Lookup(plan)
	if !ok {
		return ProviderSettings{}, fmt.Errorf("unknown plan %q", plan)
	}

	s := ProviderSettings{Plan: plan, Source: string(plan)}

	base, err := ResolveBaseURL(plan, ProtocolOpenAI, ov)
	if err != nil {
		return ProviderSettings{}, err
	}
	s.BaseURL = base

	if d.SupportsAnthropic() || (ov != nil && ov.AnthropicBaseURL != "") {
		a, err := ResolveBaseURL(plan, ProtocolAnthropic, ov)
		if err != nil {
			return ProviderSettings{}, err
		}
		s.AnthropicBaseURL = a
	}

	s.Model = d.DefaultModel
	s.AnthropicModel = d.DefaultModel
	s.ProviderID = d.ShortName
	s.MaxContextSize = d.MaxContextSize
	if ov != nil {
		if ov.Model != "" {
			s.Model = ov.Model
			s.AnthropicModel = ov.Model
		}
		if ov.AnthropicModel != "" {
			s.AnthropicModel = ov.AnthropicModel
		}
		if ov.ProviderID != "" {
			s.ProviderID = ov.ProviderID
		}
		if ov.MaxContextSize > 0 {
			s.MaxContextSize = ov.MaxContextSize
		}
	}
	return s, nil
}

// urlPath returns the path portion of a base URL ("" when none).
func urlPath(base string) string {
	rest := base
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[i:]
	}
	return ""
}
