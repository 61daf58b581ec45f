package registry

import (
	"errors"
	"testing"
)

func TestResolveBaseURLPriority(t *testing.T) {
	tests := []struct {
		name  string
		plan  Plan
		proto Protocol
		ov    *Overrides
		want  string
	}{
		{"default_openai", PlanGLMGlobal, ProtocolOpenAI, nil, "https://api.z.ai/api/coding/paas/v4"},
		{"default_anthropic", PlanGLMGlobal, ProtocolAnthropic, nil, "https://api.z.ai/api/anthropic"},
		{"generic_override", PlanKimi, ProtocolOpenAI, &Overrides{BaseURL: "https://api.moonshot.ai/v1"}, "https://api.moonshot.ai/v1"},
		{"protocol_override_wins", PlanGLMGlobal, ProtocolAnthropic,
			&Overrides{BaseURL: "https://example.com/a", AnthropicBaseURL: "https://example.com/b"},
			"https://example.com/b"},
		// Generic OpenAI-style override normalized for the Anthropic dialect.
		{"openrouter_anthropic_from_v1", PlanOpenRouter, ProtocolAnthropic,
			&Overrides{BaseURL: "https://openrouter.ai/api/v1"}, "https://openrouter.ai/api"},
		{"glm_anthropic_from_openai_path", PlanGLMGlobal, ProtocolAnthropic,
			&Overrides{BaseURL: "https://api.z.ai/api/coding/paas/v4"}, "https://api.z.ai/api/anthropic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBaseURL(tt.plan, tt.proto, tt.ov)
			if err != nil {
				t.Fatalf("ResolveBaseURL error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveBaseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveBaseURLNoAnthropicEndpoint(t *testing.T) {
	_, err := ResolveBaseURL(PlanKimi, ProtocolAnthropic, nil)
	if !errors.Is(err, ErrNoAnthropicEndpoint) {
		t.Errorf("ResolveBaseURL(kimi, anthropic) error = %v, want ErrNoAnthropicEndpoint", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		plan  Plan
		proto Protocol
		want  string
	}{
		{"trailing_slash", "https://api.z.ai/api/anthropic/", PlanGLMGlobal, ProtocolAnthropic, "https://api.z.ai/api/anthropic"},
		{"glm_cn_swap", "https://open.bigmodel.cn/api/paas/v4", PlanGLMChina, ProtocolAnthropic, "https://open.bigmodel.cn/api/anthropic"},
		{"glm_cn_swap_back", "https://open.bigmodel.cn/api/anthropic", PlanGLMChina, ProtocolOpenAI, "https://open.bigmodel.cn/api/paas/v4"},
		{"lmstudio_ensure_v1", "http://localhost:1234", PlanLMStudio, ProtocolOpenAI, "http://localhost:1234/v1"},
		{"lmstudio_strip_v1", "http://localhost:1234/v1", PlanLMStudio, ProtocolAnthropic, "http://localhost:1234"},
		{"zenmux_anthropic", "https://zenmux.ai/api/v1", PlanZenMux, ProtocolAnthropic, "https://zenmux.ai/api/anthropic"},
		{"zenmux_openai", "https://zenmux.ai/api/anthropic", PlanZenMux, ProtocolOpenAI, "https://zenmux.ai/api/v1"},
		{"no_family_rule", "https://api.moonshot.cn/v1", PlanKimi, ProtocolOpenAI, "https://api.moonshot.cn/v1"},
		{"empty", "", PlanKimi, ProtocolOpenAI, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.url, tt.plan, tt.proto)
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
			// Normalization must be idempotent.
			if again := NormalizeURL(got, tt.plan, tt.proto); again != got {
				t.Errorf("NormalizeURL not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeCanonicalUnchanged(t *testing.T) {
	for _, d := range Descriptors() {
		if got := NormalizeURL(d.OpenAIBaseURL, d.Plan, ProtocolOpenAI); got != d.OpenAIBaseURL {
			t.Errorf("%s: canonical openai URL changed: %q -> %q", d.Plan, d.OpenAIBaseURL, got)
		}
		if d.SupportsAnthropic() {
			if got := NormalizeURL(d.AnthropicBaseURL, d.Plan, ProtocolAnthropic); got != d.AnthropicBaseURL {
				t.Errorf("%s: canonical anthropic URL changed: %q -> %q", d.Plan, d.AnthropicBaseURL, got)
			}
		}
	}
}

func TestDetectPlan(t *testing.T) {
	tests := []struct {
		url    string
		want   Plan
		wantOK bool
	}{
		{"https://api.z.ai/api/coding/paas/v4/", PlanGLMGlobal, true},
		{"HTTPS://OPENROUTER.AI/API/V1", PlanOpenRouter, true},
		{"http://127.0.0.1:1234/v1", PlanLMStudio, true},
		{"https://dashscope.aliyuncs.com/compatible-mode/v1", PlanAlibabaAPI, true},
		{"https://api.example.com/v1", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectPlan(tt.url)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("DetectPlan(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}

// Detection must be a left-inverse of resolution for canonical URLs.
func TestDetectInvertsResolve(t *testing.T) {
	for _, plan := range Plans() {
		url, err := ResolveBaseURL(plan, ProtocolOpenAI, nil)
		if err != nil {
			t.Fatalf("%s: %v", plan, err)
		}
		got, ok := DetectPlan(url)
		if !ok || got != plan {
			t.Errorf("DetectPlan(%q) = (%q, %v), want (%q, true)", url, got, ok, plan)
		}
	}
}

func TestSettingsMerge(t *testing.T) {
	s, err := Settings(PlanGLMGlobal, &Overrides{Model: "glm-4.5"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Model != "glm-4.5" {
		t.Errorf("Model = %q, want override", s.Model)
	}
	// A bare model override drives the Anthropic entry too.
	if s.AnthropicModel != "glm-4.5" {
		t.Errorf("AnthropicModel = %q, want propagated override", s.AnthropicModel)
	}
	if s.AnthropicBaseURL != "https://api.z.ai/api/anthropic" {
		t.Errorf("AnthropicBaseURL = %q", s.AnthropicBaseURL)
	}

	s, err = Settings(PlanGLMGlobal, &Overrides{Model: "a", AnthropicModel: "b", MaxContextSize: 9})
	if err != nil {
		t.Fatal(err)
	}
	if s.Model != "a" || s.AnthropicModel != "b" || s.MaxContextSize != 9 {
		t.Errorf("Settings = %+v, want explicit overrides kept", s)
	}
}

func TestSettingsOpenAIOnlyPlan(t *testing.T) {
	s, err := Settings(PlanKimi, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.AnthropicBaseURL != "" {
		t.Errorf("AnthropicBaseURL = %q, want empty for openai-only plan", s.AnthropicBaseURL)
	}
	if s.Model == "" || s.BaseURL == "" || s.ProviderID == "" {
		t.Errorf("Settings = %+v, incomplete defaults", s)
	}
}
