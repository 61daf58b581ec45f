// Package registry is the canonical per-provider catalog: endpoints,
// defaults and detection patterns for every supported plan, plus the
// protocol-aware URL math (resolve, normalize, detect) that keeps the
// tool adapters free of per-provider special cases.
package registry

// Descriptor is the registry entry for one plan. The catalog is a
// process-wide static table, loaded once and never mutated.
//
// Invariant: a plan's DetectPatterns must not match another plan's
// canonical URLs (covered by tests).
type Descriptor struct {
	Plan        Plan
	DisplayName string
	ShortName   string

	// OpenAIBaseURL is always present. AnthropicBaseURL is empty for
	// plans that only speak the OpenAI dialect.
	OpenAIBaseURL    string
	AnthropicBaseURL string

	DefaultModel string
	CommonModels []string

	// DetectPatterns are URL substrings used for reverse detection,
	// tested in registration order across the catalog.
	DetectPatterns []string

	ExtendedThinking bool
	MaxOutputTokens  int
	MaxContextSize   int

	// RequiresHealthCheck marks local-server plans whose endpoint is
	// probed (advisory only) before use. LocalPorts are the candidate
	// ports for that probe.
	RequiresHealthCheck bool
	LocalPorts          []int
}

var catalog = []*Descriptor{
	{
		Plan:             PlanGLMGlobal,
		DisplayName:      "GLM Coding Plan (Global)",
		ShortName:        "glm",
		OpenAIBaseURL:    "https://api.z.ai/api/coding/paas/v4",
		AnthropicBaseURL: "https://api.z.ai/api/anthropic",
		DefaultModel:     "glm-4.6",
		CommonModels:     []string{"glm-4.6", "glm-4.5", "glm-4.5-air"},
		DetectPatterns:   []string{"api.z.ai"},
		ExtendedThinking: true,
		MaxOutputTokens:  98304,
		MaxContextSize:   204800,
	},
	{
		Plan:             PlanGLMChina,
		DisplayName:      "GLM Coding Plan (China)",
		ShortName:        "glm-cn",
		OpenAIBaseURL:    "https://open.bigmodel.cn/api/paas/v4",
		AnthropicBaseURL: "https://open.bigmodel.cn/api/anthropic",
		DefaultModel:     "glm-4.6",
		CommonModels:     []string{"glm-4.6", "glm-4.5", "glm-4.5-air"},
		DetectPatterns:   []string{"open.bigmodel.cn", "bigmodel.cn"},
		ExtendedThinking: true,
		MaxOutputTokens:  98304,
		MaxContextSize:   204800,
	},
	{
		Plan:           PlanKimi,
		DisplayName:    "Kimi (Moonshot)",
		ShortName:      "kimi",
		OpenAIBaseURL:  "https://api.moonshot.cn/v1",
		DefaultModel:   "kimi-k2-0905-preview",
		CommonModels:   []string{"kimi-k2-0905-preview", "kimi-k2-turbo-preview", "moonshot-v1-128k"},
		DetectPatterns: []string{"api.moonshot.cn", "api.moonshot.ai"},
		MaxContextSize: 262144,
	},
	{
		Plan:             PlanOpenRouter,
		DisplayName:      "OpenRouter",
		ShortName:        "openrouter",
		OpenAIBaseURL:    "https://openrouter.ai/api/v1",
		AnthropicBaseURL: "https://openrouter.ai/api",
		DefaultModel:     "anthropic/claude-sonnet-4.5",
		CommonModels: []string{
			"anthropic/claude-sonnet-4.5",
			"openai/gpt-4o",
			"google/gemini-2.5-pro",
			"deepseek/deepseek-chat-v3.1",
			"qwen/qwen3-coder",
		},
		DetectPatterns:   []string{"openrouter.ai"},
		ExtendedThinking: true,
		MaxContextSize:   200000,
	},
	{
		Plan:           PlanNvidia,
		DisplayName:    "NVIDIA NIM",
		ShortName:      "nvidia",
		OpenAIBaseURL:  "https://integrate.api.nvidia.com/v1",
		DefaultModel:   "moonshotai/kimi-k2-instruct",
		CommonModels:   []string{"moonshotai/kimi-k2-instruct", "deepseek-ai/deepseek-v3.1", "qwen/qwen3-coder-480b-a35b-instruct"},
		DetectPatterns: []string{"integrate.api.nvidia.com"},
		MaxContextSize: 131072,
	},
	{
		Plan:                PlanLMStudio,
		DisplayName:         "LM Studio (local)",
		ShortName:           "lmstudio",
		OpenAIBaseURL:       "http://localhost:1234/v1",
		AnthropicBaseURL:    "http://localhost:1234",
		DefaultModel:        "qwen/qwen3-coder-30b",
		CommonModels:        []string{"qwen/qwen3-coder-30b", "openai/gpt-oss-20b"},
		DetectPatterns:      []string{"localhost:1234", "127.0.0.1:1234"},
		MaxContextSize:      131072,
		RequiresHealthCheck: true,
		LocalPorts:          []int{1234, 1235, 8080},
	},
	{
		Plan:           PlanAlibaba,
		DisplayName:    "Alibaba ModelScope",
		ShortName:      "modelscope",
		OpenAIBaseURL:  "https://api-inference.modelscope.cn/v1",
		DefaultModel:   "Qwen/Qwen3-Coder-480B-A35B-Instruct",
		CommonModels:   []string{"Qwen/Qwen3-Coder-480B-A35B-Instruct", "ZhipuAI/GLM-4.6", "deepseek-ai/DeepSeek-V3.1"},
		DetectPatterns: []string{"modelscope.cn"},
		MaxContextSize: 131072,
	},
	{
		Plan:             PlanAlibabaAPI,
		DisplayName:      "Alibaba DashScope",
		ShortName:        "dashscope",
		OpenAIBaseURL:    "https://dashscope.aliyuncs.com/compatible-mode/v1",
		AnthropicBaseURL: "https://dashscope.aliyuncs.com/api/v2/apps/claude-code-proxy",
		DefaultModel:     "qwen3-coder-plus",
		CommonModels:     []string{"qwen3-coder-plus", "qwen3-max", "qwen-plus"},
		DetectPatterns:   []string{"dashscope.aliyuncs.com"},
		MaxContextSize:   1000000,
	},
	{
		Plan:             PlanZenMux,
		DisplayName:      "ZenMux",
		ShortName:        "zenmux",
		OpenAIBaseURL:    "https://zenmux.ai/api/v1",
		AnthropicBaseURL: "https://zenmux.ai/api/anthropic",
		DefaultModel:     "anthropic/claude-sonnet-4.5",
		CommonModels:     []string{"anthropic/claude-sonnet-4.5", "openai/gpt-5", "x-ai/grok-code-fast-1"},
		DetectPatterns:   []string{"zenmux.ai"},
		ExtendedThinking: true,
		MaxContextSize:   200000,
	},
}

var byPlan = func() map[Plan]*Descriptor {
	m := make(map[Plan]*Descriptor, len(catalog))
	for _, d := range catalog {
		m[d.Plan] = d
	}
	return m
}()

// Lookup returns the descriptor for a plan.
func Lookup(plan Plan) (*Descriptor, bool) {
	d, ok := byPlan[plan]
	return d, ok
}

// Descriptors returns the full catalog in registration order.
func Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// SupportsAnthropic reports whether the plan has a native
// Anthropic-dialect endpoint.
func (d *Descriptor) SupportsAnthropic() bool { return d.AnthropicBaseURL != "" }
