package registry

// Plan identifies one provider/credential profile. Plan values are
// wire-stable: detection and the on-disk user config depend on them, so
// a shipped value is never renamed.
type Plan string

const (
	PlanGLMGlobal  Plan = "glm-global"
	PlanGLMChina   Plan = "glm-china"
	PlanKimi       Plan = "kimi"
	PlanOpenRouter Plan = "openrouter"
	PlanNvidia     Plan = "nvidia"
	PlanLMStudio   Plan = "lmstudio"
	PlanAlibaba    Plan = "alibaba"
	PlanAlibabaAPI Plan = "alibaba-api"
	PlanZenMux     Plan = "zenmux"
)

// Protocol is the wire dialect a tool speaks to an LLM backend.
type Protocol string

const (
	ProtocolOpenAI    Protocol = "openai"
	ProtocolAnthropic Protocol = "anthropic"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := byPlan[p]
	return ok
}

// Plans returns every known plan in registration order.
func Plans() []Plan {
	out := make([]Plan, len(catalog))
	for i, d := range catalog {
		out[i] = d.Plan
	}
	return out
}
