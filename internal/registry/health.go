package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultHealthTimeout bounds the whole health probe, candidates
// included.
const DefaultHealthTimeout = 3 * time.Second

// HealthOptions tunes a health probe.
type HealthOptions struct {
	// BaseURL, when set, is probed before the plan's well-known local
	// candidates.
	BaseURL string
	Timeout time.Duration
}

// HealthResult is advisory: an unreachable result never blocks a write,
// it only degrades the user-facing message.
type HealthResult struct {
	Reachable bool
	// URL is the first candidate that answered 2xx.
	URL string
	// Model is the currently loaded model when the endpoint reported
	// one, pre-fill material for a model prompt.
	Model string
}

// CheckHealth probes a local-server plan. Plans without the
// RequiresHealthCheck flag are assumed reachable. The first candidate
// answering any 2xx wins; when none answers within the timeout the
// result is Reachable=false.
func CheckHealth(ctx context.Context, plan Plan, opts HealthOptions) HealthResult {
	d, ok := Lookup(plan)
	if !ok || !d.RequiresHealthCheck {
		return HealthResult{Reachable: true}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var candidates []string
	if opts.BaseURL != "" {
		candidates = append(candidates, NormalizeURL(opts.BaseURL, plan, ProtocolOpenAI))
	}
	for _, port := range d.LocalPorts {
		candidates = append(candidates, fmt.Sprintf("http://localhost:%d/v1", port))
	}

	for _, base := range candidates {
		model, err := fetchModels(ctx, base)
		if err != nil {
			slog.Debug("health probe failed", "plan", plan, "url", base, "error", err)
			continue
		}
		return HealthResult{Reachable: true, URL: base, Model: model}
	}
	return HealthResult{}
}

// FetchLoadedModel asks an OpenAI-compatible endpoint which model is
// active. Used only to pre-fill a model-id prompt; failures collapse to
// ok=false.
func FetchLoadedModel(ctx context.Context, baseURL string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, DefaultHealthTimeout)
	defer cancel()
	model, err := fetchModels(ctx, baseURL)
	if err != nil || model == "" {
		return "", false
	}
	return model, true
}

func fetchModels(ctx context.Context, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/models", nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	// A 2xx with an unexpected body still counts as reachable.
	if err := json.Unmarshal(body, &result); err != nil || len(result.Data) == 0 {
		return "", nil
	}
	return result.Data[0].ID, nil
}
