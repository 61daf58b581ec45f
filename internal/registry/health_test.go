package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckHealthNonLocalPlan(t *testing.T) {
	res := CheckHealth(context.Background(), PlanOpenRouter, HealthOptions{})
	if !res.Reachable {
		t.Error("non-local plan should skip probing and report reachable")
	}
}

func TestCheckHealthReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":[{"id":"qwen/qwen3-coder-30b"}]}`))
	}))
	defer srv.Close()

	res := CheckHealth(context.Background(), PlanLMStudio, HealthOptions{BaseURL: srv.URL + "/v1"})
	if !res.Reachable {
		t.Fatal("server up but probe reports unreachable")
	}
	if res.Model != "qwen/qwen3-coder-30b" {
		t.Errorf("Model = %q", res.Model)
	}
}

func TestCheckHealthUnreachable(t *testing.T) {
	// Ports that nothing listens on; keep the timeout tight.
	res := CheckHealth(context.Background(), PlanLMStudio, HealthOptions{
		BaseURL: "http://127.0.0.1:1/v1",
		Timeout: 300 * time.Millisecond,
	})
	if res.Reachable && res.URL == "http://127.0.0.1:1/v1" {
		t.Error("probe reported the dead candidate reachable")
	}
}

func TestFetchLoadedModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"glm-4.6"}]}`))
	}))
	defer srv.Close()

	model, ok := FetchLoadedModel(context.Background(), srv.URL)
	if !ok || model != "glm-4.6" {
		t.Errorf("FetchLoadedModel = (%q, %v), want (glm-4.6, true)", model, ok)
	}

	if _, ok := FetchLoadedModel(context.Background(), "http://127.0.0.1:1"); ok {
		t.Error("FetchLoadedModel against dead endpoint reported ok")
	}
}
