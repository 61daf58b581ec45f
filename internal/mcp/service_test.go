package mcp

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		svc     Service
		wantErr string
	}{
		{"stdio_ok", Service{ID: "a", Transport: TransportStdio, Command: "npx"}, ""},
		{"stdio_no_command", Service{ID: "a", Transport: TransportStdio}, "requires a command"},
		{"sse_ok", Service{ID: "a", Transport: TransportSSE, URL: "https://x"}, ""},
		{"sse_no_url", Service{ID: "a", Transport: TransportSSE}, "requires a URL"},
		{"http_no_url", Service{ID: "a", Transport: TransportStreamableHTTP}, "requires a URL"},
		{"unknown_transport", Service{ID: "a", Transport: "grpc"}, "unknown transport"},
		{"missing_id", Service{Transport: TransportStdio, Command: "npx"}, "missing id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.svc.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveEnvInjectsDefaultAuthKey(t *testing.T) {
	svc := Service{ID: "a", Transport: TransportStdio, Command: "npx", RequiresAuth: true}
	env := svc.ResolveEnv("sk-test")
	if env[DefaultAuthEnvVar] != "sk-test" {
		t.Errorf("env[%s] = %q, want injected key", DefaultAuthEnvVar, env[DefaultAuthEnvVar])
	}
}

func TestResolveEnvCustomVarAndNoMutation(t *testing.T) {
	svc := Service{
		ID: "a", Transport: TransportStdio, Command: "npx",
		RequiresAuth: true, AuthEnvVar: "MY_KEY",
		Env: map[string]string{"FOO": "bar"},
	}
	env := svc.ResolveEnv("k")
	if env["MY_KEY"] != "k" || env["FOO"] != "bar" {
		t.Errorf("ResolveEnv = %v", env)
	}
	if _, ok := svc.Env["MY_KEY"]; ok {
		t.Error("ResolveEnv mutated the descriptor's env map")
	}
}

func TestResolveHeaders(t *testing.T) {
	svc := Service{ID: "a", Transport: TransportStreamableHTTP, URL: "https://x", RequiresAuth: true}
	h := svc.ResolveHeaders("sk-test")
	if h[DefaultAuthHeader] != "Bearer sk-test" {
		t.Errorf("headers = %v, want default bearer auth", h)
	}

	// No auth requested: headers passed through untouched.
	svc.RequiresAuth = false
	if h := svc.ResolveHeaders("sk-test"); len(h) != 0 {
		t.Errorf("headers = %v, want empty", h)
	}
}

func TestBuiltinCatalogValid(t *testing.T) {
	for _, s := range Builtin() {
		if err := s.Validate(); err != nil {
			t.Errorf("builtin %s invalid: %v", s.ID, err)
		}
	}
	if _, ok := BuiltinByID("context7"); !ok {
		t.Error("context7 missing from builtin catalog")
	}
	if _, ok := BuiltinByID("nope"); ok {
		t.Error("unknown id resolved")
	}
}
