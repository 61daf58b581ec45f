// Package userconf persists coder-link's own state: one credential
// profile per plan, the active plan, and the enable/disable toggles.
// Tool files are never read or written here.
package userconf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// currentVersion is bumped whenever a migration step is added.
const currentVersion = 3

// DefaultLanguage is the UI language a fresh store starts with.
const DefaultLanguage = "en"

// ProviderProfile is the stored per-plan credential plus optional
// overrides. Empty override fields fall back to registry defaults at
// resolve time.
type ProviderProfile struct {
	APIKey           string `yaml:"api_key,omitempty"`
	BaseURL          string `yaml:"base_url,omitempty"`
	AnthropicBaseURL string `yaml:"anthropic_base_url,omitempty"`
	Model            string `yaml:"model,omitempty"`
	AnthropicModel   string `yaml:"anthropic_model,omitempty"`
	ProviderID       string `yaml:"provider_id,omitempty"`
	MaxContextSize   int    `yaml:"max_context_size,omitempty"`

	// Source survives from pre-v3 files where one profile served
	// several providers. Migration consumes it.
	Source string `yaml:"source,omitempty"`
}

// Overrides converts the stored profile into the resolver's override
// bundle.
func (p ProviderProfile) Overrides() *registry.Overrides {
	return &registry.Overrides{
		BaseURL:          p.BaseURL,
		AnthropicBaseURL: p.AnthropicBaseURL,
		Model:            p.Model,
		AnthropicModel:   p.AnthropicModel,
		ProviderID:       p.ProviderID,
		MaxContextSize:   p.MaxContextSize,
	}
}

// Record is the on-disk shape of the user config file.
type Record struct {
	Version  int           `yaml:"version"`
	Language string        `yaml:"language,omitempty"`
	Plan     registry.Plan `yaml:"plan,omitempty"`
	LastTool string        `yaml:"last_tool,omitempty"`

	Providers map[registry.Plan]*ProviderProfile `yaml:"providers,omitempty"`

	// Empty slice means "all enabled".
	EnabledPlans []registry.Plan `yaml:"enabled_plans,omitempty"`
	EnabledTools []string        `yaml:"enabled_tools,omitempty"`

	// Pre-v2 flat layout, consumed by migration.
	LegacyAPIKey  string `yaml:"api_key,omitempty"`
	LegacyBaseURL string `yaml:"base_url,omitempty"`
	LegacyModel   string `yaml:"model,omitempty"`
}

// Store is the write-through handle to the user config file. Every
// mutator persists before returning. Safe for concurrent use within a
// process; cross-process writes are serialized by an advisory lock.
type Store struct {
	path string

	mu  sync.Mutex
	rec Record
}

// DefaultPath returns ~/.coderlink/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".coderlink", "config.yaml")
}

// Open loads the user config, running any pending migrations. A
// missing file yields an empty current-version store without writing
// anything.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	s := &Store{path: path}
	existed, err := configfile.ReadYAMLInto(path, &s.rec)
	if err != nil {
		return nil, err
	}
	if s.rec.Providers == nil {
		s.rec.Providers = make(map[registry.Plan]*ProviderProfile)
	}
	if s.rec.Language == "" {
		s.rec.Language = DefaultLanguage
	}
	if !existed {
		s.rec.Version = currentVersion
		return s, nil
	}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file's path.
func (s *Store) Path() string { return s.path }

func (s *Store) save() error {
	// Lock files live next to the config, so the directory must exist
	// before the first acquire.
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	lock, err := configfile.AcquireLock(s.path)
	if err != nil {
		return err
	}
	defer lock.Release()
	return configfile.WriteYAMLValue(s.path, &s.rec)
}

// Auth returns the active plan and its stored API key. A plan with no
// stored key returns an empty key.
func (s *Store) Auth() (registry.Plan, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan := s.rec.Plan
	if p, ok := s.rec.Providers[plan]; ok {
		return plan, p.APIKey
	}
	return plan, ""
}

// SetAuth stores a key for the plan and makes it the active plan.
func (s *Store) SetAuth(plan registry.Plan, apiKey string) error {
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q", plan)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.rec.Providers[plan]
	if p == nil {
		p = &ProviderProfile{}
		s.rec.Providers[plan] = p
	}
	p.APIKey = apiKey
	s.rec.Plan = plan
	return s.save()
}

// APIKeyFor returns the stored key for a plan, "" when none.
func (s *Store) APIKeyFor(plan registry.Plan) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.rec.Providers[plan]; ok {
		return p.APIKey
	}
	return ""
}

// SetAPIKeyFor stores a key without changing the active plan.
func (s *Store) SetAPIKeyFor(plan registry.Plan, apiKey string) error {
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q", plan)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.rec.Providers[plan]
	if p == nil {
		p = &ProviderProfile{}
		s.rec.Providers[plan] = p
	}
	p.APIKey = apiKey
	return s.save()
}

// Profile returns a copy of the stored profile for a plan.
func (s *Store) Profile(plan registry.Plan) (ProviderProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.rec.Providers[plan]; ok {
		return *p, true
	}
	return ProviderProfile{}, false
}

// SetProviderProfile replaces the stored profile for a plan.
func (s *Store) SetProviderProfile(plan registry.Plan, p ProviderProfile) error {
	if !plan.Valid() {
		return fmt.Errorf("unknown plan %q", plan)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.rec.Providers[plan] = &cp
	return s.save()
}

// ProviderSettings resolves the effective settings for a plan using its
// stored overrides.
func (s *Store) ProviderSettings(plan registry.Plan) (registry.ProviderSettings, error) {
	s.mu.Lock()
	var ov *registry.Overrides
	if p, ok := s.rec.Providers[plan]; ok {
		ov = p.Overrides()
	}
	s.mu.Unlock()
	return registry.Settings(plan, ov)
}

// RevokeAuth deletes a plan's stored profile. If it was the active
// plan, the active plan is cleared.
func (s *Store) RevokeAuth(plan registry.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rec.Providers[plan]; !ok && s.rec.Plan != plan {
		return nil
	}
	delete(s.rec.Providers, plan)
	if s.rec.Plan == plan {
		s.rec.Plan = ""
	}
	return s.save()
}

// PlanEnabled reports whether a plan shows up in interactive pickers.
// No explicit list means everything is enabled.
func (s *Store) PlanEnabled(plan registry.Plan) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rec.EnabledPlans) == 0 {
		return true
	}
	for _, p := range s.rec.EnabledPlans {
		if p == plan {
			return true
		}
	}
	return false
}

// SetEnabledPlans replaces the enabled-plan list. Nil re-enables
// everything.
func (s *Store) SetEnabledPlans(plans []registry.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.EnabledPlans = plans
	return s.save()
}

// ToolEnabled reports whether a tool shows up in interactive pickers.
func (s *Store) ToolEnabled(tool string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rec.EnabledTools) == 0 {
		return true
	}
	for _, t := range s.rec.EnabledTools {
		if t == tool {
			return true
		}
	}
	return false
}

// SetEnabledTools replaces the enabled-tool list. Nil re-enables
// everything.
func (s *Store) SetEnabledTools(tools []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.EnabledTools = tools
	return s.save()
}

// LastTool returns the tool the previous invocation targeted.
func (s *Store) LastTool() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.LastTool
}

// SetLastTool records the tool for next invocation's default.
func (s *Store) SetLastTool(tool string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.LastTool = tool
	return s.save()
}

// Language returns the stored UI language (DefaultLanguage when the
// user never picked one).
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Language
}

// SetLanguage stores the UI language.
func (s *Store) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.Language = lang
	return s.save()
}

// Snapshot returns a deep copy of the record for read-only display.
func (s *Store) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.rec
	out.Providers = make(map[registry.Plan]*ProviderProfile, len(s.rec.Providers))
	for k, v := range s.rec.Providers {
		cp := *v
		out.Providers[k] = &cp
	}
	return out
}
