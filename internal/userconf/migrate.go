package userconf

import (
	"log/slog"
	"strings"

	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// ClassifyAlibabaKey decides which Alibaba plan a bare credential
// belongs to. DashScope issues "sk-" keys; ModelScope tokens have no
// such prefix.
func ClassifyAlibabaKey(apiKey string) registry.Plan {
	if strings.HasPrefix(apiKey, "sk-") {
		return registry.PlanAlibabaAPI
	}
	return registry.PlanAlibaba
}

// migrate upgrades an on-disk record to the current version. Each step
// persists immediately so a crash mid-upgrade never repeats completed
// work. Every step is idempotent.
func (s *Store) migrate() error {
	if s.rec.Version >= currentVersion {
		return nil
	}

	if s.rec.Version < 2 {
		if err := s.migrateFlatLayout(); err != nil {
			return err
		}
	}
	if s.rec.Version < 3 {
		if err := s.migrateSharedProfiles(); err != nil {
			return err
		}
	}
	return nil
}

// migrateFlatLayout fans the pre-v2 single credential out into the
// per-plan providers map.
func (s *Store) migrateFlatLayout() error {
	if s.rec.LegacyAPIKey != "" && s.rec.Plan.Valid() {
		p := s.rec.Providers[s.rec.Plan]
		if p == nil {
			p = &ProviderProfile{}
			s.rec.Providers[s.rec.Plan] = p
		}
		if p.APIKey == "" {
			p.APIKey = s.rec.LegacyAPIKey
		}
		if p.BaseURL == "" {
			p.BaseURL = s.rec.LegacyBaseURL
		}
		if p.Model == "" {
			p.Model = s.rec.LegacyModel
		}
		slog.Info("migrated flat credential layout", "plan", s.rec.Plan)
	}
	s.rec.LegacyAPIKey = ""
	s.rec.LegacyBaseURL = ""
	s.rec.LegacyModel = ""
	s.rec.Version = 2
	return s.save()
}

// migrateSharedProfiles splits the two pre-v3 shared profiles into
// their own plans: a "kimi" block tagged with a source plan moves to
// that plan, and an "alibaba" block moves to alibaba-api when its key
// is a DashScope key.
func (s *Store) migrateSharedProfiles() error {
	if p, ok := s.rec.Providers[registry.PlanKimi]; ok && p.Source != "" {
		target := registry.Plan(p.Source)
		if target.Valid() && target != registry.PlanKimi {
			s.moveProfile(registry.PlanKimi, target)
		} else {
			p.Source = ""
		}
	}

	if p, ok := s.rec.Providers[registry.PlanAlibaba]; ok {
		if target := ClassifyAlibabaKey(p.APIKey); target != registry.PlanAlibaba {
			s.moveProfile(registry.PlanAlibaba, target)
		}
	}

	// Source tags never survive v3.
	for _, p := range s.rec.Providers {
		p.Source = ""
	}
	s.rec.Version = 3
	return s.save()
}

// moveProfile relocates a profile to another plan. An existing profile
// at the target wins; the source is dropped either way. The active
// plan follows the move.
func (s *Store) moveProfile(from, to registry.Plan) {
	p := s.rec.Providers[from]
	if p == nil {
		return
	}
	delete(s.rec.Providers, from)
	p.Source = ""
	if _, exists := s.rec.Providers[to]; !exists {
		s.rec.Providers[to] = p
	}
	if s.rec.Plan == from {
		s.rec.Plan = to
	}
	slog.Info("migrated shared provider profile", "from", from, "to", to)
}
