package userconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestMigrateFlatLayout(t *testing.T) {
	path := writeConfig(t, `version: 1
plan: glm-global
api_key: sk-old
base_url: https://api.z.ai/api/coding/paas/v4
`)
	s, err := Open(path)
	require.NoError(t, err)

	plan, key := s.Auth()
	assert.Equal(t, registry.PlanGLMGlobal, plan)
	assert.Equal(t, "sk-old", key)

	p, ok := s.Profile(registry.PlanGLMGlobal)
	require.True(t, ok)
	assert.Equal(t, "https://api.z.ai/api/coding/paas/v4", p.BaseURL)

	// The flat fields must be gone from the file, not just the struct.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var top map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &top))
	assert.NotContains(t, top, "api_key")
	assert.NotContains(t, top, "base_url")
	assert.Equal(t, 3, top["version"])
}

func TestMigrateKimiSourceSplit(t *testing.T) {
	path := writeConfig(t, `version: 2
plan: kimi
providers:
  kimi:
    api_key: sk-nv
    source: nvidia
`)
	s, err := Open(path)
	require.NoError(t, err)

	_, hasKimi := s.Profile(registry.PlanKimi)
	assert.False(t, hasKimi, "tagged kimi block must move away")

	p, ok := s.Profile(registry.PlanNvidia)
	require.True(t, ok)
	assert.Equal(t, "sk-nv", p.APIKey)
	assert.Empty(t, p.Source)

	plan, _ := s.Auth()
	assert.Equal(t, registry.PlanNvidia, plan, "active plan follows the move")
}

func TestMigrateKimiBogusSourceStays(t *testing.T) {
	path := writeConfig(t, `version: 2
providers:
  kimi:
    api_key: sk-k
    source: not-a-plan
`)
	s, err := Open(path)
	require.NoError(t, err)

	p, ok := s.Profile(registry.PlanKimi)
	require.True(t, ok)
	assert.Equal(t, "sk-k", p.APIKey)
	assert.Empty(t, p.Source, "stray tag cleared even when unresolvable")
}

func TestMigrateAlibabaKeyClassification(t *testing.T) {
	path := writeConfig(t, `version: 2
plan: alibaba
providers:
  alibaba:
    api_key: sk-dashscope-123
`)
	s, err := Open(path)
	require.NoError(t, err)

	_, hasModelScope := s.Profile(registry.PlanAlibaba)
	assert.False(t, hasModelScope)

	p, ok := s.Profile(registry.PlanAlibabaAPI)
	require.True(t, ok)
	assert.Equal(t, "sk-dashscope-123", p.APIKey)

	plan, _ := s.Auth()
	assert.Equal(t, registry.PlanAlibabaAPI, plan)
}

func TestMigrateAlibabaModelScopeKeyStays(t *testing.T) {
	path := writeConfig(t, `version: 2
providers:
  alibaba:
    api_key: ms-token-456
`)
	s, err := Open(path)
	require.NoError(t, err)

	p, ok := s.Profile(registry.PlanAlibaba)
	require.True(t, ok)
	assert.Equal(t, "ms-token-456", p.APIKey)
}

func TestMigrateExistingTargetWins(t *testing.T) {
	path := writeConfig(t, `version: 2
providers:
  alibaba:
    api_key: sk-moved
  alibaba-api:
    api_key: sk-already-there
`)
	s, err := Open(path)
	require.NoError(t, err)

	p, ok := s.Profile(registry.PlanAlibabaAPI)
	require.True(t, ok)
	assert.Equal(t, "sk-already-there", p.APIKey, "existing profile must not be clobbered")
	_, hasOld := s.Profile(registry.PlanAlibaba)
	assert.False(t, hasOld)
}

func TestMigrationIsIdempotent(t *testing.T) {
	path := writeConfig(t, `version: 1
plan: kimi
api_key: sk-k
`)
	_, err := Open(path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	s, err := Open(path)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	plan, key := s.Auth()
	assert.Equal(t, registry.PlanKimi, plan)
	assert.Equal(t, "sk-k", key)
}

func TestClassifyAlibabaKey(t *testing.T) {
	assert.Equal(t, registry.PlanAlibabaAPI, ClassifyAlibabaKey("sk-abc"))
	assert.Equal(t, registry.PlanAlibaba, ClassifyAlibabaKey("ms-abc"))
	assert.Equal(t, registry.PlanAlibaba, ClassifyAlibabaKey(""))
}
