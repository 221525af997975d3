package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codelens.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, ""))

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.Equal(t, 8900, cfg.Server.Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeTempConfig(t, `
[proxy]
url = "http://review.internal:9000"

[ai]
api_key = "sk-test"
model = "gpt-4o"
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "http://review.internal:9000", cfg.Proxy.URL)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CODELENS_PROXY_URL", "http://from-env:8080")

	cfg, err := LoadConfig(writeTempConfig(t, ""))

	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8080", cfg.Proxy.URL)
}

func TestLoadConfigEnvOverrideUnderscoreFields(t *testing.T) {
	t.Setenv("CODELENS_AI_API_KEY", "sk-from-env")
	t.Setenv("CODELENS_AI_MAX_TOKENS", "4000")
	t.Setenv("CODELENS_SERVER_RATE_LIMIT", "2.5")

	cfg, err := LoadConfig(writeTempConfig(t, ""))

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.AI.APIKey)
	assert.Equal(t, 4000, cfg.AI.MaxTokens)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
}

func TestLoadConfigEnvBeatsFile(t *testing.T) {
	t.Setenv("CODELENS_AI_API_KEY", "sk-from-env")

	path := writeTempConfig(t, `
[ai]
api_key = "sk-from-file"
`)
	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.AI.APIKey)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))

	assert.Error(t, err)
}

func TestValidateRequiresKeyOrProxy(t *testing.T) {
	var cfg Config
	cfg.Server.Port = 8900

	assert.Error(t, Validate(&cfg))

	cfg.Proxy.URL = "http://localhost:8900"
	assert.NoError(t, Validate(&cfg))

	cfg.Proxy.URL = ""
	cfg.AI.APIKey = "sk-abc"
	assert.NoError(t, Validate(&cfg))
}

func TestValidateRejectsMalformedKey(t *testing.T) {
	var cfg Config
	cfg.Server.Port = 8900
	cfg.AI.APIKey = "not-a-key"

	assert.Error(t, Validate(&cfg))
}

func TestValidateRejectsBadPort(t *testing.T) {
	var cfg Config
	cfg.Server.Port = -1
	cfg.AI.APIKey = "sk-abc"

	assert.Error(t, Validate(&cfg))
}

func TestInitConfigRefusesOverwrite(t *testing.T) {
	path := writeTempConfig(t, "existing")

	assert.Error(t, InitConfig(path))
}

func TestInitConfigWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.toml")

	require.NoError(t, InitConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8900", cfg.Proxy.URL)
}
