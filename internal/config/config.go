package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/codelens/internal/llm"
)

// Config represents the application configuration
type Config struct {
	General struct {
		Language string `koanf:"language"`
	} `koanf:"general"`

	Proxy struct {
		URL string `koanf:"url"`
	} `koanf:"proxy"`

	AI struct {
		APIKey      string  `koanf:"api_key"`
		Model       string  `koanf:"model"`
		Temperature float64 `koanf:"temperature"`
		MaxTokens   int     `koanf:"max_tokens"`
	} `koanf:"ai"`

	Server struct {
		Port      int     `koanf:"port"`
		RateLimit float64 `koanf:"rate_limit"`
	} `koanf:"server"`
}

// LoadConfig loads the configuration from defaults, an optional TOML file,
// and CODELENS_-prefixed environment variables, in that order.
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"ai.model":          "gpt-4o-mini",
		"ai.temperature":    0.7,
		"ai.max_tokens":     2000,
		"server.port":       8900,
		"server.rate_limit": 5,
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./codelens.toml", "$HOME/.codelens.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("CODELENS_", ".", func(s string) string {
		// Keys nest exactly one level (section.field), so only the first
		// underscore is a separator: AI_API_KEY maps to ai.api_key.
		key := strings.ToLower(strings.TrimPrefix(s, "CODELENS_"))
		return strings.Join(strings.SplitN(key, "_", 2), ".")
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig writes a sample configuration file.
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# CodeLens Configuration

[general]
language = "typescript"

[proxy]
# Trusted review service tried before any direct provider call.
url = "http://localhost:8900"

[ai]
api_key = "sk-your-api-key"
model = "gpt-4o-mini"
temperature = 0.7
max_tokens = 2000

[server]
port = 8900
rate_limit = 5
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate checks settings needed to serve requests. A missing API key is
// allowed when a proxy is configured, since the proxy holds its own key.
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}

	if config.AI.APIKey == "" && config.Proxy.URL == "" {
		return fmt.Errorf("either ai.api_key or proxy.url is required")
	}

	if config.AI.APIKey != "" && !llm.ValidCredential(config.AI.APIKey) {
		return fmt.Errorf(`ai.api_key must start with %q`, llm.CredentialPrefix)
	}

	return nil
}
