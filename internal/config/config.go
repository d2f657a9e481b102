package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration. Values come from an
// optional YAML file with environment variable overrides on top; provider
// API keys stay environment-only (GEMINI_API_KEY, OPENAI_API_KEY,
// OLLAMA_URL).
type Config struct {
	Port         string  `yaml:"port"`
	CatalogDir   string  `yaml:"catalog_dir"`
	MetadataPath string  `yaml:"metadata_path"`
	StaticDir    string  `yaml:"static_dir"`
	Provider     string  `yaml:"provider"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`

	// PromptPath optionally overrides the built-in matching instruction.
	PromptPath string `yaml:"prompt_path"`

	Auth AuthConfig `yaml:"auth"`
}

// AuthConfig holds the two secrets the login gate compares against.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads a config from the given path. A missing file is not an error:
// defaults plus environment overrides are returned.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Port:        "8888",
		CatalogDir:  "catalog",
		StaticDir:   "static",
		Provider:    "gemini",
		Temperature: 0.1,
	}
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Port, "STYLEMATCH_PORT")
	overrideString(&cfg.CatalogDir, "STYLEMATCH_CATALOG_DIR")
	overrideString(&cfg.MetadataPath, "STYLEMATCH_METADATA_PATH")
	overrideString(&cfg.StaticDir, "STYLEMATCH_STATIC_DIR")
	overrideString(&cfg.Provider, "STYLEMATCH_PROVIDER")
	overrideString(&cfg.Model, "STYLEMATCH_MODEL")
	overrideString(&cfg.PromptPath, "STYLEMATCH_PROMPT_PATH")
	overrideString(&cfg.Auth.Username, "AUTH_USERNAME")
	overrideString(&cfg.Auth.Password, "AUTH_PASSWORD")

	if v := os.Getenv("STYLEMATCH_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = t
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o"
	case "ollama":
		return "mistral-small3.2:24b"
	default:
		return "gemini-2.0-flash"
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
