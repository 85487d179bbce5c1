// Package config loads the mongrate.yaml configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the mongrate.yaml configuration.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Output   OutputConfig   `yaml:"output"`
}

// LLMConfig configures the chat endpoint used by the migration pipelines.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// AnalyzerConfig configures codebase analysis.
type AnalyzerConfig struct {
	Ignore []string `yaml:"ignore"`
}

// OutputConfig controls where reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			APIKey:      "${OPENAI_API_KEY}",
			Model:       "gpt-4o",
			Temperature: 0.2,
			MaxTokens:   4000,
		},
		Analyzer: AnalyzerConfig{
			Ignore: []string{
				".git/**",
				"target/**",
				"build/**",
				"out/**",
			},
		},
		Output: OutputConfig{
			Dir: "migration_output",
		},
	}
}

// Load reads a configuration file from the given path. Missing fields are
// filled with defaults, and ${VAR} references are resolved from the
// environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "migration_output"
	}

	cfg.Resolve()
	return cfg, nil
}

var envRefRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// Resolve expands ${VAR} and ${VAR:-default} references in string fields
// from the environment. An unset variable without a default resolves to the
// empty string.
func (c *Config) Resolve() {
	c.LLM.BaseURL = resolveEnv(c.LLM.BaseURL)
	c.LLM.APIKey = resolveEnv(c.LLM.APIKey)
	c.LLM.Model = resolveEnv(c.LLM.Model)
	c.Output.Dir = resolveEnv(c.Output.Dir)
}

func resolveEnv(s string) string {
	return envRefRe.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRefRe.FindStringSubmatch(ref)
		if value, ok := os.LookupEnv(m[1]); ok {
			return value
		}
		if strings.HasPrefix(m[2], ":-") {
			return m[3]
		}
		return ""
	})
}
