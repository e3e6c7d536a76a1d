package llm

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptsConfig holds prompt configuration with system and user prompts
type PromptsConfig struct {
	Model  string   `yaml:"model,omitempty"`  // Target model id
	System []string `yaml:"system,omitempty"` // System prompts
	User   []string `yaml:"user,omitempty"`   // User prompts
}

// LoadPrompts reads a PromptsConfig from a YAML file
func LoadPrompts(path string) (PromptsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PromptsConfig{}, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return ParsePrompts(data)
}

// ParsePrompts decodes a PromptsConfig from YAML
func ParsePrompts(data []byte) (PromptsConfig, error) {
	var cfg PromptsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PromptsConfig{}, fmt.Errorf("failed to parse prompts: %w", err)
	}
	return cfg, nil
}

// GetSystemPrompts returns all system prompts joined with newlines
func (p PromptsConfig) GetSystemPrompts() string {
	return strings.Join(p.System, "\n")
}

// GetUserPrompts returns all user prompts joined with newlines
func (p PromptsConfig) GetUserPrompts() string {
	return strings.Join(p.User, "\n")
}

// HasSystemPrompts returns true if there are any system prompts configured
func (p PromptsConfig) HasSystemPrompts() bool {
	return len(p.System) > 0
}

// HasUserPrompts returns true if there are any user prompts configured
func (p PromptsConfig) HasUserPrompts() bool {
	return len(p.User) > 0
}
