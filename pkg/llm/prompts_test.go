package llm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptsConfig_GetSystemPrompts(t *testing.T) {
	tests := []struct {
		name     string
		config   PromptsConfig
		expected string
	}{
		{
			name:     "empty system prompts",
			config:   PromptsConfig{System: nil},
			expected: "",
		},
		{
			name:     "single system prompt",
			config:   PromptsConfig{System: []string{"You are a helpful assistant."}},
			expected: "You are a helpful assistant.",
		},
		{
			name: "multiple system prompts",
			config: PromptsConfig{System: []string{
				"You are a helpful assistant.",
				"Always be polite.",
				"Provide accurate information.",
			}},
			expected: "You are a helpful assistant.\nAlways be polite.\nProvide accurate information.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetSystemPrompts()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPromptsConfig_GetUserPrompts(t *testing.T) {
	tests := []struct {
		name     string
		config   PromptsConfig
		expected string
	}{
		{
			name:     "empty user prompts",
			config:   PromptsConfig{User: nil},
			expected: "",
		},
		{
			name:     "single user prompt",
			config:   PromptsConfig{User: []string{"What is the weather today?"}},
			expected: "What is the weather today?",
		},
		{
			name: "multiple user prompts",
			config: PromptsConfig{User: []string{
				"What is the weather today?",
				"Can you help me with coding?",
				"Tell me a joke.",
			}},
			expected: "What is the weather today?\nCan you help me with coding?\nTell me a joke.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetUserPrompts()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPromptsConfig_HasSystemPrompts(t *testing.T) {
	tests := []struct {
		name     string
		config   PromptsConfig
		expected bool
	}{
		{
			name:     "no system prompts",
			config:   PromptsConfig{System: nil},
			expected: false,
		},
		{
			name:     "empty system prompts slice",
			config:   PromptsConfig{System: []string{}},
			expected: false,
		},
		{
			name:     "has system prompts",
			config:   PromptsConfig{System: []string{"You are a helpful assistant."}},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.HasSystemPrompts()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPromptsConfig_HasUserPrompts(t *testing.T) {
	tests := []struct {
		name     string
		config   PromptsConfig
		expected bool
	}{
		{
			name:     "no user prompts",
			config:   PromptsConfig{User: nil},
			expected: false,
		},
		{
			name:     "empty user prompts slice",
			config:   PromptsConfig{User: []string{}},
			expected: false,
		},
		{
			name:     "has user prompts",
			config:   PromptsConfig{User: []string{"What is the weather?"}},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.HasUserPrompts()
			assert.Equal(t, tt.expected, result)
		})
	}
}


func TestParsePrompts(t *testing.T) {
	data := []byte(`model: gpt-4o
system:
  - You are a helpful assistant.
  - Always be polite.
user:
  - What is the weather?
`)

	cfg, err := ParsePrompts(data)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "You are a helpful assistant.\nAlways be polite.", cfg.GetSystemPrompts())
	assert.Equal(t, "What is the weather?", cfg.GetUserPrompts())

	_, err = ParsePrompts([]byte("system: [unclosed"))
	assert.Error(t, err)
}

func TestLoadPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("system:\n  - Be brief.\n"), 0o600))

	cfg, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.True(t, cfg.HasSystemPrompts())
	assert.False(t, cfg.HasUserPrompts())
	assert.Empty(t, cfg.Model)

	_, err = LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
