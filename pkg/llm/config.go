// Configuration types and request directive specifications
package llm

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultOpenAIModel = "gpt-4o"

const DefaultOpenAITimeout = 30 * time.Second

// ClientConfig holds configuration for creating completion transports
type ClientConfig struct {
	Provider   string            `json:"provider"` // openai, mock
	Model      string            `json:"model"`
	APIKey     string            `json:"api_key,omitempty"`
	BaseURL    string            `json:"base_url,omitempty"`
	Timeout    time.Duration     `json:"timeout,omitempty"`
	MaxRetries int               `json:"max_retries,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"` // Provider-specific configs
}

// ResponseFormat is the response_format directive attached to a user turn
type ResponseFormat struct {
	Type ResponseFormatType `json:"type"`
}

// ResponseFormatType defines the type of response format
type ResponseFormatType string

// ResponseFormatJSON constrains the reply to a single JSON object. It is the
// only response format a conversation accepts.
const ResponseFormatJSON ResponseFormatType = "json_object"

// NewJSONResponseFormat creates the structured-JSON response format
func NewJSONResponseFormat() *ResponseFormat {
	return &ResponseFormat{
		Type: ResponseFormatJSON,
	}
}

// Validate checks the format is the supported structured-JSON marker
func (f *ResponseFormat) Validate() error {
	if f == nil {
		return nil
	}
	if f.Type != ResponseFormatJSON {
		return Errorf(ErrConfig, "response_format %q is not allowed, must be %q", f.Type, ResponseFormatJSON)
	}
	return nil
}

// ToolChoice is the tool_choice directive attached to a user turn.
// The zero value means unset.
type ToolChoice string

const (
	ToolChoiceUnset ToolChoice = ""
	ToolChoiceNone  ToolChoice = "none"
	ToolChoiceAuto  ToolChoice = "auto"
)

// Validate checks the choice is unset or one of none/auto
func (c ToolChoice) Validate() error {
	switch c {
	case ToolChoiceUnset, ToolChoiceNone, ToolChoiceAuto:
		return nil
	default:
		return Errorf(ErrConfig, "tool_choice %q not in [none, auto]", string(c))
	}
}

// parseTimeoutFromEnv parses timeout from environment variable with fallback to default
func parseTimeoutFromEnv(envVar string, defaultTimeout time.Duration) time.Duration {
	if timeoutStr := os.Getenv(envVar); timeoutStr != "" {
		if timeoutSecs, err := strconv.Atoi(timeoutStr); err == nil && timeoutSecs > 0 {
			return time.Duration(timeoutSecs) * time.Second
		}
	}
	return defaultTimeout
}

// GetConfigFromEnv builds a ClientConfig from the environment.
//
// LLM_PROVIDER selects the transport (default "openai"). OPENAI_API_KEY,
// OPENAI_BASE_URL, OPENAI_MODEL (or MODEL) and OPENAI_TIMEOUT (seconds)
// configure the OpenAI transport; LLM_MAX_RETRIES sets the retry budget.
func GetConfigFromEnv() ClientConfig {
	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = "openai"
	}

	model := DefaultOpenAIModel
	if customModel := os.Getenv("OPENAI_MODEL"); customModel != "" {
		model = customModel
	} else if customModel := os.Getenv("MODEL"); customModel != "" {
		model = customModel
	}

	cfg := ClientConfig{
		Provider: provider,
		Model:    model,
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		BaseURL:  os.Getenv("OPENAI_BASE_URL"),
		Timeout:  parseTimeoutFromEnv("OPENAI_TIMEOUT", DefaultOpenAITimeout),
	}

	// Some OpenAI-compatible endpoints don't require real keys
	if cfg.BaseURL != "" && cfg.APIKey == "" {
		cfg.APIKey = "dummy"
	}

	if retries, err := strconv.Atoi(os.Getenv("LLM_MAX_RETRIES")); err == nil && retries >= 0 {
		cfg.MaxRetries = retries
	}

	Logger().Debug("loaded client config from environment", "provider", cfg.Provider, "model", cfg.Model, "base_url", cfg.BaseURL)
	return cfg
}
