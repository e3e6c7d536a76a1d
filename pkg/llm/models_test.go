package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupModel(t *testing.T) {
	tests := []struct {
		model     string
		known     bool
		maxTokens int
		vision    bool
	}{
		{model: "gpt-4o", known: true, maxTokens: 128000, vision: true},
		{model: "gpt-4", known: true, maxTokens: 128000},
		{model: "gpt-4-turbo-preview", known: true, maxTokens: 128000},
		{model: "gpt-3.5-turbo", known: true, maxTokens: 16385},
		{model: "llama3"},
		{model: ""},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			info, ok := LookupModel(tt.model)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.vision, SupportsVision(tt.model))

			_, err := RequireModel(tt.model)
			if !tt.known {
				assert.ErrorIs(t, err, ErrUnsupportedModel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.maxTokens, info.MaxTokens)
			assert.Equal(t, EncodingCL100K, info.Encoding)
			assert.True(t, info.SupportsTools)

			window, err := ContextWindow(tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.maxTokens, window)
		})
	}
}

func TestCountTokens(t *testing.T) {
	_, err := CountTokens("llama3", "hello")
	assert.ErrorIs(t, err, ErrUnsupportedModel)

	n, err := CountTokens("gpt-4o", "hello world")
	if err != nil {
		t.Skipf("tokenizer unavailable: %v", err)
	}
	assert.Equal(t, 2, n)

	empty, err := CountTokens("gpt-4o", "")
	require.NoError(t, err)
	assert.Equal(t, 0, empty)
}
