// Model information and capabilities
package llm

// ModelInfo contains information about the model
type ModelInfo struct {
	Name           string `json:"name"`
	Provider       string `json:"provider"`
	MaxTokens      int    `json:"max_tokens"`
	Encoding       string `json:"encoding"`
	SupportsTools  bool   `json:"supports_tools"`
	SupportsVision bool   `json:"supports_vision"`
}

// EncodingCL100K is the tokenizer shared by every known model
const EncodingCL100K = "cl100k_base"

// knownModels is the fixed table used for capability checks and token accounting
var knownModels = map[string]ModelInfo{
	"gpt-4o": {
		Name:           "gpt-4o",
		Provider:       "openai",
		MaxTokens:      128000,
		Encoding:       EncodingCL100K,
		SupportsTools:  true,
		SupportsVision: true,
	},
	"gpt-4": {
		Name:          "gpt-4",
		Provider:      "openai",
		MaxTokens:     128000,
		Encoding:      EncodingCL100K,
		SupportsTools: true,
	},
	"gpt-4-turbo-preview": {
		Name:          "gpt-4-turbo-preview",
		Provider:      "openai",
		MaxTokens:     128000,
		Encoding:      EncodingCL100K,
		SupportsTools: true,
	},
	"gpt-3.5-turbo": {
		Name:          "gpt-3.5-turbo",
		Provider:      "openai",
		MaxTokens:     16385,
		Encoding:      EncodingCL100K,
		SupportsTools: true,
	},
}

// LookupModel returns the known information for a model id
func LookupModel(modelID string) (ModelInfo, bool) {
	info, ok := knownModels[modelID]
	return info, ok
}

// RequireModel returns the model information or ErrUnsupportedModel
func RequireModel(modelID string) (ModelInfo, error) {
	info, ok := LookupModel(modelID)
	if !ok {
		return ModelInfo{}, Errorf(ErrUnsupportedModel, "model %q not supported", modelID)
	}
	return info, nil
}

// SupportsVision reports whether the model accepts image input
func SupportsVision(modelID string) bool {
	info, ok := LookupModel(modelID)
	return ok && info.SupportsVision
}
