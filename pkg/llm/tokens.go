package llm

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingsMu sync.Mutex
	encodings   = map[string]*tiktoken.Tiktoken{}
)

// getEncoding loads a tokenizer once per encoding name
func getEncoding(name string) (*tiktoken.Tiktoken, error) {
	encodingsMu.Lock()
	defer encodingsMu.Unlock()

	if enc, ok := encodings[name]; ok {
		return enc, nil
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", name, err)
	}
	encodings[name] = enc
	return enc, nil
}

// CountTokens returns the encoded length of text under the model's tokenizer
func CountTokens(modelID string, text string) (int, error) {
	info, err := RequireModel(modelID)
	if err != nil {
		return 0, err
	}
	enc, err := getEncoding(info.Encoding)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// ContextWindow returns the model's documented context-window size
func ContextWindow(modelID string) (int, error) {
	info, err := RequireModel(modelID)
	if err != nil {
		return 0, err
	}
	return info.MaxTokens, nil
}
