package factory

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/inercia/go-chatlog/pkg/llm"
)

const DefaultProvider = "openai"

// Constructor builds a completion transport from a client configuration
type Constructor func(config llm.ClientConfig) (llm.Client, error)

var (
	transportsMu sync.RWMutex
	transports   = map[string]Constructor{}
)

// RegisterProvider makes a transport available under name. Names are
// case-insensitive and can only be registered once.
func RegisterProvider(name string, constructor Constructor) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || constructor == nil {
		return llm.Errorf(llm.ErrConfig, "provider needs a name and a constructor")
	}

	transportsMu.Lock()
	defer transportsMu.Unlock()
	if _, taken := transports[name]; taken {
		return llm.Errorf(llm.ErrConfig, "provider %s already registered", name)
	}
	transports[name] = constructor
	return nil
}

// Providers returns the registered provider names, sorted
func Providers() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	return slices.Sorted(maps.Keys(transports))
}

func lookupProvider(name string) (Constructor, bool) {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	constructor, ok := transports[name]
	return constructor, ok
}

// Factory creates completion clients based on configuration
type Factory struct{}

// New creates a new client factory
func New() *Factory {
	return &Factory{}
}

// CreateClient creates a completion client based on the configuration
func (f *Factory) CreateClient(config llm.ClientConfig) (llm.Client, error) {
	// Default to "openai" if provider is empty
	provider := config.Provider
	if provider == "" {
		provider = DefaultProvider
	}
	provider = strings.ToLower(provider)

	if config.Model == "" {
		return nil, &llm.Error{
			Code:    "missing_model",
			Message: "model is required",
			Type:    "validation_error",
		}
	}

	constructor, exists := lookupProvider(provider)
	if !exists {
		return nil, &llm.Error{
			Code:    "unsupported_provider",
			Message: fmt.Sprintf("unsupported provider: %s", provider),
			Type:    "validation_error",
		}
	}

	llm.Logger().Debug("creating client", "provider", provider, "model", config.Model)
	return constructor(config)
}

// CreateCompleter creates a client and, when config.MaxRetries is positive,
// wraps it with retries on throttling and transient server errors.
// The returned client must be closed by the caller.
func (f *Factory) CreateCompleter(config llm.ClientConfig) (llm.ChatCompleter, llm.Client, error) {
	client, err := f.CreateClient(config)
	if err != nil {
		return nil, nil, err
	}
	if config.MaxRetries <= 0 {
		return client, client, nil
	}

	retry := llm.DefaultRetryConfig()
	retry.MaxRetries = config.MaxRetries
	return llm.RetryChatCompletion(client, retry), client, nil
}
