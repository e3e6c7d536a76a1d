// Client interfaces for completion transports
package llm

import "context"

// ChatCompleter is the completion transport: it sends a request built from a
// conversation log and returns the service's reply. Calls are fallible and
// may be retried by the caller; a conversation only records successful replies.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Client defines the interface that full completion transports implement
type Client interface {
	ChatCompleter

	// StreamChatCompletion performs a streaming chat completion request
	StreamChatCompletion(ctx context.Context, req ChatRequest) (<-chan StreamEvent, error)

	// GetModelInfo returns information about the model being used
	GetModelInfo() ModelInfo

	// Close cleans up any resources used by the client
	Close() error
}
