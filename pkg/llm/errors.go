// Error types and handling
package llm

import (
	"errors"
	"fmt"
)

// Error kinds raised by the conversation log and the tool compiler. They are
// usage errors: detected eagerly and never retried. Match them with errors.Is.
var (
	// ErrConfig reports invalid construction arguments (missing model id,
	// disallowed role, tool choice or response format).
	ErrConfig = errors.New("invalid configuration")

	// ErrState reports an accessor used against an event of the wrong type.
	ErrState = errors.New("invalid conversation state")

	// ErrUnsupportedCapability reports a feature requested against a model
	// that does not support it, such as image input.
	ErrUnsupportedCapability = errors.New("unsupported capability")

	// ErrUnsupportedModel reports token accounting for a model outside the
	// known model table.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrSchema reports a tool compilation failure.
	ErrSchema = errors.New("invalid tool schema")
)

// Errorf wraps kind with a formatted message, so that errors.Is(err, kind) holds.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Error represents a standardized transport error returned by a completion provider
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// IsRateLimit reports whether the provider rejected the call because of throttling
func (e *Error) IsRateLimit() bool {
	return e.StatusCode == 429 || e.Type == "rate_limit_error"
}
