// Multi-modal content types and interface
package llm

// MessageContent is one typed content block of a message.
// Plain-string message content is normalized into a single TextContent block.
type MessageContent interface {
	// Type returns the content type identifier used on the wire
	Type() MessageType
	// Validate checks if the content is valid and meets requirements
	Validate() error
	// Size returns the content size in bytes
	Size() int64
}

// MessageType represents the type of a content block
type MessageType string

// Supported content block types
const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image_url"
)

// IsValidMessageType checks if the given content block type is supported
func IsValidMessageType(msgType MessageType) bool {
	switch msgType {
	case MessageTypeText, MessageTypeImage:
		return true
	default:
		return false
	}
}
