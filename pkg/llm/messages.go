// Message types and functionality
package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Message is a single chat message in the wire format sent to the completion service.
// Content is always held as an ordered list of typed blocks.
type Message struct {
	Role       MessageRole      `json:"role"`
	Content    []MessageContent `json:"content"`
	ToolCalls  []ToolCall       `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
	Name       string           `json:"name,omitempty"`
}

// MessageRole defines the role of a message sender
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// IsValid checks if the role is one of the known roles
func (r MessageRole) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// NewTextMessage creates a new Message with a single text block
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role:    role,
		Content: []MessageContent{NewTextContent(text)},
	}
}

// NewToolResultMessage creates the "tool" role message answering the call with the given id
func NewToolResultMessage(toolCallID, name, result string) Message {
	return Message{
		Role:       RoleTool,
		Content:    []MessageContent{NewTextContent(result)},
		ToolCallID: toolCallID,
		Name:       name,
	}
}

// GetText extracts text from the first TextContent block.
// Returns empty string if no TextContent is found
func (m Message) GetText() string {
	for _, content := range m.Content {
		if textContent, ok := content.(*TextContent); ok {
			return textContent.GetText()
		}
	}
	return ""
}

// Text joins the text of all TextContent blocks, one per line
func (m Message) Text() string {
	var parts []string
	for _, content := range m.Content {
		if textContent, ok := content.(*TextContent); ok {
			parts = append(parts, textContent.GetText())
		}
	}
	return strings.Join(parts, "\n")
}

// IsTextOnly checks if the message contains only text content
func (m Message) IsTextOnly() bool {
	if len(m.Content) == 0 {
		return false
	}

	for _, content := range m.Content {
		if content.Type() != MessageTypeText {
			return false
		}
	}
	return true
}

// HasContentType checks if the message contains any content of the specified type
func (m Message) HasContentType(messageType MessageType) bool {
	for _, content := range m.Content {
		if content.Type() == messageType {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the message carries neither content nor tool calls
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0 && len(m.ToolCalls) == 0
}

// Validate validates all content items in the message
func (m Message) Validate() error {
	if !m.Role.IsValid() {
		return fmt.Errorf("invalid role %q", m.Role)
	}
	for i, content := range m.Content {
		if content == nil {
			return fmt.Errorf("content item %d is nil", i)
		}
		if err := content.Validate(); err != nil {
			return fmt.Errorf("content item %d validation failed: %w", i, err)
		}
	}
	return nil
}

// HasToolCalls checks if the message contains any tool calls
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// DeepCopy creates a deep copy of the message, including all content and tool calls
func (m Message) DeepCopy() Message {
	copy := Message{
		Role:       m.Role,
		ToolCallID: m.ToolCallID,
		Name:       m.Name,
	}

	if len(m.Content) > 0 {
		copy.Content = make([]MessageContent, 0, len(m.Content))
		for _, content := range m.Content {
			copy.Content = append(copy.Content, deepCopyMessageContent(content))
		}
	}

	if len(m.ToolCalls) > 0 {
		copy.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, toolCall := range m.ToolCalls {
			copy.ToolCalls[i] = toolCall
		}
	}

	return copy
}

// deepCopyMessageContent creates a deep copy of MessageContent based on its type
func deepCopyMessageContent(content MessageContent) MessageContent {
	switch c := content.(type) {
	case *TextContent:
		return &TextContent{Text: c.Text}
	case *ImageContent:
		return &ImageContent{URL: c.URL, Detail: c.Detail}
	default:
		return content
	}
}

// MarshalJSON implements custom JSON marshaling for Message.
// Tool messages carry their content as a plain string; an empty content list is null.
func (m Message) MarshalJSON() ([]byte, error) {
	type Alias Message

	temp := struct {
		Alias
		Content json.RawMessage `json:"content"`
	}{
		Alias: (Alias)(m),
	}

	switch {
	case m.Role == RoleTool:
		text, err := json.Marshal(m.Text())
		if err != nil {
			return nil, err
		}
		temp.Content = text
	case len(m.Content) == 0:
		temp.Content = json.RawMessage("null")
	default:
		items := make([]json.RawMessage, len(m.Content))
		for i, content := range m.Content {
			contentBytes, err := json.Marshal(content)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal content item %d: %w", i, err)
			}
			items[i] = contentBytes
		}
		list, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		temp.Content = list
	}

	return json.Marshal(temp)
}

// UnmarshalJSON implements custom JSON unmarshaling for Message.
// Content may be a plain string, null or a list of typed blocks.
func (m *Message) UnmarshalJSON(data []byte) error {
	type Alias Message

	temp := struct {
		*Alias
		Content json.RawMessage `json:"content"`
	}{
		Alias: (*Alias)(m),
	}

	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	content, err := NormalizeContent(temp.Content)
	if err != nil {
		return err
	}
	m.Content = content
	return nil
}

// NormalizeContent decodes wire content (string, null or block list) into content blocks
func NormalizeContent(raw json.RawMessage) ([]MessageContent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, err
		}
		return []MessageContent{NewTextContent(text)}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("content must be a string or a list of blocks: %w", err)
	}

	result := make([]MessageContent, 0, len(items))
	for i, item := range items {
		content, err := unmarshalContent(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal content item %d: %w", i, err)
		}
		result = append(result, content)
	}
	return result, nil
}
