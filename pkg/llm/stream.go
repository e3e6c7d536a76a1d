// Package llm provides abstractions for Large Language Model clients
// streaming.go defines types for streaming chat completions

package llm

// StreamEvent represents a single event in the streaming response
type StreamEvent struct {
	Type   string        `json:"type"` // "delta", "done", "error"
	Choice *StreamChoice `json:"choice,omitempty"`
	Error  *Error        `json:"error,omitempty"`
}

// StreamChoice represents a choice in the streaming response
type StreamChoice struct {
	Index        int           `json:"index"`
	Delta        *MessageDelta `json:"delta,omitempty"`
	FinishReason string        `json:"finish_reason,omitempty"`
}

// MessageDelta represents incremental updates to a message
type MessageDelta struct {
	Content   string          `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ToolCallDelta represents an incremental tool call update.
// Fragments sharing an Index belong to the same call.
type ToolCallDelta struct {
	Index    int                    `json:"index"`
	ID       string                 `json:"id,omitempty"`
	Type     string                 `json:"type,omitempty"`
	Function *ToolCallFunctionDelta `json:"function,omitempty"`
}

// ToolCallFunctionDelta represents incremental function call details
type ToolCallFunctionDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// IsDelta returns true if this is a delta event
func (e StreamEvent) IsDelta() bool {
	return e.Type == "delta" && e.Choice != nil && e.Choice.Delta != nil
}

// IsDone returns true if this is a done event
func (e StreamEvent) IsDone() bool {
	return e.Type == "done" && e.Choice != nil
}

// IsError returns true if this is an error event
func (e StreamEvent) IsError() bool {
	return e.Type == "error" && e.Error != nil
}

// NewDeltaEvent creates a new delta stream event
func NewDeltaEvent(index int, delta *MessageDelta) StreamEvent {
	return StreamEvent{
		Type: "delta",
		Choice: &StreamChoice{
			Index: index,
			Delta: delta,
		},
	}
}

// NewTextDeltaEvent creates a delta event carrying a text fragment
func NewTextDeltaEvent(index int, text string) StreamEvent {
	return NewDeltaEvent(index, &MessageDelta{Content: text})
}

// NewDoneEvent creates a new done stream event
func NewDoneEvent(index int, finishReason string) StreamEvent {
	return StreamEvent{
		Type: "done",
		Choice: &StreamChoice{
			Index:        index,
			FinishReason: finishReason,
		},
	}
}

// NewErrorEvent creates a new error stream event
func NewErrorEvent(err *Error) StreamEvent {
	return StreamEvent{
		Type:  "error",
		Error: err,
	}
}
