package conversation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// EventType identifies what an Event records
type EventType string

const (
	EventSystemMessage    EventType = "system_message"
	EventUserMessage      EventType = "user_message"
	EventAssistantMessage EventType = "assistant_message"
	EventToolCallRequest  EventType = "tool_call_request"
	EventToolCallResult   EventType = "tool_call_result"
)

// IsValid checks if the event type is one of the known types
func (t EventType) IsValid() bool {
	switch t {
	case EventSystemMessage, EventUserMessage, EventAssistantMessage, EventToolCallRequest, EventToolCallResult:
		return true
	default:
		return false
	}
}

// role returns the message role an event of this type must carry
func (t EventType) role() llm.MessageRole {
	switch t {
	case EventSystemMessage:
		return llm.RoleSystem
	case EventUserMessage:
		return llm.RoleUser
	case EventToolCallResult:
		return llm.RoleTool
	default:
		return llm.RoleAssistant
	}
}

// isText reports whether events of this type carry conversational text
func (t EventType) isText() bool {
	return t == EventSystemMessage || t == EventUserMessage || t == EventAssistantMessage
}

// Event is one immutable record of a conversation. Its fields are only
// reachable through accessors returning copies.
type Event struct {
	eventType      EventType
	message        llm.Message
	toolOffer      []llm.Tool
	toolChoice     llm.ToolChoice
	responseFormat *llm.ResponseFormat
}

// newEvent validates and builds an event. The message is deep-copied.
func newEvent(eventType EventType, message llm.Message, offer []llm.Tool, choice llm.ToolChoice, format *llm.ResponseFormat) (Event, error) {
	if !eventType.IsValid() {
		return Event{}, llm.Errorf(llm.ErrConfig, "event type %q is not one of the known types", eventType)
	}

	if message.Role == "" {
		message.Role = eventType.role()
	}
	if message.Role != eventType.role() {
		return Event{}, llm.Errorf(llm.ErrConfig, "role %q not allowed for %s", message.Role, eventType)
	}

	switch eventType {
	case EventSystemMessage, EventUserMessage, EventAssistantMessage:
		if len(message.Content) == 0 {
			return Event{}, llm.Errorf(llm.ErrConfig, "%s message is empty", eventType)
		}
		if message.HasToolCalls() {
			return Event{}, llm.Errorf(llm.ErrConfig, "%s cannot carry tool calls", eventType)
		}
	case EventToolCallRequest:
		if !message.HasToolCalls() {
			return Event{}, llm.Errorf(llm.ErrConfig, "tool call request carries no tool calls")
		}
		for i, call := range message.ToolCalls {
			if call.ID == "" || call.Function.Name == "" {
				return Event{}, llm.Errorf(llm.ErrConfig, "tool call %d needs an id and a function name", i)
			}
		}
	case EventToolCallResult:
		if message.ToolCallID == "" || message.Name == "" {
			return Event{}, llm.Errorf(llm.ErrConfig, "tool call result needs a tool_call_id and a name")
		}
	}

	for i, content := range message.Content {
		if content == nil {
			return Event{}, llm.Errorf(llm.ErrConfig, "content item %d is nil", i)
		}
		if content.Type() == llm.MessageTypeImage {
			if err := content.Validate(); err != nil {
				return Event{}, llm.Errorf(llm.ErrConfig, "content item %d: %v", i, err)
			}
		}
	}

	if eventType != EventUserMessage && (len(offer) > 0 || choice != llm.ToolChoiceUnset || format != nil) {
		return Event{}, llm.Errorf(llm.ErrConfig, "directives can only be attached to user messages, not %s", eventType)
	}
	if err := choice.Validate(); err != nil {
		return Event{}, err
	}
	if err := format.Validate(); err != nil {
		return Event{}, err
	}

	e := Event{
		eventType:  eventType,
		message:    message.DeepCopy(),
		toolChoice: choice,
	}
	if len(offer) > 0 {
		e.toolOffer = copyTools(offer)
	}
	if format != nil {
		f := *format
		e.responseFormat = &f
	}
	return e, nil
}

// Type returns the event type
func (e Event) Type() EventType {
	return e.eventType
}

// Message returns a copy of the wire message recorded by the event
func (e Event) Message() llm.Message {
	return e.message.DeepCopy()
}

// ToolOffer returns a copy of the tools offered on this turn
func (e Event) ToolOffer() []llm.Tool {
	return copyTools(e.toolOffer)
}

// ToolChoice returns the tool_choice directive of this turn
func (e Event) ToolChoice() llm.ToolChoice {
	return e.toolChoice
}

// ResponseFormat returns a copy of the response_format directive of this turn, or nil
func (e Event) ResponseFormat() *llm.ResponseFormat {
	if e.responseFormat == nil {
		return nil
	}
	f := *e.responseFormat
	return &f
}

// IsTextMessage reports whether the event carries system, user or assistant text
func (e Event) IsTextMessage() bool {
	return e.eventType.isText()
}

// ToolCalls returns the calls requested by a tool_call_request event
func (e Event) ToolCalls() ([]llm.ToolCall, error) {
	if e.eventType != EventToolCallRequest {
		return nil, llm.Errorf(llm.ErrState, "event is %s, not %s", e.eventType, EventToolCallRequest)
	}
	return append([]llm.ToolCall{}, e.message.ToolCalls...), nil
}

// String renders the event for transcripts
func (e Event) String() string {
	switch e.eventType {
	case EventSystemMessage:
		return "System message:\n    " + e.message.Text()
	case EventUserMessage:
		s := "User message:\n    " + e.message.Text()
		if e.message.HasContentType(llm.MessageTypeImage) {
			s += "\n    [image]"
		}
		return s
	case EventAssistantMessage:
		return "Assistant message:\n    " + e.message.Text()
	case EventToolCallRequest:
		calls, _ := json.MarshalIndent(e.message.ToolCalls, "    ", "    ")
		return "Tool call request:\n    " + string(calls)
	case EventToolCallResult:
		return fmt.Sprintf("Tool call result (%s, %s):\n    %s", e.message.Name, e.message.ToolCallID,
			strings.ReplaceAll(e.message.Text(), "\n", "\n    "))
	default:
		return fmt.Sprintf("Event Type: %s", e.eventType)
	}
}

func copyTools(tools []llm.Tool) []llm.Tool {
	if tools == nil {
		return nil
	}
	result := make([]llm.Tool, len(tools))
	for i, tool := range tools {
		result[i] = tool.DeepCopy()
	}
	return result
}
