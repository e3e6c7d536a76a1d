package conversation

import (
	"strings"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// Log is an immutable conversation: the target model plus the ordered events.
// Every append returns a new Log and leaves the receiver unchanged, so a Log
// can be shared between goroutines and branched freely.
type Log struct {
	modelID string
	events  []Event
}

// Create starts a conversation for modelID with one system message
func Create(modelID, systemText string) (*Log, error) {
	if modelID == "" {
		return nil, llm.Errorf(llm.ErrConfig, "model id is empty")
	}

	event, err := newEvent(EventSystemMessage, llm.NewTextMessage(llm.RoleSystem, systemText), nil, llm.ToolChoiceUnset, nil)
	if err != nil {
		return nil, err
	}
	return &Log{modelID: modelID, events: []Event{event}}, nil
}

// with returns a new log holding a copy of the receiver's events plus events
func (l *Log) with(events ...Event) *Log {
	all := make([]Event, 0, len(l.events)+len(events))
	all = append(all, l.events...)
	all = append(all, events...)
	return &Log{modelID: l.modelID, events: all}
}

// AppendSystemMessage appends a system message. System steering may be
// injected at any point of the conversation.
func (l *Log) AppendSystemMessage(text string) (*Log, error) {
	event, err := newEvent(EventSystemMessage, llm.NewTextMessage(llm.RoleSystem, text), nil, llm.ToolChoiceUnset, nil)
	if err != nil {
		return nil, err
	}
	return l.with(event), nil
}

// AppendUserMessage appends a user turn carrying the directives for the next model call
func (l *Log) AppendUserMessage(text string, opts ...UserOption) (*Log, error) {
	turn := &userTurn{}
	for _, opt := range opts {
		if err := opt(turn); err != nil {
			return nil, err
		}
	}

	message := llm.NewTextMessage(llm.RoleUser, text)
	if turn.hint != "" {
		message.Content = append(message.Content, llm.NewTextContent(turn.hint))
	}
	if len(turn.images) > 0 {
		if !llm.SupportsVision(l.modelID) {
			return nil, llm.Errorf(llm.ErrUnsupportedCapability, "model %s not supported for image", l.modelID)
		}
		for _, image := range turn.images {
			message.Content = append(message.Content, image)
		}
	}

	offer, err := turn.offer()
	if err != nil {
		return nil, err
	}

	event, err := newEvent(EventUserMessage, message, offer, turn.choice, turn.format)
	if err != nil {
		return nil, err
	}
	return l.with(event), nil
}

// AppendAssistantMessage appends a completed model reply without tool calls
func (l *Log) AppendAssistantMessage(reply llm.Message) (*Log, error) {
	event, err := newEvent(EventAssistantMessage, reply, nil, llm.ToolChoiceUnset, nil)
	if err != nil {
		return nil, err
	}
	return l.with(event), nil
}

// AppendAssistantText appends a plain-text model reply
func (l *Log) AppendAssistantText(text string) (*Log, error) {
	return l.AppendAssistantMessage(llm.NewTextMessage(llm.RoleAssistant, text))
}

// AppendToolCallRequest appends a model reply announcing tool calls
func (l *Log) AppendToolCallRequest(reply llm.Message) (*Log, error) {
	reply = reply.DeepCopy()
	for i := range reply.ToolCalls {
		if reply.ToolCalls[i].Type == "" {
			reply.ToolCalls[i].Type = llm.ToolTypeFunction
		}
	}
	event, err := newEvent(EventToolCallRequest, reply, nil, llm.ToolChoiceUnset, nil)
	if err != nil {
		return nil, err
	}
	return l.with(event), nil
}

// AppendReply folds a model reply in as a tool call request when it carries
// tool calls and as an assistant message otherwise
func (l *Log) AppendReply(reply llm.Message) (*Log, error) {
	if reply.HasToolCalls() {
		return l.AppendToolCallRequest(reply)
	}
	return l.AppendAssistantMessage(reply)
}

// AppendToolCallResult appends one tool_call_result event per result. Every
// result must answer a call requested earlier in the conversation.
func (l *Log) AppendToolCallResult(results []llm.ToolResult) (*Log, error) {
	if len(results) == 0 {
		return nil, llm.Errorf(llm.ErrConfig, "no tool call results")
	}

	requested := l.requestedCallIDs()
	events := make([]Event, 0, len(results))
	for _, result := range results {
		if !requested[result.ID] {
			return nil, llm.Errorf(llm.ErrState, "no tool call with id %q was requested", result.ID)
		}
		event, err := newEvent(EventToolCallResult, llm.NewToolResultMessage(result.ID, result.Name, result.Result), nil, llm.ToolChoiceUnset, nil)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return l.with(events...), nil
}

func (l *Log) requestedCallIDs() map[string]bool {
	ids := map[string]bool{}
	for _, event := range l.events {
		if event.eventType == EventToolCallRequest {
			for _, call := range event.message.ToolCalls {
				ids[call.ID] = true
			}
		}
	}
	return ids
}

// ModelID returns the target model identifier
func (l *Log) ModelID() string {
	return l.modelID
}

// Len returns the number of events
func (l *Log) Len() int {
	return len(l.events)
}

// Events returns a copy of the event sequence
func (l *Log) Events() []Event {
	return append([]Event{}, l.events...)
}

// LastEvent returns the most recent event
func (l *Log) LastEvent() Event {
	return l.events[len(l.events)-1]
}

// Messages returns the flattened wire messages sent to the completion service
func (l *Log) Messages() []llm.Message {
	messages := make([]llm.Message, len(l.events))
	for i, event := range l.events {
		messages[i] = event.Message()
	}
	return messages
}

// LastMessageText returns the text of the most recent system, user or assistant message
func (l *Log) LastMessageText() string {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].IsTextMessage() {
			return l.events[i].message.Text()
		}
	}
	return ""
}

// ToolCallRequests returns the calls of the last event, which must be a tool_call_request
func (l *Log) ToolCallRequests() ([]llm.ToolCall, error) {
	return l.LastEvent().ToolCalls()
}

// pendingTurn returns the event whose directives govern the next model call.
// After tool results the directives of the most recent user turn apply.
func (l *Log) pendingTurn() (Event, error) {
	last := l.LastEvent()
	switch last.eventType {
	case EventAssistantMessage, EventToolCallRequest:
		return Event{}, llm.Errorf(llm.ErrState, "last event is %s, no model call is pending", last.eventType)
	case EventToolCallResult:
		for i := len(l.events) - 1; i >= 0; i-- {
			if l.events[i].eventType == EventUserMessage {
				return l.events[i], nil
			}
		}
	}
	return last, nil
}

// Tools returns the tools offered for the next model call
func (l *Log) Tools() ([]llm.Tool, error) {
	turn, err := l.pendingTurn()
	if err != nil {
		return nil, err
	}
	return turn.ToolOffer(), nil
}

// ToolChoice returns the tool_choice directive for the next model call
func (l *Log) ToolChoice() (llm.ToolChoice, error) {
	turn, err := l.pendingTurn()
	if err != nil {
		return llm.ToolChoiceUnset, err
	}
	return turn.ToolChoice(), nil
}

// ResponseFormat returns the response_format directive for the next model call, or nil
func (l *Log) ResponseFormat() (*llm.ResponseFormat, error) {
	turn, err := l.pendingTurn()
	if err != nil {
		return nil, err
	}
	return turn.ResponseFormat(), nil
}

// Request assembles the completion request for the next model call
func (l *Log) Request() (llm.ChatRequest, error) {
	turn, err := l.pendingTurn()
	if err != nil {
		return llm.ChatRequest{}, err
	}
	return llm.ChatRequest{
		Model:          l.modelID,
		Messages:       l.Messages(),
		Tools:          turn.ToolOffer(),
		ToolChoice:     turn.ToolChoice(),
		ResponseFormat: turn.ResponseFormat(),
	}, nil
}

// TokenCount returns the number of tokens of all message content under the model's tokenizer
func (l *Log) TokenCount() (int, error) {
	if _, err := llm.RequireModel(l.modelID); err != nil {
		return 0, err
	}

	total := 0
	for _, event := range l.events {
		text := event.message.Text()
		for _, call := range event.message.ToolCalls {
			text += call.Function.Name + call.Function.Arguments
		}
		if text == "" {
			continue
		}
		n, err := llm.CountTokens(l.modelID, text)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// TokenCountMax returns the model's context-window size
func (l *Log) TokenCountMax() (int, error) {
	return llm.ContextWindow(l.modelID)
}

// String renders the conversation as a transcript, one block per event
func (l *Log) String() string {
	var sb strings.Builder
	for _, event := range l.events {
		sb.WriteString(event.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
