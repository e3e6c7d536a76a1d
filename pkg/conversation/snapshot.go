package conversation

import (
	"encoding/json"
	"fmt"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// Snapshot is the durable layout of a conversation. Stored conversations
// depend on it, so fields are only ever added.
type Snapshot struct {
	ModelID string        `json:"model_id"`
	Events  []EventRecord `json:"events"`
}

// EventRecord is the durable layout of one event
type EventRecord struct {
	Type           EventType           `json:"type"`
	Message        llm.Message         `json:"message"`
	ToolOffer      []llm.Tool          `json:"list_tool_offer,omitempty"`
	ToolChoice     llm.ToolChoice      `json:"tool_choice,omitempty"`
	ResponseFormat *llm.ResponseFormat `json:"response_format,omitempty"`
}

// ToSnapshot returns the durable representation of the log
func (l *Log) ToSnapshot() Snapshot {
	records := make([]EventRecord, len(l.events))
	for i, event := range l.events {
		records[i] = EventRecord{
			Type:           event.eventType,
			Message:        event.Message(),
			ToolOffer:      event.ToolOffer(),
			ToolChoice:     event.toolChoice,
			ResponseFormat: event.ResponseFormat(),
		}
	}
	return Snapshot{ModelID: l.modelID, Events: records}
}

// FromSnapshot rebuilds a log, validating every event with the same rules as the append operations
func FromSnapshot(s Snapshot) (*Log, error) {
	if s.ModelID == "" {
		return nil, llm.Errorf(llm.ErrConfig, "model id is empty")
	}
	if len(s.Events) == 0 {
		return nil, llm.Errorf(llm.ErrConfig, "conversation has no events")
	}
	if s.Events[0].Type != EventSystemMessage {
		return nil, llm.Errorf(llm.ErrConfig, "conversation must start with a %s, not %s", EventSystemMessage, s.Events[0].Type)
	}

	events := make([]Event, 0, len(s.Events))
	for i, record := range s.Events {
		if record.Type == EventUserMessage && record.Message.HasContentType(llm.MessageTypeImage) && !llm.SupportsVision(s.ModelID) {
			return nil, llm.Errorf(llm.ErrUnsupportedCapability, "event %d: model %s not supported for image", i, s.ModelID)
		}
		event, err := newEvent(record.Type, record.Message, record.ToolOffer, record.ToolChoice, record.ResponseFormat)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, event)
	}
	return &Log{modelID: s.ModelID, events: events}, nil
}

// MarshalJSON encodes the log in its durable layout
func (l *Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.ToSnapshot())
}

// UnmarshalJSON decodes a log from its durable layout
func (l *Log) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := FromSnapshot(s)
	if err != nil {
		return err
	}
	*l = *decoded
	return nil
}

// Marshal encodes the log as indented JSON
func Marshal(l *Log) ([]byte, error) {
	return json.MarshalIndent(l.ToSnapshot(), "", "  ")
}

// Unmarshal decodes a log from JSON
func Unmarshal(data []byte) (*Log, error) {
	l := &Log{}
	if err := l.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return l, nil
}
