package conversation

import (
	"context"
	"sort"
	"strings"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// AssistantStream assembles a streamed reply. The log only sees the reply once
// the stream is done, through Fold; partial replies are never recorded.
// An AssistantStream is not safe for concurrent use.
type AssistantStream struct {
	text         strings.Builder
	calls        map[int]*llm.ToolCall
	done         bool
	finishReason string
}

// NewAssistantStream creates an empty stream accumulator
func NewAssistantStream() *AssistantStream {
	return &AssistantStream{calls: map[int]*llm.ToolCall{}}
}

// Add folds one stream event into the pending reply
func (s *AssistantStream) Add(ev llm.StreamEvent) error {
	if s.done {
		return llm.Errorf(llm.ErrState, "stream already completed")
	}

	switch {
	case ev.IsError():
		return ev.Error
	case ev.IsDone():
		s.done = true
		s.finishReason = ev.Choice.FinishReason
	case ev.IsDelta():
		delta := ev.Choice.Delta
		s.text.WriteString(delta.Content)
		for _, tc := range delta.ToolCalls {
			call, ok := s.calls[tc.Index]
			if !ok {
				call = &llm.ToolCall{Type: llm.ToolTypeFunction}
				s.calls[tc.Index] = call
			}
			if tc.ID != "" {
				call.ID = tc.ID
			}
			if tc.Type != "" {
				call.Type = tc.Type
			}
			if tc.Function != nil {
				if call.Function.Name == "" {
					call.Function.Name = tc.Function.Name
				}
				call.Function.Arguments += tc.Function.Arguments
			}
		}
	}
	return nil
}

// Consume reads events until the stream is done, fails, or ctx is cancelled
func (s *AssistantStream) Consume(ctx context.Context, events <-chan llm.StreamEvent) error {
	for !s.done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return llm.Errorf(llm.ErrState, "stream closed before completion")
			}
			if err := s.Add(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Done reports whether the stream has completed
func (s *AssistantStream) Done() bool {
	return s.done
}

// FinishReason returns the finish reason reported when the stream completed
func (s *AssistantStream) FinishReason() string {
	return s.finishReason
}

// Reply returns the assembled reply of a completed stream
func (s *AssistantStream) Reply() (llm.Message, error) {
	if !s.done {
		return llm.Message{}, llm.Errorf(llm.ErrState, "stream not completed")
	}

	reply := llm.Message{Role: llm.RoleAssistant}
	if s.text.Len() > 0 {
		reply.Content = append(reply.Content, llm.NewTextContent(s.text.String()))
	}

	indexes := make([]int, 0, len(s.calls))
	for index := range s.calls {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	for _, index := range indexes {
		reply.ToolCalls = append(reply.ToolCalls, *s.calls[index])
	}
	return reply, nil
}

// Fold appends the completed reply to the log
func (s *AssistantStream) Fold(l *Log) (*Log, error) {
	reply, err := s.Reply()
	if err != nil {
		return nil, err
	}
	return l.AppendReply(reply)
}
