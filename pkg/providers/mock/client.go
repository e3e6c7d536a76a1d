package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// Client implements llm.Client by replaying scripted replies. Once the script
// is exhausted it answers with a canned text reply. It is safe for concurrent use.
type Client struct {
	mu        sync.Mutex
	modelInfo llm.ModelInfo
	responses []llm.ChatResponse
	errors    []error
	callLog   []llm.ChatRequest
	latency   time.Duration
}

// NewClient creates a mock client for the given model
func NewClient(model string) *Client {
	info, ok := llm.LookupModel(model)
	if !ok {
		info = llm.ModelInfo{
			Name:          model,
			MaxTokens:     4096,
			Encoding:      llm.EncodingCL100K,
			SupportsTools: true,
		}
	}
	info.Provider = "mock"
	return &Client{modelInfo: info}
}

// NewClientFromConfig creates a mock client from a client configuration
func NewClientFromConfig(config llm.ClientConfig) (*Client, error) {
	if config.Model == "" {
		return nil, llm.Errorf(llm.ErrConfig, "mock client requires a model")
	}
	return NewClient(config.Model), nil
}

// WithResponses queues replies, returned one per call in order
func (m *Client) WithResponses(responses ...llm.ChatResponse) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
	return m
}

// WithReplies queues assistant messages, each wrapped in a single-choice response
func (m *Client) WithReplies(replies ...llm.Message) *Client {
	responses := make([]llm.ChatResponse, 0, len(replies))
	for _, reply := range replies {
		responses = append(responses, Response(reply))
	}
	return m.WithResponses(responses...)
}

// WithErrors queues errors. Queued errors are returned before queued responses.
func (m *Client) WithErrors(errs ...error) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, errs...)
	return m
}

// WithLatency delays every call by d
func (m *Client) WithLatency(d time.Duration) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
	return m
}

// Requests returns the requests received so far
func (m *Client) Requests() []llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.ChatRequest{}, m.callLog...)
}

// Response wraps a reply in a single-choice response with a matching finish reason
func Response(reply llm.Message) llm.ChatResponse {
	if reply.Role == "" {
		reply.Role = llm.RoleAssistant
	}
	finish := llm.FinishReasonStop
	if reply.HasToolCalls() {
		finish = llm.FinishReasonToolCalls
	}
	return llm.ChatResponse{
		Choices: []llm.Choice{{Index: 0, Message: reply, FinishReason: finish}},
	}
}

// ToolCall builds a function call with the given JSON arguments. The ID is
// assigned when the call is replayed.
func ToolCall(name, arguments string) llm.ToolCall {
	return llm.ToolCall{
		Type:     llm.ToolTypeFunction,
		Function: llm.ToolCallFunction{Name: name, Arguments: arguments},
	}
}

// ToolCallReply builds an assistant reply requesting the given calls
func ToolCallReply(calls ...llm.ToolCall) llm.Message {
	return llm.Message{Role: llm.RoleAssistant, ToolCalls: calls}
}

// next records req and pops the next scripted outcome
func (m *Client) next(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, req)
	latency := m.latency

	var (
		resp *llm.ChatResponse
		err  error
	)
	switch {
	case len(m.errors) > 0:
		err = m.errors[0]
		m.errors = m.errors[1:]
	case len(m.responses) > 0:
		r := m.responses[0]
		m.responses = m.responses[1:]
		resp = &r
	}
	m.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = cannedResponse(req)
	}
	return m.complete(resp, req), nil
}

// complete fills the fields a real service always sets
func (m *Client) complete(resp *llm.ChatResponse, req llm.ChatRequest) *llm.ChatResponse {
	if resp.ID == "" {
		resp.ID = "mock-" + uuid.NewString()
	}
	if resp.Model == "" {
		resp.Model = req.Model
	}

	choices := make([]llm.Choice, len(resp.Choices))
	for i, choice := range resp.Choices {
		choice.Message = choice.Message.DeepCopy()
		for j := range choice.Message.ToolCalls {
			if choice.Message.ToolCalls[j].ID == "" {
				choice.Message.ToolCalls[j].ID = "call_" + strings.ReplaceAll(uuid.NewString(), "-", "")
			}
		}
		choices[i] = choice
	}
	resp.Choices = choices

	if resp.Usage.TotalTokens == 0 {
		prompt := 0
		for _, msg := range req.Messages {
			prompt += len(strings.Fields(msg.Text()))
		}
		completion := 0
		if len(choices) > 0 {
			completion = len(strings.Fields(choices[0].Message.Text()))
		}
		resp.Usage = llm.Usage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		}
	}
	return resp
}

// cannedResponse answers when the script is exhausted
func cannedResponse(req llm.ChatRequest) *llm.ChatResponse {
	var text string
	if n := len(req.Messages); n > 0 && req.Messages[n-1].Role == llm.RoleTool {
		text = fmt.Sprintf("Based on the tool result: %s", req.Messages[n-1].Text())
	} else {
		var lastUser string
		for i := len(req.Messages) - 1; i >= 0; i-- {
			if req.Messages[i].Role == llm.RoleUser {
				lastUser = req.Messages[i].Text()
				break
			}
		}
		text = fmt.Sprintf("Mock reply to: %s", lastUser)
	}
	resp := Response(llm.NewTextMessage(llm.RoleAssistant, text))
	return &resp
}

// ChatCompletion implements llm.ChatCompleter
func (m *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	llm.Logger().Debug("mock completion", "model", req.Model, "messages", len(req.Messages))
	return m.next(ctx, req)
}

// StreamChatCompletion replays the next scripted reply as a stream: the text
// word by word, then each tool call in two fragments, then a done event.
func (m *Client) StreamChatCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	resp, err := m.next(ctx, req)
	if err != nil {
		apiErr := &llm.Error{Code: "mock_error", Message: err.Error(), Type: "simulation_error"}
		ch := make(chan llm.StreamEvent, 1)
		ch <- llm.NewErrorEvent(apiErr)
		close(ch)
		return ch, nil
	}

	events := streamEvents(resp)
	ch := make(chan llm.StreamEvent, len(events))
	go func() {
		defer close(ch)
		for _, ev := range events {
			select {
			case <-ctx.Done():
				return
			case ch <- ev:
			}
		}
	}()
	return ch, nil
}

func streamEvents(resp *llm.ChatResponse) []llm.StreamEvent {
	if len(resp.Choices) == 0 {
		return []llm.StreamEvent{llm.NewDoneEvent(0, llm.FinishReasonStop)}
	}
	choice := resp.Choices[0]
	var events []llm.StreamEvent

	words := strings.SplitAfter(choice.Message.Text(), " ")
	for _, word := range words {
		if word != "" {
			events = append(events, llm.NewTextDeltaEvent(0, word))
		}
	}
	for i, call := range choice.Message.ToolCalls {
		half := len(call.Function.Arguments) / 2
		events = append(events,
			llm.NewDeltaEvent(0, &llm.MessageDelta{ToolCalls: []llm.ToolCallDelta{{
				Index: i,
				ID:    call.ID,
				Type:  call.Type,
				Function: &llm.ToolCallFunctionDelta{
					Name:      call.Function.Name,
					Arguments: call.Function.Arguments[:half],
				},
			}}}),
			llm.NewDeltaEvent(0, &llm.MessageDelta{ToolCalls: []llm.ToolCallDelta{{
				Index:    i,
				Function: &llm.ToolCallFunctionDelta{Arguments: call.Function.Arguments[half:]},
			}}}),
		)
	}
	return append(events, llm.NewDoneEvent(0, choice.FinishReason))
}

// GetModelInfo implements llm.Client
func (m *Client) GetModelInfo() llm.ModelInfo {
	return m.modelInfo
}

// Close implements llm.Client
func (m *Client) Close() error {
	return nil
}
