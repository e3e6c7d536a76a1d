package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inercia/go-chatlog/pkg/conversation"
	"github.com/inercia/go-chatlog/pkg/llm"
	"github.com/inercia/go-chatlog/pkg/providers/mock"
	"github.com/inercia/go-chatlog/pkg/tools"
)

func weatherExecutor(t *testing.T) *tools.Executor {
	t.Helper()
	def, err := tools.Compile(tools.Func("get_weather", "Get the current weather.\n\nArgs:\n    city: The city name.",
		func(city string) string { return fmt.Sprintf("sunny in %s", city) },
		tools.Arg("city")))
	require.NoError(t, err)

	exec, err := tools.NewExecutor(def)
	require.NoError(t, err)
	return exec
}

func startLog(t *testing.T, exec *tools.Executor) *conversation.Log {
	t.Helper()
	log, err := conversation.Create("gpt-4o", "You are a helpful assistant")
	require.NoError(t, err)
	log, err = log.AppendUserMessage("What's the weather in Paris?",
		conversation.WithTools(exec.Offers()...),
		conversation.WithToolChoice(llm.ToolChoiceAuto))
	require.NoError(t, err)
	return log
}

func TestRunner_Run(t *testing.T) {
	exec := weatherExecutor(t)
	client := mock.NewClient("gpt-4o").WithReplies(
		mock.ToolCallReply(mock.ToolCall("get_weather", `{"city":"Paris"}`)),
		llm.NewTextMessage(llm.RoleAssistant, "It is sunny in Paris."),
	)

	log, err := NewRunner(client, exec).Run(context.Background(), startLog(t, exec))
	require.NoError(t, err)

	types := []conversation.EventType{}
	for _, ev := range log.Events() {
		types = append(types, ev.Type())
	}
	assert.Equal(t, []conversation.EventType{
		conversation.EventSystemMessage,
		conversation.EventUserMessage,
		conversation.EventToolCallRequest,
		conversation.EventToolCallResult,
		conversation.EventAssistantMessage,
	}, types)

	result := log.Events()[3].Message()
	assert.Equal(t, "sunny in Paris", result.Text())
	assert.Equal(t, "get_weather", result.Name)
	assert.Equal(t, "It is sunny in Paris.", log.LastMessageText())

	// the second call carries the user turn directives and the tool round
	requests := client.Requests()
	require.Len(t, requests, 2)
	assert.Len(t, requests[1].Messages, 4)
	assert.Equal(t, llm.ToolChoiceAuto, requests[1].ToolChoice)
	require.Len(t, requests[1].Tools, 1)
	assert.Equal(t, "get_weather", requests[1].Tools[0].Function.Name)
}

func TestRunner_PlainReply(t *testing.T) {
	client := mock.NewClient("gpt-4o").WithReplies(llm.NewTextMessage(llm.RoleAssistant, "Hi!"))

	start, err := conversation.Create("gpt-4o", "sys")
	require.NoError(t, err)
	start, err = start.AppendUserMessage("hello")
	require.NoError(t, err)

	log, err := NewRunner(client, nil).Run(context.Background(), start)
	require.NoError(t, err)
	assert.Equal(t, 3, log.Len())
	assert.Equal(t, 2, start.Len())
}

func TestRunner_TooManySteps(t *testing.T) {
	exec := weatherExecutor(t)
	call := mock.ToolCallReply(mock.ToolCall("get_weather", `{"city":"Paris"}`))
	client := mock.NewClient("gpt-4o").WithReplies(call, call, call)

	runner := &Runner{Completer: client, Executor: exec, MaxSteps: 2}
	log, err := runner.Run(context.Background(), startLog(t, exec))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManySteps)
	assert.Equal(t, conversation.EventToolCallResult, log.LastEvent().Type())
	assert.Equal(t, 6, log.Len())
}

func TestRunner_CompletionError(t *testing.T) {
	exec := weatherExecutor(t)
	boom := &llm.Error{Code: "server_error", Message: "boom", StatusCode: 500}
	client := mock.NewClient("gpt-4o").WithReplies(mock.ToolCallReply(mock.ToolCall("get_weather", `{"city":"Paris"}`)))

	first, err := NewRunner(&failingAfter{completer: client, calls: 1, err: boom}, exec).Run(context.Background(), startLog(t, exec))
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	// the tool round recorded before the failure is kept
	assert.Equal(t, 4, first.Len())
	assert.Equal(t, conversation.EventToolCallResult, first.LastEvent().Type())
}

func TestRunner_MissingExecutor(t *testing.T) {
	exec := weatherExecutor(t)
	client := mock.NewClient("gpt-4o").WithReplies(mock.ToolCallReply(mock.ToolCall("get_weather", `{}`)))

	log, err := NewRunner(client, nil).Run(context.Background(), startLog(t, exec))
	assert.ErrorIs(t, err, llm.ErrConfig)
	assert.Equal(t, conversation.EventToolCallRequest, log.LastEvent().Type())
}

func TestRunner_NotPending(t *testing.T) {
	start, err := conversation.Create("gpt-4o", "sys")
	require.NoError(t, err)
	start, err = start.AppendUserMessage("hi")
	require.NoError(t, err)
	start, err = start.AppendAssistantText("hello")
	require.NoError(t, err)

	_, err = NewRunner(mock.NewClient("gpt-4o"), nil).Run(context.Background(), start)
	assert.ErrorIs(t, err, llm.ErrState)
}

func TestRunner_Cancelled(t *testing.T) {
	exec := weatherExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := startLog(t, exec)
	log, err := NewRunner(mock.NewClient("gpt-4o"), exec).Run(ctx, start)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, start, log)
}

// failingAfter delegates the first calls and then fails
type failingAfter struct {
	completer llm.ChatCompleter
	calls     int
	err       error
}

func (f *failingAfter) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if f.calls <= 0 {
		return nil, f.err
	}
	f.calls--
	return f.completer.ChatCompletion(ctx, req)
}
