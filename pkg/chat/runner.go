package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/inercia/go-chatlog/pkg/conversation"
	"github.com/inercia/go-chatlog/pkg/llm"
	"github.com/inercia/go-chatlog/pkg/tools"
)

// DefaultMaxSteps bounds the number of model calls of one Run
const DefaultMaxSteps = 8

// ErrTooManySteps is returned when the model keeps requesting tools past MaxSteps
var ErrTooManySteps = errors.New("too many tool steps")

// Runner drives a conversation forward: it asks the model for the next reply,
// runs any requested tools, and repeats until the model answers in text.
type Runner struct {
	Completer llm.ChatCompleter
	Executor  *tools.Executor
	MaxSteps  int
}

// NewRunner creates a runner with the default step limit
func NewRunner(completer llm.ChatCompleter, executor *tools.Executor) *Runner {
	return &Runner{
		Completer: completer,
		Executor:  executor,
		MaxSteps:  DefaultMaxSteps,
	}
}

// Run advances log until the model produces an assistant message. On error the
// returned log is the last consistent one, holding every reply and tool result
// recorded before the failure.
func (r *Runner) Run(ctx context.Context, log *conversation.Log) (*conversation.Log, error) {
	if r.Completer == nil {
		return log, llm.Errorf(llm.ErrConfig, "runner has no completer")
	}

	maxSteps := r.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	logger := llm.Logger().With("run", uuid.NewString(), "model", log.ModelID())
	for step := 1; step <= maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return log, err
		}

		req, err := log.Request()
		if err != nil {
			return log, err
		}

		logger.Debug("requesting completion", "step", step, "messages", len(req.Messages), "tools", len(req.Tools))
		resp, err := r.Completer.ChatCompletion(ctx, req)
		if err != nil {
			logger.Error("completion failed", "step", step, "err", err)
			return log, err
		}
		reply, ok := resp.FirstMessage()
		if !ok {
			return log, &llm.Error{
				Code:    "empty_response",
				Message: "completion returned no choices",
				Type:    "api_error",
			}
		}

		next, err := log.AppendReply(reply)
		if err != nil {
			return log, fmt.Errorf("recording reply: %w", err)
		}
		log = next

		if !reply.HasToolCalls() {
			logger.Debug("conversation settled", "step", step)
			return log, nil
		}
		if r.Executor == nil {
			return log, llm.Errorf(llm.ErrConfig, "model requested %d tool calls but the runner has no executor", len(reply.ToolCalls))
		}

		calls, err := log.ToolCallRequests()
		if err != nil {
			return log, err
		}
		logger.Debug("executing tool calls", "step", step, "calls", len(calls))

		next, err = log.AppendToolCallResult(r.Executor.Execute(ctx, calls))
		if err != nil {
			return log, fmt.Errorf("recording tool results: %w", err)
		}
		log = next
	}

	logger.Warn("step limit reached", "max_steps", maxSteps)
	return log, fmt.Errorf("%w: stopped after %d model calls", ErrTooManySteps, maxSteps)
}
