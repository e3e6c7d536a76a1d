package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// Executor holds compiled tools by name and runs the tool calls requested by the model.
// It is safe for concurrent use.
type Executor struct {
	mu    sync.RWMutex
	order []string
	defs  map[string]*Definition
}

// NewExecutor creates an executor with the given tools registered
func NewExecutor(defs ...*Definition) (*Executor, error) {
	e := &Executor{defs: map[string]*Definition{}}
	for _, def := range defs {
		if err := e.Register(def); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Register adds a compiled tool. Names must be unique.
func (e *Executor) Register(def *Definition) error {
	if def == nil {
		return llm.Errorf(llm.ErrConfig, "tool definition is nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.defs[def.Name]; exists {
		return llm.Errorf(llm.ErrConfig, "tool %s already registered", def.Name)
	}
	e.defs[def.Name] = def
	e.order = append(e.order, def.Name)
	return nil
}

// Get returns the tool registered under name
func (e *Executor) Get(name string) (*Definition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	def, ok := e.defs[name]
	return def, ok
}

// Offers returns the registered tools, in registration order, ready to be
// attached to a user message.
func (e *Executor) Offers() []llm.ToolOffer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	offers := make([]llm.ToolOffer, 0, len(e.order))
	for _, name := range e.order {
		offers = append(offers, e.defs[name])
	}
	return offers
}

// Execute runs every call in order and returns one result per call.
// Failures are reported to the model as text rather than aborting the turn.
func (e *Executor) Execute(ctx context.Context, calls []llm.ToolCall) []llm.ToolResult {
	results := make([]llm.ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, llm.ToolResult{
			ID:     call.ID,
			Name:   call.Function.Name,
			Result: e.run(ctx, call),
		})
	}
	return results
}

func (e *Executor) run(ctx context.Context, call llm.ToolCall) string {
	def, ok := e.Get(call.Function.Name)
	if !ok {
		llm.Logger().Warn("model requested unknown tool", "tool", call.Function.Name, "id", call.ID)
		return fmt.Sprintf("error: unknown tool %q", call.Function.Name)
	}

	llm.Logger().Debug("executing tool", "tool", def.Name, "id", call.ID)
	result, err := def.Invoke(ctx, call.Function.Arguments)
	if err != nil {
		llm.Logger().Warn("tool failed", "tool", def.Name, "id", call.ID, "err", err)
		return "error: " + err.Error()
	}
	return result
}
