package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/inercia/go-chatlog/pkg/chat"
	"github.com/inercia/go-chatlog/pkg/conversation"
	"github.com/inercia/go-chatlog/pkg/llm"
	"github.com/inercia/go-chatlog/pkg/tools"
)

// NewCmd creates a conversation file
type NewCmd struct {
	Model   string `help:"Target model id." default:"${default_model}" short:"m"`
	System  string `help:"System prompt." xor:"source" short:"s"`
	Prompts string `help:"YAML prompts file with model, system and user prompts." xor:"source" type:"existingfile"`
	Out     string `help:"Conversation file to write." required:"" type:"path" short:"o"`
	Force   bool   `help:"Overwrite an existing file." short:"f"`
}

func (c *NewCmd) Run(a *app) error {
	if c.System == "" && c.Prompts == "" {
		return fmt.Errorf("one of --system or --prompts is required")
	}
	if !c.Force {
		if _, err := os.Stat(c.Out); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", c.Out)
		}
	}

	model, system := c.Model, c.System
	var user string
	if c.Prompts != "" {
		prompts, err := llm.LoadPrompts(c.Prompts)
		if err != nil {
			return err
		}
		if prompts.Model != "" {
			model = prompts.Model
		}
		system = prompts.GetSystemPrompts()
		user = prompts.GetUserPrompts()
	}

	log, err := conversation.Create(model, system)
	if err != nil {
		return err
	}
	if user != "" {
		if log, err = log.AppendUserMessage(user); err != nil {
			return err
		}
	}

	if err := save(c.Out, log); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created %s (%s, %d events)\n", c.Out, log.ModelID(), log.Len())
	return nil
}

// ShowCmd prints a conversation
type ShowCmd struct {
	File string `arg:"" help:"Conversation file." type:"existingfile"`
	JSON bool   `help:"Print the stored JSON instead of a transcript."`
}

func (c *ShowCmd) Run(a *app) error {
	log, err := load(c.File)
	if err != nil {
		return err
	}
	if c.JSON {
		data, err := conversation.Marshal(log)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(data))
		return err
	}
	fmt.Fprintf(a.out, "model: %s\n\n", log.ModelID())
	_, err = fmt.Fprint(a.out, log.String())
	return err
}

// TokensCmd reports token usage against the context window
type TokensCmd struct {
	File string `arg:"" help:"Conversation file." type:"existingfile"`
}

func (c *TokensCmd) Run(a *app) error {
	log, err := load(c.File)
	if err != nil {
		return err
	}
	count, err := log.TokenCount()
	if err != nil {
		return err
	}
	limit, err := log.TokenCountMax()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d / %d tokens (%.1f%%)\n", count, limit, 100*float64(count)/float64(limit))
	return nil
}

// AskCmd appends a user turn and runs the conversation
type AskCmd struct {
	File     string   `arg:"" help:"Conversation file." type:"existingfile"`
	Text     string   `arg:"" help:"User message."`
	JSON     bool     `help:"Ask for a reply constrained to a JSON object." name:"json"`
	Tools    bool     `help:"Offer the built-in tools to the model."`
	Image    []string `help:"Image file to attach. Repeat to attach several." type:"existingfile"`
	MaxSteps int      `help:"Maximum number of model calls." default:"8"`
}

func (c *AskCmd) Run(a *app) error {
	log, err := load(c.File)
	if err != nil {
		return err
	}

	var opts []conversation.UserOption
	for _, path := range c.Image {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		opts = append(opts, conversation.WithImageType(base64.StdEncoding.EncodeToString(data), http.DetectContentType(data)))
	}
	if c.JSON {
		opts = append(opts, conversation.WithJSONResponse())
	}

	var executor *tools.Executor
	if c.Tools {
		if executor, err = builtinTools(); err != nil {
			return err
		}
		opts = append(opts, conversation.WithTools(executor.Offers()...), conversation.WithToolChoice(llm.ToolChoiceAuto))
	}

	log, err = log.AppendUserMessage(c.Text, opts...)
	if err != nil {
		return err
	}

	config := a.config
	config.Model = log.ModelID()
	completer, client, err := a.completer(config)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &chat.Runner{Completer: completer, Executor: executor, MaxSteps: c.MaxSteps}
	result, runErr := runner.Run(ctx, log)
	if result != nil {
		if err := save(c.File, result); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		return runErr
	}

	_, err = fmt.Fprintln(a.out, result.LastMessageText())
	return err
}

func load(path string) (*conversation.Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log, err := conversation.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return log, nil
}

func save(path string, log *conversation.Log) error {
	data, err := conversation.Marshal(log)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
