// Command chatlog keeps LLM conversations in JSON files and advances them
// against a completion provider.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/inercia/go-chatlog/pkg/factory"
	"github.com/inercia/go-chatlog/pkg/llm"
)

// CLI is the command line of chatlog
type CLI struct {
	LogLevel string `help:"Log level (${enum})." default:"warn" enum:"debug,info,warn,error" env:"LLM_LOG_LEVEL"`
	Provider string `help:"Completion provider, overriding LLM_PROVIDER." placeholder:"NAME"`

	New    NewCmd    `cmd:"" help:"Start a conversation file."`
	Show   ShowCmd   `cmd:"" help:"Print the transcript of a conversation."`
	Tokens TokensCmd `cmd:"" help:"Report the token count of a conversation."`
	Ask    AskCmd    `cmd:"" help:"Add a user turn and run the conversation until the model replies."`
}

// app carries what the commands need besides their flags
type app struct {
	out       io.Writer
	config    llm.ClientConfig
	completer func(llm.ClientConfig) (llm.ChatCompleter, llm.Client, error)
}

func newApp(cli *CLI, out io.Writer) *app {
	config := llm.GetConfigFromEnv()
	if cli.Provider != "" {
		config.Provider = cli.Provider
	}
	return &app{
		out:       out,
		config:    config,
		completer: factory.New().CreateCompleter,
	}
}

func setupLogging(level string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "chatlog",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if parsed, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	llm.SetLogger(logger)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("chatlog"),
		kong.Description("Keep LLM conversations as immutable event logs."),
		kong.UsageOnError(),
		kong.Vars{"default_model": llm.DefaultOpenAIModel},
	)

	setupLogging(cli.LogLevel)
	err := ctx.Run(newApp(&cli, os.Stdout))
	ctx.FatalIfErrorf(err)
}
