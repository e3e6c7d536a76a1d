package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inercia/go-chatlog/pkg/tools"
)

// now is replaced in tests
var now = time.Now

const currentTimeDoc = `Get the current date and time.

Args:
    timezone: IANA time zone name, such as Europe/Paris.`

func currentTime(ctx context.Context, timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("unknown time zone %q", timezone)
	}
	return now().In(loc).Format(time.RFC1123), nil
}

const countWordsDoc = `Count the words in a text.

Args:
    text: The text to count.`

func countWords(text string) string {
	return fmt.Sprintf("%d", len(strings.Fields(text)))
}

// builtinTools returns the tools offered by "ask --tools"
func builtinTools() (*tools.Executor, error) {
	timeTool, err := tools.Compile(tools.Func("current_time", currentTimeDoc, currentTime,
		tools.Arg("timezone").Default("UTC")))
	if err != nil {
		return nil, err
	}
	wordsTool, err := tools.Compile(tools.Func("count_words", countWordsDoc, countWords, tools.Arg("text")))
	if err != nil {
		return nil, err
	}
	return tools.NewExecutor(timeTool, wordsTool)
}
