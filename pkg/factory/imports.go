package factory

import (
	"github.com/inercia/go-chatlog/pkg/llm"
	"github.com/inercia/go-chatlog/pkg/providers/mock"
	"github.com/inercia/go-chatlog/pkg/providers/openai"
)

func init() {
	mustRegister("openai", func(config llm.ClientConfig) (llm.Client, error) {
		return openai.NewClient(config)
	})
	mustRegister("mock", func(config llm.ClientConfig) (llm.Client, error) {
		return mock.NewClientFromConfig(config)
	})
}

func mustRegister(name string, constructor Constructor) {
	if err := RegisterProvider(name, constructor); err != nil {
		panic(err)
	}
}
