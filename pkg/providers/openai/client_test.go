package openai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inercia/go-chatlog/pkg/llm"
)

func TestNewClient(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewClient(llm.ClientConfig{Model: "gpt-4o"})
		require.Error(t, err)

		var llmErr *llm.Error
		require.ErrorAs(t, err, &llmErr)
		assert.Equal(t, "missing_api_key", llmErr.Code)
	})

	t.Run("default model", func(t *testing.T) {
		client, err := NewClient(llm.ClientConfig{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, llm.DefaultOpenAIModel, client.GetModelInfo().Name)
		assert.Equal(t, "openai", client.GetModelInfo().Provider)
		assert.True(t, client.GetModelInfo().SupportsVision)
	})

	t.Run("unknown model", func(t *testing.T) {
		client, err := NewClient(llm.ClientConfig{APIKey: "sk-test", Model: "local-llama", BaseURL: "http://localhost:8080/v1"})
		require.NoError(t, err)
		info := client.GetModelInfo()
		assert.Equal(t, "local-llama", info.Name)
		assert.False(t, info.SupportsVision)
		assert.NoError(t, client.Close())
	})
}

func TestConvertRequest(t *testing.T) {
	client := &Client{model: "gpt-4o", provider: "openai"}

	params := llm.NewParametersSchema()
	params.Properties["city"] = llm.PropertySchema{Type: "string", Description: "The city name."}
	params.Required = append(params.Required, "city")

	req := llm.ChatRequest{
		Model: "gpt-4o",
		Messages: []llm.Message{
			llm.NewTextMessage(llm.RoleSystem, "Be brief."),
			{
				Role: llm.RoleUser,
				Content: []llm.MessageContent{
					llm.NewTextContent("What is in this picture?"),
					llm.NewImageContentFromBase64("aGVsbG8=", "image/jpeg"),
				},
			},
		},
		Tools: []llm.Tool{{
			Type: llm.ToolTypeFunction,
			Function: llm.ToolFunction{
				Name:        "get_weather",
				Description: "Get the current weather.",
				Parameters:  params,
			},
		}},
		ToolChoice:     llm.ToolChoiceAuto,
		ResponseFormat: llm.NewJSONResponseFormat(),
	}

	out := client.convertRequest(req)
	assert.Equal(t, "gpt-4o", out.Model)
	require.Len(t, out.Messages, 2)

	assert.Equal(t, "system", out.Messages[0].Role)
	assert.Equal(t, "Be brief.", out.Messages[0].Content)

	user := out.Messages[1]
	assert.Empty(t, user.Content)
	require.Len(t, user.MultiContent, 2)
	assert.Equal(t, openai.ChatMessagePartTypeText, user.MultiContent[0].Type)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, user.MultiContent[1].Type)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", user.MultiContent[1].ImageURL.URL)
	assert.Equal(t, openai.ImageURLDetailAuto, user.MultiContent[1].ImageURL.Detail)

	require.Len(t, out.Tools, 1)
	assert.Equal(t, openai.ToolTypeFunction, out.Tools[0].Type)
	assert.Equal(t, "get_weather", out.Tools[0].Function.Name)
	data, err := json.Marshal(out.Tools[0].Function.Parameters)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"city":{"type":"string","description":"The city name."}},"required":["city"]}`, string(data))

	assert.Equal(t, "auto", out.ToolChoice)
	require.NotNil(t, out.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, out.ResponseFormat.Type)
}

func TestConvertRequest_Unset(t *testing.T) {
	client := &Client{model: "gpt-4", provider: "openai"}

	out := client.convertRequest(llm.ChatRequest{
		Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "hi")},
	})
	assert.Equal(t, "gpt-4", out.Model)
	assert.Nil(t, out.ToolChoice)
	assert.Nil(t, out.ResponseFormat)
	assert.Empty(t, out.Tools)
}

func TestConvertMessages(t *testing.T) {
	t.Run("tool call round", func(t *testing.T) {
		messages := []llm.Message{
			{
				Role: llm.RoleAssistant,
				ToolCalls: []llm.ToolCall{{
					ID:       "call_1",
					Type:     llm.ToolTypeFunction,
					Function: llm.ToolCallFunction{Name: "get_weather", Arguments: `{"city":"Paris"}`},
				}},
			},
			llm.NewToolResultMessage("call_1", "get_weather", "sunny"),
		}

		out := convertMessages(messages)
		require.Len(t, out, 2)

		assert.Equal(t, "", out[0].Content)
		require.Len(t, out[0].ToolCalls, 1)
		assert.Equal(t, "call_1", out[0].ToolCalls[0].ID)
		assert.Equal(t, `{"city":"Paris"}`, out[0].ToolCalls[0].Function.Arguments)

		assert.Equal(t, "tool", out[1].Role)
		assert.Equal(t, "sunny", out[1].Content)
		assert.Equal(t, "call_1", out[1].ToolCallID)
		assert.Equal(t, "get_weather", out[1].Name)
	})

	t.Run("empty content becomes a space", func(t *testing.T) {
		out := convertMessages([]llm.Message{
			{Role: llm.RoleUser, Content: []llm.MessageContent{llm.NewTextContent("   \t\n   ")}},
			{Role: llm.RoleAssistant},
		})
		require.Len(t, out, 2)
		assert.Equal(t, " ", out[0].Content)
		assert.Nil(t, out[0].MultiContent)
		assert.Equal(t, " ", out[1].Content)
	})

	t.Run("text blocks are joined", func(t *testing.T) {
		out := convertMessages([]llm.Message{{
			Role:    llm.RoleUser,
			Content: []llm.MessageContent{llm.NewTextContent("first"), llm.NewTextContent("second")},
		}})
		assert.Equal(t, "first\nsecond", out[0].Content)
	})
}

func TestConvertResponse(t *testing.T) {
	resp := convertResponse(openai.ChatCompletionResponse{
		ID:    "chatcmpl-1",
		Model: "gpt-4o",
		Choices: []openai.ChatCompletionChoice{{
			Index: 0,
			Message: openai.ChatCompletionMessage{
				Role: "assistant",
				ToolCalls: []openai.ToolCall{{
					ID:       "call_9",
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: "get_weather", Arguments: `{"city":"Rome"}`},
				}},
			},
			FinishReason: openai.FinishReasonToolCalls,
		}},
		Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	})

	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, llm.FinishReasonToolCalls, resp.Choices[0].FinishReason)
	assert.True(t, resp.RequiresToolExecution())

	msg := resp.Choices[0].Message
	assert.Equal(t, llm.RoleAssistant, msg.Role)
	assert.Empty(t, msg.Content)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "call_9", msg.ToolCalls[0].ID)
	assert.Equal(t, "get_weather", msg.ToolCalls[0].Function.Name)
}

func TestConvertDelta(t *testing.T) {
	second := 1
	delta := convertDelta(openai.ChatCompletionStreamChoiceDelta{
		Content: "Hel",
		ToolCalls: []openai.ToolCall{{
			Index:    &second,
			ID:       "call_2",
			Function: openai.FunctionCall{Arguments: `{"a":`},
		}},
	})

	assert.Equal(t, "Hel", delta.Content)
	require.Len(t, delta.ToolCalls, 1)
	assert.Equal(t, 1, delta.ToolCalls[0].Index)
	assert.Equal(t, "call_2", delta.ToolCalls[0].ID)
	require.NotNil(t, delta.ToolCalls[0].Function)
	assert.Equal(t, `{"a":`, delta.ToolCalls[0].Function.Arguments)
}

func TestConvertError(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		err := convertError(&openai.APIError{
			Code:           "rate_limit_exceeded",
			Message:        "slow down",
			Type:           "rate_limit_error",
			HTTPStatusCode: 429,
		})
		assert.Equal(t, "rate_limit_exceeded", err.Code)
		assert.Equal(t, 429, err.StatusCode)
		assert.True(t, err.IsRateLimit())
	})

	t.Run("request error", func(t *testing.T) {
		err := convertError(&openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")})
		assert.Equal(t, "request_error", err.Code)
		assert.Equal(t, 502, err.StatusCode)
	})

	t.Run("other error", func(t *testing.T) {
		err := convertError(errors.New("connection refused"))
		assert.Equal(t, "unknown_error", err.Code)
		assert.Equal(t, "connection refused", err.Message)
	})
}
