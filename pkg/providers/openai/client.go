package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// Client implements the llm.Client interface for OpenAI and compatible endpoints
type Client struct {
	client   *openai.Client
	model    string
	provider string
	baseURL  string
}

// NewClient creates a new OpenAI client
func NewClient(config llm.ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, &llm.Error{
			Code:    "missing_api_key",
			Message: "API key is required for OpenAI",
			Type:    "authentication_error",
		}
	}

	model := config.Model
	if model == "" {
		model = llm.DefaultOpenAIModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		provider: "openai",
		baseURL:  config.BaseURL,
	}, nil
}

// ChatCompletion performs a chat completion request
func (c *Client) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	openaiReq := c.convertRequest(req)

	llm.Logger().Debug("openai chat completion", "model", openaiReq.Model, "messages", len(openaiReq.Messages), "tools", len(openaiReq.Tools))
	resp, err := c.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return nil, convertError(err)
	}

	return convertResponse(resp), nil
}

// StreamChatCompletion performs a streaming chat completion request
func (c *Client) StreamChatCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamEvent, error) {
	openaiReq := c.convertRequest(req)
	openaiReq.Stream = true

	stream, err := c.client.CreateChatCompletionStream(ctx, openaiReq)
	if err != nil {
		return nil, convertError(err)
	}

	ch := make(chan llm.StreamEvent, 10)

	go func() {
		defer close(ch)
		defer func() { _ = stream.Close() }()

		send := func(ev llm.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		finishReason := llm.FinishReasonStop
		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				send(llm.NewDoneEvent(0, finishReason))
				return
			}
			if err != nil {
				send(llm.NewErrorEvent(convertError(err)))
				return
			}
			if len(response.Choices) == 0 {
				continue
			}

			choice := response.Choices[0]
			if choice.FinishReason != "" {
				finishReason = string(choice.FinishReason)
			}

			delta := convertDelta(choice.Delta)
			if delta.Content == "" && len(delta.ToolCalls) == 0 {
				continue
			}
			if !send(llm.NewDeltaEvent(choice.Index, delta)) {
				return
			}
		}
	}()

	return ch, nil
}

// GetModelInfo returns information about the model being used
func (c *Client) GetModelInfo() llm.ModelInfo {
	info, ok := llm.LookupModel(c.model)
	if !ok {
		info = llm.ModelInfo{
			Name:          c.model,
			MaxTokens:     4096,
			Encoding:      llm.EncodingCL100K,
			SupportsTools: true,
		}
	}
	info.Provider = c.provider
	return info
}

// Close cleans up any resources used by the client
func (c *Client) Close() error {
	// OpenAI client doesn't require explicit cleanup
	return nil
}

// convertRequest converts our ChatRequest to OpenAI format
func (c *Client) convertRequest(req llm.ChatRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: convertMessages(req.Messages),
		Stream:   req.Stream,
	}

	if req.Temperature != nil {
		openaiReq.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		openaiReq.MaxTokens = *req.MaxTokens
	}

	for _, tool := range req.Tools {
		openaiReq.Tools = append(openaiReq.Tools, openai.Tool{
			Type: openai.ToolType(tool.Type),
			Function: &openai.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		})
	}

	if req.ToolChoice != llm.ToolChoiceUnset {
		openaiReq.ToolChoice = string(req.ToolChoice)
	}

	if req.ResponseFormat != nil && req.ResponseFormat.Type == llm.ResponseFormatJSON {
		openaiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	return openaiReq
}

// convertMessages converts our messages to OpenAI format
func convertMessages(messages []llm.Message) []openai.ChatCompletionMessage {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))

	for _, msg := range messages {
		openaiMsg := openai.ChatCompletionMessage{
			Role:       string(msg.Role),
			ToolCallID: msg.ToolCallID,
			Name:       msg.Name,
		}

		for _, tc := range msg.ToolCalls {
			openaiMsg.ToolCalls = append(openaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolType(tc.Type),
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}

		switch {
		case msg.IsTextOnly() || msg.Role == llm.RoleTool:
			openaiMsg.Content = msg.Text()
		default:
			openaiMsg.MultiContent = convertParts(msg.Content)
		}

		// the API rejects an absent content on plain messages
		if strings.TrimSpace(openaiMsg.Content) == "" && len(openaiMsg.MultiContent) == 0 && len(openaiMsg.ToolCalls) == 0 {
			openaiMsg.Content = " "
		}

		openaiMessages = append(openaiMessages, openaiMsg)
	}

	return openaiMessages
}

// convertParts converts multi-modal content blocks to message parts
func convertParts(content []llm.MessageContent) []openai.ChatMessagePart {
	var parts []openai.ChatMessagePart
	for _, block := range content {
		switch v := block.(type) {
		case *llm.TextContent:
			if strings.TrimSpace(v.GetText()) == "" {
				continue
			}
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: v.GetText(),
			})
		case *llm.ImageContent:
			detail := openai.ImageURLDetailAuto
			if v.Detail != "" {
				detail = openai.ImageURLDetail(v.Detail)
			}
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    v.URL,
					Detail: detail,
				},
			})
		}
	}
	return parts
}

// convertResponse converts OpenAI response to our format
func convertResponse(resp openai.ChatCompletionResponse) *llm.ChatResponse {
	chatResp := &llm.ChatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	for _, choice := range resp.Choices {
		chatResp.Choices = append(chatResp.Choices, llm.Choice{
			Index:        choice.Index,
			Message:      convertMessage(choice.Message),
			FinishReason: string(choice.FinishReason),
		})
	}

	return chatResp
}

// convertMessage converts OpenAI message to our format
func convertMessage(msg openai.ChatCompletionMessage) llm.Message {
	ourMsg := llm.Message{
		Role:       llm.MessageRole(msg.Role),
		ToolCallID: msg.ToolCallID,
		Name:       msg.Name,
	}
	if ourMsg.Role == "" {
		ourMsg.Role = llm.RoleAssistant
	}

	if msg.Content != "" {
		ourMsg.Content = []llm.MessageContent{llm.NewTextContent(msg.Content)}
	}

	for _, tc := range msg.ToolCalls {
		ourMsg.ToolCalls = append(ourMsg.ToolCalls, llm.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: llm.ToolCallFunction{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}

	return ourMsg
}

// convertDelta converts one streamed chunk to a message delta
func convertDelta(d openai.ChatCompletionStreamChoiceDelta) *llm.MessageDelta {
	delta := &llm.MessageDelta{Content: d.Content}
	for i, tc := range d.ToolCalls {
		index := i
		if tc.Index != nil {
			index = *tc.Index
		}
		toolCallDelta := llm.ToolCallDelta{
			Index: index,
			ID:    tc.ID,
			Type:  string(tc.Type),
		}
		if tc.Function.Name != "" || tc.Function.Arguments != "" {
			toolCallDelta.Function = &llm.ToolCallFunctionDelta{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
		}
		delta.ToolCalls = append(delta.ToolCalls, toolCallDelta)
	}
	return delta
}

// convertError converts OpenAI error to our format
func convertError(err error) *llm.Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := "unknown"
		if apiErr.Code != nil {
			if codeStr, ok := apiErr.Code.(string); ok {
				code = codeStr
			}
		}
		return &llm.Error{
			Code:       code,
			Message:    apiErr.Message,
			Type:       apiErr.Type,
			StatusCode: apiErr.HTTPStatusCode,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.Error{
			Code:       "request_error",
			Message:    reqErr.Error(),
			Type:       "api_error",
			StatusCode: reqErr.HTTPStatusCode,
		}
	}

	return &llm.Error{
		Code:    "unknown_error",
		Message: err.Error(),
		Type:    "api_error",
	}
}
