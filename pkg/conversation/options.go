package conversation

import (
	"github.com/inercia/go-chatlog/pkg/llm"
)

// UserOption attaches an image or a directive to a user turn
type UserOption func(*userTurn) error

type userTurn struct {
	images []*llm.ImageContent
	hint   string
	format *llm.ResponseFormat
	offers []llm.ToolOffer
	choice llm.ToolChoice
}

// WithImage attaches a base64 encoded PNG image. The model must support image input.
// Images are appended in option order.
func WithImage(base64Data string) UserOption {
	return WithImageType(base64Data, llm.DefaultImageMimeType)
}

// WithImageType attaches a base64 encoded image of the given MIME type
func WithImageType(base64Data, mimeType string) UserOption {
	return func(t *userTurn) error {
		if base64Data == "" {
			return llm.Errorf(llm.ErrConfig, "image data is empty")
		}
		t.images = append(t.images, llm.NewImageContentFromBase64(base64Data, mimeType))
		return nil
	}
}

// WithResponseFormat sets the response_format directive. Only the
// structured-JSON format is accepted.
func WithResponseFormat(format llm.ResponseFormat) UserOption {
	return func(t *userTurn) error {
		if err := format.Validate(); err != nil {
			return err
		}
		t.format = &format
		return nil
	}
}

// WithJSONResponse asks for a reply constrained to a single JSON object
func WithJSONResponse() UserOption {
	return WithResponseFormat(*llm.NewJSONResponseFormat())
}

// WithJSONShape asks for a JSON reply and adds a text block with the JSON
// Schema of the given struct to the user turn
func WithJSONShape(structType any) UserOption {
	return func(t *userTurn) error {
		hint, err := llm.JSONShapeHint(structType)
		if err != nil {
			return llm.Errorf(llm.ErrConfig, "%v", err)
		}
		t.hint = hint
		t.format = llm.NewJSONResponseFormat()
		return nil
	}
}

// WithTools offers tools to the next model call
func WithTools(offers ...llm.ToolOffer) UserOption {
	return func(t *userTurn) error {
		for i, offer := range offers {
			if offer == nil {
				return llm.Errorf(llm.ErrConfig, "tool offer %d is nil", i)
			}
		}
		t.offers = append(t.offers, offers...)
		return nil
	}
}

// WithToolChoice sets the tool_choice directive (none or auto)
func WithToolChoice(choice llm.ToolChoice) UserOption {
	return func(t *userTurn) error {
		if err := choice.Validate(); err != nil {
			return err
		}
		t.choice = choice
		return nil
	}
}

// offer compiles the offered tools into their wire schemas, rejecting duplicate names
func (t *userTurn) offer() ([]llm.Tool, error) {
	if len(t.offers) == 0 {
		return nil, nil
	}
	seen := map[string]bool{}
	tools := make([]llm.Tool, 0, len(t.offers))
	for _, offer := range t.offers {
		tool := offer.OfferSchema()
		if tool.Function.Name == "" {
			return nil, llm.Errorf(llm.ErrConfig, "offered tool has no name")
		}
		if seen[tool.Function.Name] {
			return nil, llm.Errorf(llm.ErrConfig, "tool %q offered twice", tool.Function.Name)
		}
		seen[tool.Function.Name] = true
		tools = append(tools, tool)
	}
	return tools, nil
}
