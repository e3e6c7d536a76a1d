package llm

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

// TextContent represents a text content block
type TextContent struct {
	Text string `json:"text"`
}

// NewTextContent creates a new TextContent instance with the given text
func NewTextContent(text string) *TextContent {
	return &TextContent{
		Text: text,
	}
}

// Type returns the message type for text content
func (t *TextContent) Type() MessageType {
	return MessageTypeText
}

// Validate checks if the text content is valid
func (t *TextContent) Validate() error {
	if t == nil {
		return errors.New("text content cannot be nil")
	}
	if t.Text == "" {
		return errors.New("text content cannot be empty")
	}
	return nil
}

// Size returns the byte size of the text content
func (t *TextContent) Size() int64 {
	if t == nil {
		return 0
	}
	return int64(len(t.Text))
}

// GetText returns the text content as a string
func (t *TextContent) GetText() string {
	if t == nil {
		return ""
	}
	return t.Text
}

// MarshalJSON implements custom JSON marshaling for TextContent
func (t *TextContent) MarshalJSON() ([]byte, error) {
	if t == nil {
		return json.Marshal(nil)
	}

	data := struct {
		Type MessageType `json:"type"`
		Text string      `json:"text"`
	}{
		Type: t.Type(),
		Text: t.Text,
	}

	return json.Marshal(data)
}

// UnmarshalJSON implements custom JSON unmarshaling for TextContent
func (t *TextContent) UnmarshalJSON(data []byte) error {
	if t == nil {
		return errors.New("cannot unmarshal into nil TextContent")
	}

	var content struct {
		Type MessageType `json:"type"`
		Text string      `json:"text"`
	}

	if err := json.Unmarshal(data, &content); err != nil {
		return err
	}

	if content.Type != "" && content.Type != MessageTypeText {
		return errors.New("invalid content type for TextContent")
	}

	t.Text = content.Text
	return nil
}

// ImageContent represents an image content block, referenced by URL.
// Inline images use a base64 data URL.
type ImageContent struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// DefaultImageMimeType is used for inline images when no MIME type is given
const DefaultImageMimeType = "image/png"

// Supported MIME types for inline images
var supportedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// NewImageContentFromBase64 creates an inline image block from base64 encoded data
func NewImageContentFromBase64(data, mimeType string) *ImageContent {
	if mimeType == "" {
		mimeType = DefaultImageMimeType
	}
	return &ImageContent{
		URL: "data:" + mimeType + ";base64," + data,
	}
}

// NewImageContentFromURL creates an image block from a URL reference
func NewImageContentFromURL(imageURL string) *ImageContent {
	return &ImageContent{
		URL: imageURL,
	}
}

// Type returns the message type for image content
func (i *ImageContent) Type() MessageType {
	return MessageTypeImage
}

// Validate checks if the image content is valid
func (i *ImageContent) Validate() error {
	if i == nil {
		return errors.New("image content cannot be nil")
	}

	if strings.TrimSpace(i.URL) == "" {
		return errors.New("image content must have a URL")
	}

	if i.IsInline() {
		mimeType := strings.TrimPrefix(strings.SplitN(i.URL, ";", 2)[0], "data:")
		if !IsValidImageMimeType(mimeType) {
			return errors.New("unsupported image MIME type: " + mimeType)
		}
		if !strings.Contains(i.URL, ";base64,") {
			return errors.New("inline image must be base64 encoded")
		}
		return nil
	}

	if _, err := url.ParseRequestURI(i.URL); err != nil {
		return errors.New("invalid image URL: " + err.Error())
	}

	return nil
}

// Size returns the byte size of the image reference
func (i *ImageContent) Size() int64 {
	if i == nil {
		return 0
	}
	return int64(len(i.URL))
}

// IsInline returns true if the image is carried as a data URL
func (i *ImageContent) IsInline() bool {
	return i != nil && strings.HasPrefix(i.URL, "data:")
}

// IsValidImageMimeType checks if a MIME type is supported for images
func IsValidImageMimeType(mimeType string) bool {
	return supportedImageMimeTypes[mimeType]
}

// MarshalJSON implements custom JSON marshaling for ImageContent
func (i *ImageContent) MarshalJSON() ([]byte, error) {
	if i == nil {
		return json.Marshal(nil)
	}

	type imageURL struct {
		URL    string `json:"url"`
		Detail string `json:"detail,omitempty"`
	}
	data := struct {
		Type     MessageType `json:"type"`
		ImageURL imageURL    `json:"image_url"`
	}{
		Type:     i.Type(),
		ImageURL: imageURL{URL: i.URL, Detail: i.Detail},
	}

	return json.Marshal(data)
}

// UnmarshalJSON implements custom JSON unmarshaling for ImageContent
func (i *ImageContent) UnmarshalJSON(data []byte) error {
	if i == nil {
		return errors.New("cannot unmarshal into nil ImageContent")
	}

	var content struct {
		Type     MessageType `json:"type"`
		ImageURL struct {
			URL    string `json:"url"`
			Detail string `json:"detail,omitempty"`
		} `json:"image_url"`
	}

	if err := json.Unmarshal(data, &content); err != nil {
		return err
	}

	if content.Type != "" && content.Type != MessageTypeImage {
		return errors.New("invalid content type for ImageContent")
	}

	i.URL = content.ImageURL.URL
	i.Detail = content.ImageURL.Detail
	return nil
}

// unmarshalContent decodes one content block using its type discriminator
func unmarshalContent(data []byte) (MessageContent, error) {
	var typeChecker struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &typeChecker); err != nil {
		return nil, err
	}

	var content MessageContent
	switch typeChecker.Type {
	case MessageTypeText:
		content = &TextContent{}
	case MessageTypeImage:
		content = &ImageContent{}
	default:
		return nil, errors.New("unsupported content type: " + string(typeChecker.Type))
	}

	if err := json.Unmarshal(data, content); err != nil {
		return nil, err
	}
	return content, nil
}
