package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextContent(t *testing.T) {
	text := NewTextContent("Hello, world!")
	assert.Equal(t, MessageTypeText, text.Type())
	assert.Equal(t, "Hello, world!", text.GetText())
	assert.Equal(t, int64(13), text.Size())
	assert.NoError(t, text.Validate())

	assert.Error(t, NewTextContent("").Validate())

	var nilText *TextContent
	assert.Equal(t, "", nilText.GetText())
	assert.Equal(t, int64(0), nilText.Size())
	assert.Error(t, nilText.Validate())
}

func TestTextContent_JSON(t *testing.T) {
	data, err := json.Marshal(NewTextContent("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text","text":"hi"}`, string(data))

	var decoded TextContent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "hi", decoded.Text)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"image_url","text":"hi"}`), &decoded))
}

func TestImageContent(t *testing.T) {
	tests := []struct {
		name    string
		image   *ImageContent
		inline  bool
		wantErr bool
	}{
		{
			name:   "inline png",
			image:  NewImageContentFromBase64("aGVsbG8=", ""),
			inline: true,
		},
		{
			name:   "inline jpeg",
			image:  NewImageContentFromBase64("aGVsbG8=", "image/jpeg"),
			inline: true,
		},
		{
			name:    "inline unsupported type",
			image:   NewImageContentFromBase64("aGVsbG8=", "image/tiff"),
			inline:  true,
			wantErr: true,
		},
		{
			name:    "inline without base64 marker",
			image:   &ImageContent{URL: "data:image/png,raw"},
			inline:  true,
			wantErr: true,
		},
		{
			name:  "remote url",
			image: NewImageContentFromURL("https://example.com/cat.png"),
		},
		{
			name:    "empty url",
			image:   NewImageContentFromURL(""),
			wantErr: true,
		},
		{
			name:    "relative url",
			image:   NewImageContentFromURL("cat.png"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, MessageTypeImage, tt.image.Type())
			assert.Equal(t, tt.inline, tt.image.IsInline())
			if tt.wantErr {
				assert.Error(t, tt.image.Validate())
			} else {
				assert.NoError(t, tt.image.Validate())
			}
		})
	}

	assert.Equal(t, "data:image/png;base64,aGVsbG8=", NewImageContentFromBase64("aGVsbG8=", "").URL)
}

func TestImageContent_JSON(t *testing.T) {
	image := &ImageContent{URL: "https://example.com/cat.png", Detail: "low"}

	data, err := json.Marshal(image)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"image_url","image_url":{"url":"https://example.com/cat.png","detail":"low"}}`, string(data))

	var decoded ImageContent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *image, decoded)

	data, err = json.Marshal(NewImageContentFromBase64("aGVsbG8=", "image/png"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"image_url","image_url":{"url":"data:image/png;base64,aGVsbG8="}}`, string(data))
}

func TestIsValidMessageType(t *testing.T) {
	assert.True(t, IsValidMessageType(MessageTypeText))
	assert.True(t, IsValidMessageType(MessageTypeImage))
	assert.False(t, IsValidMessageType("file"))
	assert.False(t, IsValidMessageType(""))
}
