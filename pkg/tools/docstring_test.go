package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDoc(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		short  string
		params map[string]string
	}{
		{
			name:   "empty",
			doc:    "",
			short:  "",
			params: map[string]string{},
		},
		{
			name:   "short description only",
			doc:    "\n   Get the current weather.\n\n   More details here.\n",
			short:  "Get the current weather.",
			params: map[string]string{},
		},
		{
			name: "google style",
			doc: `Get the current weather.

Args:
    city: The city name.
    unit (str): Temperature unit.

Returns:
    A short report.`,
			short: "Get the current weather.",
			params: map[string]string{
				"city": "The city name.",
				"unit": "Temperature unit.",
			},
		},
		{
			name: "google style with continuation lines",
			doc: `Search the index.

Args:
    query: The text to look for,
        matched case insensitively.
    limit: Maximum hits.`,
			short: "Search the index.",
			params: map[string]string{
				"query": "The text to look for, matched case insensitively.",
				"limit": "Maximum hits.",
			},
		},
		{
			name: "rest style",
			doc: `Convert a temperature.

:param value: The temperature.
:param str unit: The target unit.
:returns: The converted value.`,
			short: "Convert a temperature.",
			params: map[string]string{
				"value": "The temperature.",
				"unit":  "The target unit.",
			},
		},
		{
			name:   "starts with a section",
			doc:    "Args:\n    a: first",
			short:  "",
			params: map[string]string{"a": "first"},
		},
		{
			name:   "empty parameter descriptions are dropped",
			doc:    "Do things.\n\nArgs:\n    a:\n    b: second",
			short:  "Do things.",
			params: map[string]string{"b": "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := parseDoc(tt.doc)
			assert.Equal(t, tt.short, info.Short)
			assert.Equal(t, tt.params, info.Params)
		})
	}
}
