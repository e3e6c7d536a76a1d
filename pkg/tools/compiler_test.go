package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inercia/go-chatlog/pkg/llm"
)

type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

func (Unit) EnumValues() []string {
	return []string{string(Celsius), string(Fahrenheit)}
}

type Level int

const (
	LevelLow Level = iota
	LevelHigh
)

func (Level) EnumValues() []string {
	return []string{"0", "1"}
}

const weatherDoc = `Get the current weather.

Args:
    city: The city name.
    unit: Temperature unit.`

func getWeather(ctx context.Context, city string, unit Unit) (string, error) {
	if city == "" {
		return "", fmt.Errorf("no city")
	}
	return fmt.Sprintf("22 degrees %s in %s", unit, city), nil
}

func weatherTool() Callable {
	return Func("get_weather", weatherDoc, getWeather,
		Arg("city"), Arg("unit").Default(Celsius))
}

func TestCompile(t *testing.T) {
	t.Run("weather tool", func(t *testing.T) {
		def, err := Compile(weatherTool())
		require.NoError(t, err)

		assert.Equal(t, "get_weather", def.Name)
		assert.Equal(t, "Get the current weather.", def.Description)
		require.Len(t, def.Parameters, 2)

		city := def.Parameters[0]
		assert.Equal(t, "city", city.Name)
		assert.Equal(t, TypeString, city.Type)
		assert.True(t, city.Required)
		assert.Equal(t, "The city name.", city.Description)
		assert.Nil(t, city.Enum)

		unit := def.Parameters[1]
		assert.Equal(t, "unit", unit.Name)
		assert.Equal(t, TypeString, unit.Type)
		assert.False(t, unit.Required)
		assert.Equal(t, []string{"celsius", "fahrenheit"}, unit.Enum)
	})

	t.Run("required follows declaration order", func(t *testing.T) {
		def, err := Compile(Func("f", "Do f.", func(a string, b int) string { return a + strconv.Itoa(b) },
			Arg("a"), Arg("b").Default(0)))
		require.NoError(t, err)

		offer := def.OfferSchema()
		assert.Equal(t, []string{"a"}, offer.Function.Parameters.Required)
		assert.Equal(t, "string", offer.Function.Parameters.Properties["a"].Type)
		assert.Equal(t, "number", offer.Function.Parameters.Properties["b"].Type)
	})

	t.Run("no parameters", func(t *testing.T) {
		def, err := Compile(Func("now", "Current time.", func() string { return "noon" }))
		require.NoError(t, err)
		assert.Empty(t, def.Parameters)

		data, err := json.Marshal(def.OfferSchema())
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "function",
			"function": {
				"name": "now",
				"description": "Current time.",
				"parameters": {"type": "object", "properties": {}, "required": []}
			}
		}`, string(data))
	})

	t.Run("literal values", func(t *testing.T) {
		def, err := Compile(Func("sort", "Sort things.", func(order string) string { return order },
			Arg("order").OneOf("asc", "desc")))
		require.NoError(t, err)
		assert.Equal(t, TypeString, def.Parameters[0].Type)
		assert.Equal(t, []string{"asc", "desc"}, def.Parameters[0].Enum)
	})

	t.Run("numeric and boolean kinds", func(t *testing.T) {
		def, err := Compile(Func("mix", "Mix values.",
			func(a int64, b uint8, c float32, d bool) string { return "" },
			Arg("a"), Arg("b"), Arg("c"), Arg("d")))
		require.NoError(t, err)
		types := []PrimitiveType{}
		for _, p := range def.Parameters {
			types = append(types, p.Type)
		}
		assert.Equal(t, []PrimitiveType{TypeNumber, TypeNumber, TypeNumber, TypeBoolean}, types)
	})
}

func TestCompile_Deterministic(t *testing.T) {
	first, err := Compile(weatherTool())
	require.NoError(t, err)
	second, err := Compile(weatherTool())
	require.NoError(t, err)

	assert.Equal(t, first.OfferSchema(), second.OfferSchema())

	a, err := json.Marshal(first.OfferSchema())
	require.NoError(t, err)
	b, err := json.Marshal(second.OfferSchema())
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		callable Callable
		contains string
	}{
		{
			name:     "nil callable",
			callable: nil,
			contains: "nil",
		},
		{
			name:     "not a function",
			callable: Func("x", "Doc.", 42),
			contains: "not a function",
		},
		{
			name:     "non text return",
			callable: Func("count", "Count.", func() int { return 1 }),
			contains: "tools must return text",
		},
		{
			name:     "no return",
			callable: Func("noop", "Nothing.", func() {}),
			contains: "tools must return text",
		},
		{
			name:     "missing description",
			callable: Func("nodoc", "", func(a string) string { return a }, Arg("a")),
			contains: "missing description",
		},
		{
			name:     "unnamed parameter",
			callable: Func("f", "Doc.", func(a string, b string) string { return a + b }, Arg("a")),
			contains: "#2",
		},
		{
			name:     "interface parameter",
			callable: Func("f", "Doc.", func(a any) string { return "" }, Arg("a")),
			contains: "parameters without annotation: a",
		},
		{
			name:     "unsupported type",
			callable: Func("f", "Doc.", func(a []string) string { return "" }, Arg("a")),
			contains: "unsupported parameter type",
		},
		{
			name:     "too many names",
			callable: Func("f", "Doc.", func(a string) string { return a }, Arg("a"), Arg("b")),
			contains: "declares 1 parameters",
		},
		{
			name:     "bad default",
			callable: Func("f", "Doc.", func(a int) string { return "" }, Arg("a").Default("ten")),
			contains: "not assignable",
		},
		{
			name:     "literals on a number",
			callable: Func("f", "Doc.", func(a int) string { return "" }, Arg("a").OneOf("1", "2")),
			contains: "literal values require a string",
		},
		{
			name:     "invalid name",
			callable: Func("get weather", "Doc.", func() string { return "" }),
			contains: "invalid tool name",
		},
		{
			name:     "duplicate parameter",
			callable: Func("f", "Doc.", func(a, b string) string { return "" }, Arg("a"), Arg("a")),
			contains: "duplicate parameter",
		},
		{
			name:     "integer enumeration",
			callable: Func("set_level", "Set the level.", func(l Level) string { return "" }, Arg("level")),
			contains: "enumerations must have a string kind",
		},
		{
			name:     "variadic",
			callable: Func("f", "Doc.", func(a ...string) string { return "" }, Arg("a")),
			contains: "variadic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Compile(tt.callable)
			require.Error(t, err)
			assert.Nil(t, def)
			assert.ErrorIs(t, err, llm.ErrSchema)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMustCompile(t *testing.T) {
	assert.NotPanics(t, func() { MustCompile(weatherTool()) })
	assert.Panics(t, func() { MustCompile(Func("bad", "", func() int { return 0 })) })
}
