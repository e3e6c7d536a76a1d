package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// ErrInvalidArguments reports tool call arguments that do not match the compiled parameters
var ErrInvalidArguments = errors.New("invalid tool arguments")

// Definition is a compiled tool: the declarative schema offered to the model
// plus the callable that runs it.
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter

	callable Callable
}

// OfferSchema implements llm.ToolOffer. Required parameters are listed in
// declaration order and the list is present even when empty.
func (d *Definition) OfferSchema() llm.Tool {
	params := llm.NewParametersSchema()
	for _, p := range d.Parameters {
		prop := llm.PropertySchema{
			Type:        string(p.Type),
			Description: p.Description,
		}
		if p.Enum != nil {
			prop.Enum = append([]string{}, p.Enum...)
		}
		params.Properties[p.Name] = prop
		if p.Required {
			params.Required = append(params.Required, p.Name)
		}
	}

	return llm.Tool{
		Type: llm.ToolTypeFunction,
		Function: llm.ToolFunction{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  params,
		},
	}
}

// Parameter returns the compiled parameter with the given name
func (d *Definition) Parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Invoke decodes the JSON arguments reported by the model, fills in defaults
// and calls the underlying function.
func (d *Definition) Invoke(ctx context.Context, rawArgs string) (string, error) {
	if d.callable == nil {
		return "", fmt.Errorf("tool %s has no implementation", d.Name)
	}

	args, err := llm.ToolCall{Function: llm.ToolCallFunction{Arguments: rawArgs}}.DecodeArguments()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidArguments, d.Name, err)
	}

	values, err := d.bind(args)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidArguments, d.Name, err)
	}
	return d.callable.Call(ctx, values)
}

// bind maps the decoded arguments onto the positional parameter values
func (d *Definition) bind(args map[string]json.RawMessage) ([]reflect.Value, error) {
	var unknown []string
	for name := range args {
		if _, ok := d.Parameter(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("unknown arguments: %s", strings.Join(unknown, ", "))
	}

	values := make([]reflect.Value, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		raw, ok := args[p.Name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			if p.Required {
				return nil, fmt.Errorf("missing required argument %q", p.Name)
			}
			values = append(values, reflect.ValueOf(p.defaultValue).Convert(p.goType))
			continue
		}

		v, err := decodeValue(raw, p)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %v", p.Name, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func decodeValue(raw json.RawMessage, p Parameter) (reflect.Value, error) {
	switch p.Type {
	case TypeString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return reflect.Value{}, fmt.Errorf("expected a string")
		}
		if p.Enum != nil && !slices.Contains(p.Enum, s) {
			return reflect.Value{}, fmt.Errorf("%q is not one of %s", s, strings.Join(p.Enum, ", "))
		}
		return reflect.ValueOf(s).Convert(p.goType), nil

	case TypeBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return reflect.Value{}, fmt.Errorf("expected a boolean")
		}
		return reflect.ValueOf(b).Convert(p.goType), nil

	case TypeNumber:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return reflect.Value{}, fmt.Errorf("expected a number")
		}
		v := reflect.New(p.goType).Elem()
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if f != float64(int64(f)) || v.OverflowInt(int64(f)) {
				return reflect.Value{}, fmt.Errorf("%v is not a valid %s", f, p.goType)
			}
			v.SetInt(int64(f))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if f < 0 || f != float64(uint64(f)) || v.OverflowUint(uint64(f)) {
				return reflect.Value{}, fmt.Errorf("%v is not a valid %s", f, p.goType)
			}
			v.SetUint(uint64(f))
		default:
			v.SetFloat(f)
		}
		return v, nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported parameter type %s", p.Type)
}
