// Tool and tool call types and functionality
package llm

import "encoding/json"

// ToolTypeFunction is the only tool type the completion service accepts
const ToolTypeFunction = "function"

// Tool is the declarative tool offer sent to the completion service
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction defines the function specification for a tool
type ToolFunction struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Parameters  ParametersSchema `json:"parameters"`
}

// ParametersSchema is the object schema describing a tool's parameters.
// Required lists the required parameter names in declaration order.
type ParametersSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// PropertySchema describes a single tool parameter
type PropertySchema struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// NewParametersSchema creates an empty object schema
func NewParametersSchema() ParametersSchema {
	return ParametersSchema{
		Type:       "object",
		Properties: map[string]PropertySchema{},
		Required:   []string{},
	}
}

// ToolOffer is anything that can be offered to the model as a tool
type ToolOffer interface {
	OfferSchema() Tool
}

// OfferSchema lets a plain Tool be offered directly
func (t Tool) OfferSchema() Tool {
	return t.DeepCopy()
}

// DeepCopy creates a deep copy of the tool schema
func (t Tool) DeepCopy() Tool {
	params := ParametersSchema{
		Type:     t.Function.Parameters.Type,
		Required: append([]string{}, t.Function.Parameters.Required...),
	}
	if t.Function.Parameters.Properties != nil {
		params.Properties = make(map[string]PropertySchema, len(t.Function.Parameters.Properties))
		for name, prop := range t.Function.Parameters.Properties {
			if prop.Enum != nil {
				prop.Enum = append([]string{}, prop.Enum...)
			}
			params.Properties[name] = prop
		}
	}
	return Tool{
		Type: t.Type,
		Function: ToolFunction{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			Parameters:  params,
		},
	}
}

// ToolCall represents a tool call made by the LLM
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction represents the function call details.
// Arguments is the raw JSON argument string reported by the model.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// DecodeArguments unmarshals the raw JSON arguments into a name -> raw value map
func (tc ToolCall) DecodeArguments() (map[string]json.RawMessage, error) {
	args := map[string]json.RawMessage{}
	if tc.Function.Arguments == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// ToolResult is the outcome of executing one tool call
type ToolResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Result string `json:"result"`
}
