package tools

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// PrimitiveType is the JSON type of a tool parameter
type PrimitiveType string

const (
	TypeString  PrimitiveType = "string"
	TypeNumber  PrimitiveType = "number"
	TypeBoolean PrimitiveType = "boolean"
)

// Parameter describes one declared parameter of a tool.
// Enum is set only for enumeration and literal-set parameters, which are always strings.
type Parameter struct {
	Name        string
	Type        PrimitiveType
	Required    bool
	Description string
	Enum        []string

	goType       reflect.Type
	defaultValue any
}

var (
	enumType  = reflect.TypeOf((*Enum)(nil)).Elem()
	toolNameR = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
)

// Compile builds a Definition from a Callable. It fails with llm.ErrSchema
// when the callable does not return text, when a parameter has no usable
// annotation or an unsupported type, or when the documentation has no
// description. Compiling the same callable twice gives equal definitions.
func Compile(c Callable) (*Definition, error) {
	if c == nil {
		return nil, llm.Errorf(llm.ErrSchema, "callable is nil")
	}
	sig, err := c.Describe()
	if err != nil {
		return nil, err
	}

	if !toolNameR.MatchString(sig.Name) {
		return nil, llm.Errorf(llm.ErrSchema, "invalid tool name %q", sig.Name)
	}
	if !returnsText(sig.Results) {
		return nil, llm.Errorf(llm.ErrSchema, "tool %s: tools must return text", sig.Name)
	}

	var unannotated []string
	for i, p := range sig.Params {
		if p.Name == "" || p.Type == nil || p.Type.Kind() == reflect.Interface {
			unannotated = append(unannotated, paramLabel(i, p))
		}
	}
	if len(unannotated) > 0 {
		return nil, llm.Errorf(llm.ErrSchema, "tool %s: parameters without annotation: %s", sig.Name, strings.Join(unannotated, ", "))
	}

	doc := parseDoc(sig.Doc)
	if doc.Short == "" {
		return nil, llm.Errorf(llm.ErrSchema, "tool %s: missing description", sig.Name)
	}

	def := &Definition{
		Name:        sig.Name,
		Description: doc.Short,
		Parameters:  make([]Parameter, 0, len(sig.Params)),
		callable:    c,
	}
	seen := map[string]bool{}
	for _, p := range sig.Params {
		if seen[p.Name] {
			return nil, llm.Errorf(llm.ErrSchema, "tool %s: duplicate parameter %q", sig.Name, p.Name)
		}
		seen[p.Name] = true

		param, err := compileParam(p)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", sig.Name, err)
		}
		param.Description = doc.Params[p.Name]
		def.Parameters = append(def.Parameters, param)
	}
	return def, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(c Callable) *Definition {
	def, err := Compile(c)
	if err != nil {
		panic(err)
	}
	return def
}

func returnsText(results []reflect.Type) bool {
	switch len(results) {
	case 1:
		return results[0] == stringType
	case 2:
		return results[0] == stringType && results[1] == errorType
	default:
		return false
	}
}

func paramLabel(i int, p Param) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%d", i+1)
}

// compileParam resolves the primitive type, enumeration and default of one parameter
func compileParam(p Param) (Parameter, error) {
	param := Parameter{
		Name:     p.Name,
		Required: !p.HasDefault,
		goType:   p.Type,
	}

	primitive, enum, err := resolveType(p.Type)
	if err != nil {
		return Parameter{}, llm.Errorf(llm.ErrSchema, "parameter %s: %v", p.Name, err)
	}
	if len(p.Literals) > 0 {
		if p.Type.Kind() != reflect.String {
			return Parameter{}, llm.Errorf(llm.ErrSchema, "parameter %s: literal values require a string parameter, not %s", p.Name, p.Type)
		}
		primitive, enum = TypeString, append([]string{}, p.Literals...)
	}
	param.Type = primitive
	param.Enum = enum

	if p.HasDefault {
		value, err := convertDefault(p.Default, p.Type)
		if err != nil {
			return Parameter{}, llm.Errorf(llm.ErrSchema, "parameter %s: %v", p.Name, err)
		}
		param.defaultValue = value
	}
	return param, nil
}

// resolveType maps a Go type onto a primitive JSON type
func resolveType(t reflect.Type) (PrimitiveType, []string, error) {
	if values, ok := enumValues(t); ok {
		if t.Kind() != reflect.String {
			return "", nil, fmt.Errorf("unsupported parameter type %s: enumerations must have a string kind, not %s", t, t.Kind())
		}
		if len(values) == 0 {
			return "", nil, fmt.Errorf("enumeration %s has no values", t)
		}
		return TypeString, values, nil
	}

	switch t.Kind() {
	case reflect.String:
		return TypeString, nil, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber, nil, nil
	case reflect.Bool:
		return TypeBoolean, nil, nil
	default:
		return "", nil, fmt.Errorf("unsupported parameter type %s", t)
	}
}

// enumValues returns the allowed values when t is an enumeration type
func enumValues(t reflect.Type) ([]string, bool) {
	switch {
	case t.Implements(enumType):
		return append([]string{}, reflect.Zero(t).Interface().(Enum).EnumValues()...), true
	case reflect.PointerTo(t).Implements(enumType):
		return append([]string{}, reflect.New(t).Interface().(Enum).EnumValues()...), true
	default:
		return nil, false
	}
}

func convertDefault(value any, t reflect.Type) (any, error) {
	if value == nil {
		return reflect.Zero(t).Interface(), nil
	}
	v := reflect.ValueOf(value)
	if kindClass(v.Kind()) != kindClass(t.Kind()) || !v.Type().ConvertibleTo(t) {
		return nil, fmt.Errorf("default of type %s is not assignable to %s", v.Type(), t)
	}
	return v.Convert(t).Interface(), nil
}

// kindClass groups kinds that convert into each other without changing meaning
func kindClass(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	default:
		return k.String()
	}
}
