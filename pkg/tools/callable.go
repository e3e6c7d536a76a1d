package tools

import (
	"context"
	"fmt"
	"reflect"

	"github.com/inercia/go-chatlog/pkg/llm"
)

// Callable is a native function able to describe its own signature.
// Compile turns any Callable into a Definition.
type Callable interface {
	// Describe reports the name, documentation, ordered parameters and result types
	Describe() (Signature, error)

	// Call invokes the function with one value per described parameter
	Call(ctx context.Context, args []reflect.Value) (string, error)
}

// Signature is what a Callable surfaces about itself
type Signature struct {
	Name    string
	Doc     string
	Params  []Param
	Results []reflect.Type
}

// Param is one declared parameter. An empty Name or an interface Type means
// the parameter carries no usable annotation.
type Param struct {
	Name       string
	Type       reflect.Type
	Default    any
	HasDefault bool
	Literals   []string
}

// Enum is implemented by closed enumeration types. A parameter of such a type
// compiles to a string with the returned allowed values.
type Enum interface {
	EnumValues() []string
}

// ArgSpec names and annotates one parameter of a function passed to Func
type ArgSpec struct {
	name       string
	def        any
	hasDefault bool
	literals   []string
}

// Arg names the next positional parameter
func Arg(name string) ArgSpec {
	return ArgSpec{name: name}
}

// Default gives the parameter a default value, making it optional
func (a ArgSpec) Default(value any) ArgSpec {
	a.def = value
	a.hasDefault = true
	return a
}

// OneOf restricts a string parameter to a closed set of literal values
func (a ArgSpec) OneOf(values ...string) ArgSpec {
	a.literals = append([]string{}, values...)
	return a
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	stringType  = reflect.TypeOf("")
)

type funcCallable struct {
	name        string
	doc         string
	fn          reflect.Value
	args        []ArgSpec
	withContext bool
}

// Func adapts a Go function into a Callable. Go keeps neither parameter names
// nor doc comments at run time, so they are given here: doc is the function
// documentation (first line is the description, parameters are described in
// an "Args:" section) and args name the parameters in order. A leading
// context.Context parameter receives the invocation context and is not a
// tool parameter.
//
//	weather := tools.Func("get_weather", `Get the current weather.
//
//	Args:
//	    city: The city name.
//	    unit: Temperature unit.`,
//		func(ctx context.Context, city string, unit Unit) (string, error) { ... },
//		tools.Arg("city"), tools.Arg("unit").Default(Celsius))
func Func(name, doc string, fn any, args ...ArgSpec) Callable {
	c := &funcCallable{
		name: name,
		doc:  doc,
		fn:   reflect.ValueOf(fn),
		args: args,
	}
	if c.fn.Kind() == reflect.Func {
		t := c.fn.Type()
		c.withContext = t.NumIn() > 0 && t.In(0) == contextType
	}
	return c
}

// Describe implements Callable
func (c *funcCallable) Describe() (Signature, error) {
	if !c.fn.IsValid() || c.fn.Kind() != reflect.Func || c.fn.IsNil() {
		return Signature{}, llm.Errorf(llm.ErrSchema, "tool %q is not a function", c.name)
	}
	t := c.fn.Type()
	if t.IsVariadic() {
		return Signature{}, llm.Errorf(llm.ErrSchema, "tool %q: variadic functions are not supported", c.name)
	}

	first := 0
	if c.withContext {
		first = 1
	}
	if n := t.NumIn() - first; len(c.args) > n {
		return Signature{}, llm.Errorf(llm.ErrSchema, "tool %q declares %d parameters but %d were named", c.name, n, len(c.args))
	}

	sig := Signature{Name: c.name, Doc: c.doc}
	for i := first; i < t.NumIn(); i++ {
		p := Param{Type: t.In(i)}
		if j := i - first; j < len(c.args) {
			arg := c.args[j]
			p.Name = arg.name
			p.Default = arg.def
			p.HasDefault = arg.hasDefault
			p.Literals = arg.literals
		}
		sig.Params = append(sig.Params, p)
	}
	for i := 0; i < t.NumOut(); i++ {
		sig.Results = append(sig.Results, t.Out(i))
	}
	return sig, nil
}

// Call implements Callable
func (c *funcCallable) Call(ctx context.Context, args []reflect.Value) (result string, err error) {
	in := args
	if c.withContext {
		in = append([]reflect.Value{reflect.ValueOf(ctx)}, args...)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", c.name, r)
		}
	}()

	out := c.fn.Call(in)
	if len(out) == 0 {
		return "", fmt.Errorf("tool %s returned no result", c.name)
	}
	if len(out) > 1 && !out[1].IsNil() {
		return out[0].String(), out[1].Interface().(error)
	}
	return out[0].String(), nil
}
