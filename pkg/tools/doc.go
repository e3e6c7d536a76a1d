// Package tools compiles native Go functions into tool definitions that can
// be offered to a model, and executes the tool calls the model requests.
//
// A function is described with Func, which supplies what Go does not keep at
// run time: the tool name, its documentation and the parameter names.
//
//	def, err := tools.Compile(tools.Func("add", `Add two numbers.
//
//	Args:
//	    a: First operand.
//	    b: Second operand.`,
//		func(a, b int) string { return strconv.Itoa(a + b) },
//		tools.Arg("a"), tools.Arg("b").Default(0)))
//
// Parameters with a default are optional; everything else is required.
// Parameters whose type implements Enum, or that are restricted with
// ArgSpec.OneOf, compile to a string with a closed set of values.
package tools
