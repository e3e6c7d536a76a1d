// Package llm provides the wire-level types shared by conversations, tools and
// completion transports.
//
// The main components include:
//
// - Message types: role plus an ordered list of typed content blocks (text, image)
// - Tool types: the declarative tool offer schema, tool calls and tool results
// - Request directives: tool choice and the structured-JSON response format
// - Models: the fixed table of known models, their context window and tokenizer
// - Errors: the error kinds raised by conversations and the tool compiler, and
//   the transport Error returned by providers
// - Transport helpers: ChatCompleter, retry with backoff, env configuration
//
// Provider implementations are located in separate packages under /pkg/providers/
// to maintain clean separation of concerns and avoid import cycles.
package llm
