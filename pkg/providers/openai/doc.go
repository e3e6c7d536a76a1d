// Package openai provides the OpenAI completion transport.
//
// The client converts provider-agnostic requests built from a conversation
// log into OpenAI chat completion requests: multi-part user content with
// images, tool offers, tool_choice and the json_object response format.
// Replies, streamed chunks and API errors are converted back into the
// llm types. Any OpenAI-compatible endpoint can be targeted through BaseURL.
package openai
