// Package chat runs a conversation log against a completion transport,
// executing the tools the model asks for until it answers in text.
package chat
