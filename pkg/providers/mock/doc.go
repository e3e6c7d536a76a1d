// Package mock provides a scripted completion client for tests and demos.
//
// Replies are queued with WithReplies or WithResponses and returned in order;
// queued errors take precedence. Tool calls without an ID get a fresh one on
// replay, as a real service would assign. Every request is recorded and can
// be inspected with Requests.
//
//	client := mock.NewClient("gpt-4o").WithReplies(
//		mock.ToolCallReply(mock.ToolCall("get_weather", `{"city":"Paris"}`)),
//		llm.NewTextMessage(llm.RoleAssistant, "It is sunny in Paris."),
//	)
package mock
