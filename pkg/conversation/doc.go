// Package conversation implements the immutable conversation event log.
//
// A Log starts with one system message and grows only through append
// operations, each returning a new Log:
//
//	log, _ := conversation.Create("gpt-4o", "You are a helpful assistant")
//	log, _ = log.AppendUserMessage("What's the weather in Paris?",
//		conversation.WithTools(weatherTool),
//		conversation.WithToolChoice(llm.ToolChoiceAuto))
//	req, _ := log.Request()
//	resp, _ := client.ChatCompletion(ctx, req)
//	log, _ = log.AppendReply(resp.Choices[0].Message)
//
// Logs round-trip losslessly through ToSnapshot/FromSnapshot and JSON.
package conversation
