// Package factory provides provider registration and client creation.
//
// Importing the package registers the built-in transports ("openai" and
// "mock"). Further transports can be added with RegisterProvider.
//
// Example usage:
//
//	completer, client, err := factory.New().CreateCompleter(llm.GetConfigFromEnv())
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package factory
