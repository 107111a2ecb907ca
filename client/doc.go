// Package client provides a Go client for hastebin-style and paste.rs paste services.
//
// # Installation
//
//	go get github.com/tombowditch/upaste/client
//
// # Quick Start
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		"github.com/tombowditch/upaste/client"
//	)
//
//	func main() {
//		c, err := client.New() // hastebin.com
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Create a paste
//		res, err := c.Upload(context.Background(), []byte("Hello, World!"), client.UploadOptions{})
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println("Paste URL:", res.URL)
//
//		// Retrieve a paste (by URL or key)
//		content, _, err := c.Fetch(context.Background(), res.Key)
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println("Content:", string(content))
//	}
//
// # Backends
//
// Two response shapes are supported. JSONKeyed backends answer an upload with
// {"key": "<id>"}; the view link is built from the read root, with a /raw/
// segment when UploadOptions.Raw is set. PlainBodyURL backends (paste.rs)
// answer with the paste URL itself, which is returned unchanged. The shape is
// picked from the root URL prefix when the client is created:
//
//	c, err := client.New(
//		client.WithPasteRoot("https://paste.rs"),
//		client.WithReadRoot("https://paste.rs"),
//	)
//
// # Error Handling
//
//	content, _, err := c.Fetch(ctx, "abc123")
//	if client.IsFetchFailed(err) {
//		// Paste missing or server error
//	}
//	if client.IsResponseParseFailed(err) {
//		// Backend answered with an unexpected body
//	}
package client
