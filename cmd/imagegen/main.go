// Command imagegen generates images from text prompts across several
// vendors, saves them locally or to S3, and can serve the same
// capability to assistants over MCP.
package main

import (
	"context"
	"os"
)

func main() {
	if err := NewCLI().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
