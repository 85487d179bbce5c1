package main

import (
	"log"
	"os"
)

func main() {
	// Log output goes to stderr, never stdout (MCP uses stdout for JSON-RPC).
	log.SetOutput(os.Stderr)

	Execute()
}
