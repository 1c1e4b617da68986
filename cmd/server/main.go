// Package main implements the journal drill server and its admin commands:
// serving the HTTP API, running database migrations, inspecting the scenario
// catalog, and reading a student's progress from a running server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
