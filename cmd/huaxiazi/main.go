// Package main is the entry point for the huaxiazi CLI.
//
// Usage:
//
//	huaxiazi [flags] <command> [subcommand] [args]
//
// Commands:
//
//	translate  - Translate between Mandarin and a regional dialect
//	speak      - Speak text in a dialect
//	listen     - Capture Mandarin speech from the microphone
//	history    - Saved translations (list, clear)
//	profile    - User profile card (show, set)
//	atlas      - Dialect atlas (list, show, speak)
//	dialects   - Supported dialects
//	clips      - Archived speech clips (list, export, rm)
//	devices    - Audio devices
//	config     - Configuration management (contexts, services)
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/huaxiazi/cmd/huaxiazi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
