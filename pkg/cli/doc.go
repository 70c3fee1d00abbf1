// Package cli holds the terminal helpers shared by the huaxiazi commands.
//
// This package includes:
//   - Output formatting (YAML, JSON, table, raw) with optional jq queries
//   - Result cards rendered with lipgloss
//   - Batch input files (YAML/JSON)
//   - Data directory layout
//
// Example usage:
//
//	err := cli.Output(history, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".[0].translatedText",
//	})
package cli
