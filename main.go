// =============================================================================
// tagfill - Main Entry Point
// =============================================================================
//
// This is the main entry point for the tagfill CLI. It delegates to the
// Cobra commands in the cmd package.
//
// USAGE:
//   tagfill fill      - Fill a tag sheet from the data file
//   tagfill plan      - Print the allocation plan
//   tagfill init      - Write a default configuration file
//   tagfill version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (grid allocator, filler, document, readers)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/tagfill/cmd"
)

func main() {
	cmd.Execute()
}
