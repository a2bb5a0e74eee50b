// Command shotdeck turns screenshots into PowerPoint decks.
package main

import (
	"fmt"
	"os"
)

// build is set via ldflags at build time.
var build = "unknown"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
