// Package main provides the genmap binary entry point.
// Genmap builds predicate-usage catalogs from RDF dump files for use
// as per-dataset predicate indices in query translation.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/c360studio/genmap/commands"
)

// Version and BuildTime are set at build time via -ldflags.
var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := commands.NewRoot(fmt.Sprintf("%s (built %s)", Version, BuildTime)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
