// Command typely is a text expansion daemon and snippet manager.
//
// Run `typely run` to start watching the keyboard, or use the snippet
// commands (add, list, rm, ...) to manage the library.
package main

import (
	"fmt"
	"os"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	app := newCLIApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "typely: %v\n", err)
		os.Exit(1)
	}
}
