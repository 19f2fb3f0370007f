package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/icar17/teachload/internal/cli"
	"github.com/icar17/teachload/pkg/teachload"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(teachload.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(teachload.ExitCodeForError(err))
	}
}
