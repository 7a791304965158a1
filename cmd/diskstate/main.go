package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"diskstate/internal/diskstate"
)

// Exit statuses. A damaged or too-new queue record is told apart from a
// plain failure so wrapper scripts can decide whether to discard it.
const (
	exitFailure = 1
	exitRecord  = 2
	exitLocked  = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, diskstate.ErrLocked) {
		return exitLocked
	}
	switch diskstate.Kind(err) {
	case "unsupported", "corrupt":
		return exitRecord
	default:
		return exitFailure
	}
}
