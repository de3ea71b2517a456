package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/chazu/vrep/pkg/codec"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitError   = 1
	ExitInvalid = 2 // the input document or script was rejected
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "vrep:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var decErr *codec.DecodeError
	var invalid *invalidInputError
	if errors.As(err, &decErr) || errors.As(err, &invalid) {
		return ExitInvalid
	}
	return ExitError
}
