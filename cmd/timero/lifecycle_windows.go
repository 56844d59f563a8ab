//go:build windows

package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
)

// shutdownSignals returns the OS signals to listen for graceful shutdown.
func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// watchLifecycle is a no-op on Windows (no job control signals).
func watchLifecycle(_ context.Context, _ TimerManager, _ *log.Logger) {}
