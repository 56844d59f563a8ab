//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// shutdownSignals returns the OS signals to listen for graceful shutdown.
func shutdownSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}

// watchLifecycle maps job control onto the timer: SIGTSTP backgrounds it before the
// process stops and SIGCONT brings it back to the foreground.
func watchLifecycle(ctx context.Context, mgr TimerManager, l *log.Logger) {
	tstp := make(chan os.Signal, 1)
	cont := make(chan os.Signal, 1)
	signal.Notify(tstp, syscall.SIGTSTP)
	signal.Notify(cont, syscall.SIGCONT)

	go func() {
		defer signal.Stop(cont)
		defer signal.Stop(tstp)
		for {
			select {
			case <-ctx.Done():
				return
			case <-tstp:
				if _, err := mgr.Background(ctx); err != nil {
					l.Error("failed to background timer", "err", err)
				}
				// let the default handler actually stop the process
				signal.Reset(syscall.SIGTSTP)
				_ = syscall.Kill(os.Getpid(), syscall.SIGTSTP)
			case <-cont:
				signal.Notify(tstp, syscall.SIGTSTP)
				if _, err := mgr.Foreground(ctx); err != nil {
					l.Error("failed to foreground timer", "err", err)
				}
			}
		}
	}()
}
