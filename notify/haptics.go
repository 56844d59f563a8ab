package notify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

type Pulse uint8

const (
	_ Pulse = iota
	PulseSuccess
	PulseHeavy
)

func (p Pulse) String() string {
	switch p {
	case PulseSuccess:
		return "success"
	case PulseHeavy:
		return "heavy"
	default:
		return fmt.Sprintf("Pulse(%d)", uint8(p))
	}
}

// LogHaptics stands in for a vibration motor by logging each pulse.
type LogHaptics struct {
	l *log.Logger
}

func NewLogHaptics(l *log.Logger) *LogHaptics {
	return &LogHaptics{l: l}
}

func (h *LogHaptics) Pulse(ctx context.Context, p Pulse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.l.Debug("haptic pulse", "pulse", p)
	return nil
}
