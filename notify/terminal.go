// Package notify provides alarm adapters for a terminal host
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/benjamonnguyen/timero"
)

type Notification struct {
	Title string
	Body  string
	Sound timero.AlarmSound
}

var (
	titleColor = color.New(color.FgHiMagenta, color.Bold).SprintFunc()
	bodyColor  = color.New(color.FgHiWhite).SprintFunc()
)

// bells is the number of terminal bells rung per sound.
var bells = map[timero.AlarmSound]int{
	timero.SoundBell:    1,
	timero.SoundChime:   2,
	timero.SoundDigital: 3,
	timero.SoundNone:    0,
}

// Terminal prints notifications and rings the terminal bell.
type Terminal struct {
	mu   sync.Mutex
	w    io.Writer
	bell bool
}

// NewTerminal returns a notifier writing to w. bell=false silences every sound.
func NewTerminal(w io.Writer, bell bool) *Terminal {
	return &Terminal{
		w:    w,
		bell: bell,
	}
}

func (t *Terminal) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Title == "" {
		return fmt.Errorf("provide notification title")
	}

	var sb strings.Builder
	if t.bell {
		sb.WriteString(strings.Repeat("\a", bells[n.Sound]))
	}
	sb.WriteString("\n")
	sb.WriteString(titleColor(n.Title))
	if n.Body != "" {
		sb.WriteString("  ")
		sb.WriteString(bodyColor(n.Body))
	}
	sb.WriteString("\n")

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, sb.String())
	return err
}
