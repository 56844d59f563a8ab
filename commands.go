package timero

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a user action accepted by the interactive timer.
type Command uint8

const (
	_ Command = iota
	ToggleCommand
	ResetCommand
	FullResetCommand
	WorkCommand
	ShortBreakCommand
	LongBreakCommand
	SkipBreakCommand
	AutoStartCommand
	StatusCommand
	HelpCommand
	QuitCommand
)

type CommandSpec struct {
	Command     Command
	Name        string
	Aliases     []string
	Description string
}

var CommandSpecs = []CommandSpec{
	{ToggleCommand, "toggle", []string{"t", "p", "space"}, "start or pause the countdown"},
	{ResetCommand, "reset", []string{"r"}, "restart the current interval, paused"},
	{FullResetCommand, "full-reset", []string{"R"}, "back to focus and clear the pomodoro count"},
	{WorkCommand, "work", []string{"w", "focus"}, "switch to a focus interval (paused)"},
	{ShortBreakCommand, "short", []string{"s"}, "switch to a short break (paused)"},
	{LongBreakCommand, "long", []string{"l"}, "switch to a long break (paused)"},
	{SkipBreakCommand, "skip", []string{"k"}, "end the current break and go back to focus"},
	{AutoStartCommand, "autostart", []string{"a"}, "toggle starting the next interval automatically"},
	{StatusCommand, "status", []string{"?", "st"}, "print the timer state"},
	{HelpCommand, "help", []string{"h"}, "list commands"},
	{QuitCommand, "quit", []string{"q", "exit"}, "stop the timer and exit"},
}

func (c Command) String() string {
	for _, spec := range CommandSpecs {
		if spec.Command == c {
			return spec.Name
		}
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// ParseCommand resolves a command name or alias. An empty line toggles.
func ParseCommand(input string) (Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return ToggleCommand, nil
	}
	for _, spec := range CommandSpecs {
		if input == spec.Name {
			return spec.Command, nil
		}
		for _, alias := range spec.Aliases {
			if input == alias {
				return spec.Command, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
}

// SwitchTarget returns the mode a switch command selects.
func (c Command) SwitchTarget() (Mode, bool) {
	switch c {
	case WorkCommand:
		return WorkMode, true
	case ShortBreakCommand:
		return ShortBreakMode, true
	case LongBreakCommand:
		return LongBreakMode, true
	}
	return 0, false
}
