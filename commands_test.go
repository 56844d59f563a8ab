package timero

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()
	tests := map[string]Command{
		"":           ToggleCommand,
		"  ":         ToggleCommand,
		"space":      ToggleCommand,
		"t":          ToggleCommand,
		"r":          ResetCommand,
		"R":          FullResetCommand,
		"full-reset": FullResetCommand,
		" focus ":    WorkCommand,
		"s":          ShortBreakCommand,
		"long":       LongBreakCommand,
		"k":          SkipBreakCommand,
		"a":          AutoStartCommand,
		"?":          StatusCommand,
		"exit":       QuitCommand,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCommand(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseCommand("bogus")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestCommandSpecs_UniqueNames(t *testing.T) {
	t.Parallel()
	seen := make(map[string]Command)
	for _, spec := range CommandSpecs {
		for _, name := range append([]string{spec.Name}, spec.Aliases...) {
			prev, dup := seen[name]
			assert.False(t, dup, "%q used by %s and %s", name, prev, spec.Command)
			seen[name] = spec.Command
		}
	}
}

func TestCommand_SwitchTarget(t *testing.T) {
	t.Parallel()
	m, ok := ShortBreakCommand.SwitchTarget()
	assert.True(t, ok)
	assert.Equal(t, ShortBreakMode, m)

	_, ok = ToggleCommand.SwitchTarget()
	assert.False(t, ok)
}
