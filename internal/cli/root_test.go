package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(DefaultFactory)
	require.NotNil(t, cmd)
	assert.Equal(t, "libraryctl", cmd.Use)
	assert.Contains(t, cmd.Long, "library backend")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(DefaultFactory)
	commands := []string{"login", "logout", "whoami", "books", "members", "loans", "dashboard"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(DefaultFactory)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestWhoamiCommandFlags(t *testing.T) {
	cmd := NewRootCommand(DefaultFactory)
	whoamiCmd, _, err := cmd.Find([]string{"whoami"})
	require.NoError(t, err)

	verifyFlag := whoamiCmd.Flags().Lookup("verify")
	require.NotNil(t, verifyFlag)
	assert.Equal(t, "false", verifyFlag.DefValue)
}

func TestBooksListCommandFlags(t *testing.T) {
	cmd := NewRootCommand(DefaultFactory)
	listCmd, _, err := cmd.Find([]string{"books", "list"})
	require.NoError(t, err)

	availabilityFlag := listCmd.Flags().Lookup("availability")
	require.NotNil(t, availabilityFlag)
	assert.Equal(t, "all", availabilityFlag.DefValue)

	orderFlag := listCmd.Flags().Lookup("order")
	require.NotNil(t, orderFlag)
	assert.Equal(t, "asc", orderFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "wrapped", assert.AnError)))
}
