// ABOUTME: Tests for terminal command parsing
// ABOUTME: Covers slash commands, chat text, and quoted /save fields

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want commandKind
		text string
	}{
		{"/open", cmdOpen, ""},
		{"/close", cmdClose, ""},
		{"/toggle", cmdToggle, ""},
		{"/stop", cmdStop, ""},
		{"/view", cmdView, ""},
		{"/bump", cmdBump, ""},
		{"/q", cmdQuit, ""},
		{"  hello there  ", cmdSend, "hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, ok, err := parseCommand(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, cmd.kind)
			assert.Equal(t, tt.text, cmd.text)
		})
	}
}

func TestParseCommand_Blank(t *testing.T) {
	_, ok, err := parseCommand("   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseCommand_Unknown(t *testing.T) {
	_, _, err := parseCommand("/dance")
	assert.ErrorContains(t, err, "unknown command /dance")
}

func TestParseCommand_SaveQuotedFields(t *testing.T) {
	cmd, ok, err := parseCommand(`/save name="Ada Lovelace" email=ada@example.com note='a=b'`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cmdSave, cmd.kind)
	assert.Equal(t, map[string]string{
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
		"note":  "a=b",
	}, cmd.fields)
}

func TestParseCommand_SaveErrors(t *testing.T) {
	_, _, err := parseCommand(`/save name="unterminated`)
	assert.ErrorContains(t, err, "parsing fields")

	_, _, err = parseCommand(`/save justaword`)
	assert.ErrorContains(t, err, "must be name=value")
}
