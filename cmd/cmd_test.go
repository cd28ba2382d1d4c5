package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"search", "batch", "villages", "accuracy", "history", "mcp", "version"} {
		assert.True(t, names[want], want)
	}

	sub := map[string]bool{}
	for _, c := range historyCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, want := range []string{"status", "clear", "export", "migrate"} {
		assert.True(t, sub[want], want)
	}
}

func TestPersistentFlagDefaults(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	tests := []struct {
		name string
		want string
	}{
		{"limit", "200"},
		{"precision", "1"},
		{"output", "text"},
		{"color", "yes"},
		{"seed", ""},
		{"history-backend", "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := flags.Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.DefValue)
		})
	}

	assert.NotNil(t, villagesCmd.Flags().Lookup("filter"))
	assert.NotNil(t, batchCmd.Flags().Lookup("input-file"))
	assert.Equal(t, "-1", historyMigrateCmd.Flags().Lookup("target-version").DefValue)
}

func TestSearchRequiresName(t *testing.T) {
	assert.Error(t, searchCmd.Args(searchCmd, nil))
	assert.NoError(t, searchCmd.Args(searchCmd, []string{"harkul", "bk."}))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "greenarea CLI")
	assert.Contains(t, buf.String(), "Version: dev")
}
