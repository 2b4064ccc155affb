package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"resolve", "fetch", "cache", "container", "plugin", "version"} {
		assert.True(t, names[want], "expected %q registered on rootCmd", want)
	}
}

func TestCacheCommandRegistersPurgeAndReset(t *testing.T) {
	t.Parallel()

	cmd, _, err := rootCmd.Find([]string{"cache", "purge"})
	assert.NoError(t, err)
	assert.Equal(t, "purge", cmd.Name())

	cmd, _, err = rootCmd.Find([]string{"cache", "reset"})
	assert.NoError(t, err)
	assert.Equal(t, "reset", cmd.Name())
}

func TestContainerCommandRegistersVersions(t *testing.T) {
	t.Parallel()

	cmd, _, err := rootCmd.Find([]string{"container", "versions"})
	assert.NoError(t, err)
	assert.Equal(t, "versions", cmd.Name())
}

func TestPluginCommandRegistersCompileAndRun(t *testing.T) {
	t.Parallel()

	cmd, _, err := rootCmd.Find([]string{"plugin", "compile"})
	assert.NoError(t, err)
	assert.Equal(t, "compile", cmd.Name())

	cmd, _, err = rootCmd.Find([]string{"plugin", "run"})
	assert.NoError(t, err)
	assert.Equal(t, "run", cmd.Name())
}
