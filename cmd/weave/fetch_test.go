package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeLocalPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		arg  string
		want bool
	}{
		{name: "absolute path", arg: "/home/me/pkg", want: true},
		{name: "relative path", arg: "./pkg", want: true},
		{name: "parent relative path", arg: "../pkg", want: true},
		{name: "https url", arg: "https://example.com/pkg.git", want: false},
		{name: "ssh url", arg: "git@example.com:org/pkg.git", want: false},
		{name: "empty", arg: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, looksLikeLocalPath(tt.arg))
		})
	}
}

func TestSpecifierFromArgDispatchesOnPathShape(t *testing.T) {
	t.Parallel()

	local, err := specifierFromArg("./local-pkg")
	require.NoError(t, err)
	assert.NotEmpty(t, local.String())

	remote, err := specifierFromArg("https://example.com/org/pkg.git")
	require.NoError(t, err)
	assert.NotEmpty(t, remote.String())
}
