package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weave-pm/weave/internal/domain/values"
)

func TestReferenceFromArgDerivesKindFromShape(t *testing.T) {
	t.Parallel()

	local, err := referenceFromArg("/srv/pkgs/widget")
	require.NoError(t, err)
	assert.Equal(t, values.KindLocalSourceControl, local.Kind)
	assert.Equal(t, "widget", local.Identity.String())

	remote, err := referenceFromArg("https://example.com/org/widget.git")
	require.NoError(t, err)
	assert.Equal(t, values.KindRemoteSourceControl, remote.Kind)
	assert.Equal(t, "widget", remote.Identity.String())
}

func TestReferenceFromArgRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := referenceFromArg("")
	require.Error(t, err)
}
