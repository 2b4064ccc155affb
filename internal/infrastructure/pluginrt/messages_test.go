package pluginrt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weave-pm/weave/internal/application/ports"
)

func TestEncodePerformActionRoundTrip(t *testing.T) {
	payload, err := encodePerformAction(PerformActionInput{Parameters: map[string]string{"target": "Foo"}})
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	assert.Equal(t, typePerformAction, env.Type)
}

func TestDecodePluginMessageEmitDiagnostic(t *testing.T) {
	payload, err := encodeEnvelope(typeEmitDiagnostic, emitDiagnosticBody{
		Severity: ports.SeverityWarning,
		Message:  "deprecated API",
		File:     "Plugin.swift",
		Line:     12,
	})
	require.NoError(t, err)

	msg, err := decodePluginMessage(payload)
	require.NoError(t, err)
	assert.Equal(t, typeEmitDiagnostic, msg.kind)
	assert.Equal(t, ports.SeverityWarning, msg.diagnostic.Severity)
	assert.Equal(t, "deprecated API", msg.diagnostic.Message)
	assert.Equal(t, 12, msg.diagnostic.Line)
}

func TestDecodePluginMessageBuildOperationRequest(t *testing.T) {
	payload, err := encodeEnvelope(typeBuildOperationRequest, operationRequestBody{
		Subset:     []string{"Target"},
		Parameters: map[string]string{"configuration": "release"},
	})
	require.NoError(t, err)

	msg, err := decodePluginMessage(payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"Target"}, msg.request.Subset)
	assert.Equal(t, "release", msg.request.Parameters["configuration"])
}

func TestDecodePluginMessageUnknownType(t *testing.T) {
	payload, err := encodeEnvelope(messageType("somethingElse"), struct{}{})
	require.NoError(t, err)

	_, err = decodePluginMessage(payload)
	assert.Error(t, err)
}
