package pluginrt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
)

type stubDelegate struct {
	diagnostics []ports.Diagnostic
}

func (s *stubDelegate) EmitDiagnostic(d ports.Diagnostic)                    { s.diagnostics = append(s.diagnostics, d) }
func (s *stubDelegate) DefineBuildCommand(entities.BuildCommandConfig)       {}
func (s *stubDelegate) DefinePrebuildCommand(entities.PrebuildCommandConfig) {}
func (s *stubDelegate) PluginEmittedOutput([]byte)                          {}
func (s *stubDelegate) HandleBuildOperation(context.Context, ports.OperationRequest) (map[string]string, error) {
	return map[string]string{"ok": "true"}, nil
}
func (s *stubDelegate) HandleTestOperation(context.Context, ports.OperationRequest) (map[string]string, error) {
	return nil, nil
}
func (s *stubDelegate) HandleSymbolGraphRequest(context.Context, ports.SymbolGraphRequest) (map[string]string, error) {
	return nil, nil
}

func TestRecordingDelegateAccumulatesCommands(t *testing.T) {
	stub := &stubDelegate{}
	rec := &RecordingDelegate{Delegate: stub}

	rec.DefineBuildCommand(entities.BuildCommandConfig{DisplayName: "generate"})
	rec.DefinePrebuildCommand(entities.PrebuildCommandConfig{DisplayName: "codegen"})
	rec.EmitDiagnostic(ports.Diagnostic{Severity: ports.SeverityWarning, Message: "heads up"})

	cmds := rec.Commands()
	require.Len(t, cmds.BuildCommands, 1)
	require.Len(t, cmds.PrebuildCommands, 1)
	assert.Equal(t, "generate", cmds.BuildCommands[0].DisplayName)
	assert.Equal(t, "codegen", cmds.PrebuildCommands[0].DisplayName)
	require.Len(t, stub.diagnostics, 1)
}

func TestRecordingDelegateForwardsOperationRequests(t *testing.T) {
	stub := &stubDelegate{}
	rec := &RecordingDelegate{Delegate: stub}

	result, err := rec.HandleBuildOperation(context.Background(), ports.OperationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "true", result["ok"])
}
