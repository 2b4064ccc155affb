package ports

import (
	"context"

	"github.com/weave-pm/weave/internal/domain/entities"
)

// DiagnosticSeverity mirrors the plugin wire protocol's emitDiagnostic
// severities.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityRemark  DiagnosticSeverity = "remark"
)

// Diagnostic is one emitDiagnostic message's payload.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	File     string
	Line     int
}

// OperationRequest is the shared shape of build/test operation
// requests: a subset of targets plus opaque parameters the delegate
// interprets.
type OperationRequest struct {
	Subset     []string
	Parameters map[string]string
}

// SymbolGraphRequest asks the host to emit a symbol graph for a target.
type SymbolGraphRequest struct {
	Target  string
	Options map[string]string
}

// PluginDelegate receives every message a running plugin invocation
// produces. Build/test/symbol-graph requests are answered by returning
// a result (or an error, which becomes an errorResponse); everything
// else is a one-way notification.
type PluginDelegate interface {
	EmitDiagnostic(d Diagnostic)
	DefineBuildCommand(cfg entities.BuildCommandConfig)
	DefinePrebuildCommand(cfg entities.PrebuildCommandConfig)
	PluginEmittedOutput(chunk []byte)

	HandleBuildOperation(ctx context.Context, req OperationRequest) (map[string]string, error)
	HandleTestOperation(ctx context.Context, req OperationRequest) (map[string]string, error)
	HandleSymbolGraphRequest(ctx context.Context, req SymbolGraphRequest) (map[string]string, error)
}
