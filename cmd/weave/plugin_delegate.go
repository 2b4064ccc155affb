package main

import (
	"context"
	"fmt"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
)

// consoleDelegate answers a running plugin's messages by printing them
// to stdout. Build/test/symbol-graph operations have no real executor
// on the CLI path yet, so they echo back their parameters unchanged.
type consoleDelegate struct{}

func (consoleDelegate) EmitDiagnostic(d ports.Diagnostic) {
	if d.File != "" {
		fmt.Printf("%s: %s:%d: %s\n", d.Severity, d.File, d.Line, d.Message)
		return
	}
	fmt.Printf("%s: %s\n", d.Severity, d.Message)
}

func (consoleDelegate) DefineBuildCommand(cfg entities.BuildCommandConfig) {
	fmt.Printf("build command %q: %s %v\n", cfg.DisplayName, cfg.Executable, cfg.Arguments)
}

func (consoleDelegate) DefinePrebuildCommand(cfg entities.PrebuildCommandConfig) {
	fmt.Printf("prebuild command %q: %s %v\n", cfg.DisplayName, cfg.Executable, cfg.Arguments)
}

func (consoleDelegate) PluginEmittedOutput(chunk []byte) {
	fmt.Print(string(chunk))
}

func (consoleDelegate) HandleBuildOperation(ctx context.Context, req ports.OperationRequest) (map[string]string, error) {
	return req.Parameters, nil
}

func (consoleDelegate) HandleTestOperation(ctx context.Context, req ports.OperationRequest) (map[string]string, error) {
	return req.Parameters, nil
}

func (consoleDelegate) HandleSymbolGraphRequest(ctx context.Context, req ports.SymbolGraphRequest) (map[string]string, error) {
	return req.Options, nil
}

var _ ports.PluginDelegate = consoleDelegate{}
