package pluginrt

import (
	"context"
	"sync"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
)

// RecordingDelegate wraps a ports.PluginDelegate and accumulates every
// defineBuildCommand/definePrebuildCommand declaration it sees into a
// PluginDefinedCommands value, kept separate from the delegate's
// in-memory callback so a later real build step can consume exactly
// what the plugin declared rather than replaying the invocation.
type RecordingDelegate struct {
	Delegate ports.PluginDelegate

	mu       sync.Mutex
	commands entities.PluginDefinedCommands
}

// EmitDiagnostic forwards to the wrapped delegate.
func (d *RecordingDelegate) EmitDiagnostic(diag ports.Diagnostic) {
	if d.Delegate != nil {
		d.Delegate.EmitDiagnostic(diag)
	}
}

// DefineBuildCommand records cfg and forwards to the wrapped delegate.
func (d *RecordingDelegate) DefineBuildCommand(cfg entities.BuildCommandConfig) {
	d.mu.Lock()
	d.commands.BuildCommands = append(d.commands.BuildCommands, cfg)
	d.mu.Unlock()
	if d.Delegate != nil {
		d.Delegate.DefineBuildCommand(cfg)
	}
}

// DefinePrebuildCommand records cfg and forwards to the wrapped delegate.
func (d *RecordingDelegate) DefinePrebuildCommand(cfg entities.PrebuildCommandConfig) {
	d.mu.Lock()
	d.commands.PrebuildCommands = append(d.commands.PrebuildCommands, cfg)
	d.mu.Unlock()
	if d.Delegate != nil {
		d.Delegate.DefinePrebuildCommand(cfg)
	}
}

// PluginEmittedOutput forwards to the wrapped delegate.
func (d *RecordingDelegate) PluginEmittedOutput(chunk []byte) {
	if d.Delegate != nil {
		d.Delegate.PluginEmittedOutput(chunk)
	}
}

// HandleBuildOperation forwards to the wrapped delegate.
func (d *RecordingDelegate) HandleBuildOperation(ctx context.Context, req ports.OperationRequest) (map[string]string, error) {
	return d.Delegate.HandleBuildOperation(ctx, req)
}

// HandleTestOperation forwards to the wrapped delegate.
func (d *RecordingDelegate) HandleTestOperation(ctx context.Context, req ports.OperationRequest) (map[string]string, error) {
	return d.Delegate.HandleTestOperation(ctx, req)
}

// HandleSymbolGraphRequest forwards to the wrapped delegate.
func (d *RecordingDelegate) HandleSymbolGraphRequest(ctx context.Context, req ports.SymbolGraphRequest) (map[string]string, error) {
	return d.Delegate.HandleSymbolGraphRequest(ctx, req)
}

// Commands returns the accumulated build/prebuild declarations seen so far.
func (d *RecordingDelegate) Commands() entities.PluginDefinedCommands {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commands
}

var _ ports.PluginDelegate = (*RecordingDelegate)(nil)
