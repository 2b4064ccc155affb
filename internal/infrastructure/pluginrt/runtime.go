package pluginrt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/weave-pm/weave/internal/application/ports"
	"github.com/weave-pm/weave/internal/domain/entities"
	"github.com/weave-pm/weave/internal/infrastructure/redaction"
)

// Runtime hosts compiled plugin executables as wazero/WASI module
// instances, standing in for a native sandboxed child process (see
// DESIGN.md OQ-1). One Runtime is shared across invocations; each
// invocation gets its own module instance and stdio pipes.
type Runtime struct {
	wz wazero.Runtime
}

// NewRuntime constructs a Runtime with WASI host functions wired in.
func NewRuntime(ctx context.Context) (*Runtime, error) {
	wz := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, wz); err != nil {
		_ = wz.Close(ctx)
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}
	return &Runtime{wz: wz}, nil
}

// Close releases the underlying wazero runtime and every module it
// compiled.
func (r *Runtime) Close(ctx context.Context) error {
	return r.wz.Close(ctx)
}

// InvokeInput gathers the per-invocation parameters spec.md §4.4.2
// names: the compiled executable, the writable-directory allowlist,
// the opaque input to send, and the delegate that receives every
// message the plugin produces.
type InvokeInput struct {
	CompiledExecutable string
	SourceDirectory    string
	Sandbox            *SandboxPolicy
	Input              PerformActionInput
	Delegate           ports.PluginDelegate
	Redactor           *redaction.Redactor
}

// InvokeResult reports how the invocation ended.
type InvokeResult struct {
	Success           bool
	ErrorEmitted      bool
	StderrAccumulated string
}

// Invoke loads CompiledExecutable as a WASM module, wires its stdio to
// the framed JSON protocol, sends performAction(input), and dispatches
// every Plugin→Host message to delegate until the module exits,
// implementing spec.md §4.4.2.
func (r *Runtime) Invoke(ctx context.Context, input InvokeInput) (InvokeResult, error) {
	wasmBytes, err := os.ReadFile(input.CompiledExecutable)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("read compiled plugin: %w", err)
	}

	module, err := r.wz.CompileModule(ctx, wasmBytes)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("compile plugin module: %w", err)
	}
	defer func() { _ = module.Close(ctx) }()

	sandbox := input.Sandbox
	if sandbox == nil {
		sandbox = NewSandboxPolicy(os.TempDir())
	}
	if input.SourceDirectory != "" {
		sandbox.AllowRead(input.SourceDirectory)
	}

	stdinReader, stdinWriter := io.Pipe()
	stdoutReader, stdoutWriter := io.Pipe()

	var stderrBuf stderrAccumulator
	stderrWriter := redaction.NewWriter(&stderrBuf, input.Redactor)

	cfg := wazero.NewModuleConfig().
		WithFSConfig(sandbox.FSConfig()).
		WithStdin(stdinReader).
		WithStdout(stdoutWriter).
		WithStderr(stderrWriter)

	invocation := &invocationState{delegate: input.Delegate, stdin: stdinWriter}

	runDone := make(chan error, 1)
	go func() {
		instance, instErr := r.wz.InstantiateModule(ctx, module, cfg)
		if instance != nil {
			defer func() { _ = instance.Close(ctx) }()
		}
		_ = stdoutWriter.Close()
		runDone <- instErr
	}()

	readerDone := make(chan error, 1)
	go invocation.pumpStdout(ctx, stdoutReader, readerDone)

	payload, err := encodePerformAction(input.Input)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("encode performAction: %w", err)
	}
	if err := invocation.writeFrame(payload); err != nil {
		return InvokeResult{}, fmt.Errorf("send performAction: %w", err)
	}

	runErr := <-runDone
	_ = stdinWriter.Close()
	readerErr := <-readerDone

	stderrText := stderrBuf.String()
	if stderrText != "" && input.Delegate != nil {
		input.Delegate.PluginEmittedOutput([]byte(stderrText))
	}

	if readerErr != nil {
		return InvokeResult{StderrAccumulated: stderrText}, &entities.PluginCommunicationError{Underlying: readerErr}
	}

	if runErr != nil {
		if sig, ok := exitSignal(runErr); ok {
			return InvokeResult{StderrAccumulated: stderrText}, &entities.InvocationEndedBySignalError{Signal: sig}
		}
		if !invocation.errorEmitted() {
			input.Delegate.EmitDiagnostic(ports.Diagnostic{
				Severity: ports.SeverityError,
				Message:  runErr.Error(),
			})
		}
		return InvokeResult{ErrorEmitted: true, StderrAccumulated: stderrText}, nil
	}

	return InvokeResult{Success: true, ErrorEmitted: invocation.errorEmitted(), StderrAccumulated: stderrText}, nil
}

// exitSignal reports whether err represents a WASI process death by
// uncaught signal rather than a normal (possibly nonzero) exit. wazero
// surfaces both as sys.ExitError; lacking a signal concept in WASI, no
// runErr from InstantiateModule is ever classified as a signal death —
// this hook exists so a future native-subprocess Toolchain can report
// one without changing Invoke's contract.
func exitSignal(err error) (string, bool) {
	return "", false
}

type stderrAccumulator struct {
	mu  sync.Mutex
	buf []byte
}

func (s *stderrAccumulator) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *stderrAccumulator) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.buf)
}

// invocationState serializes every write to the plugin's stdin (the
// "single serialized output queue" of spec.md §5) and tracks whether
// any error diagnostic was emitted, needed to decide whether a
// nonzero exit needs a synthesized one.
type invocationState struct {
	delegate ports.PluginDelegate
	stdin    io.Writer

	writeMu sync.Mutex

	mu       sync.Mutex
	sawError bool
}

func (s *invocationState) writeFrame(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return WriteFrame(s.stdin, payload)
}

func (s *invocationState) errorEmitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sawError
}

func (s *invocationState) markError() {
	s.mu.Lock()
	s.sawError = true
	s.mu.Unlock()
}

// pumpStdout reads framed messages until r returns EOF, dispatching
// each to the delegate and answering requests on the same serialized
// output queue writeFrame uses.
func (s *invocationState) pumpStdout(ctx context.Context, r io.Reader, done chan<- error) {
	buffered := bufio.NewReaderSize(r, 64*1024)
	for {
		raw, err := ReadFrame(buffered)
		if err != nil {
			if err == io.EOF {
				done <- nil
				return
			}
			done <- err
			return
		}
		msg, err := decodePluginMessage(raw)
		if err != nil {
			done <- err
			return
		}
		s.dispatch(ctx, msg)
	}
}

func (s *invocationState) dispatch(ctx context.Context, msg decodedMessage) {
	switch msg.kind {
	case typeEmitDiagnostic:
		if msg.diagnostic.Severity == ports.SeverityError {
			s.markError()
		}
		s.delegate.EmitDiagnostic(ports.Diagnostic{
			Severity: msg.diagnostic.Severity,
			Message:  msg.diagnostic.Message,
			File:     msg.diagnostic.File,
			Line:     msg.diagnostic.Line,
		})
	case typeDefineBuildCommand:
		s.delegate.DefineBuildCommand(entities.BuildCommandConfig{
			DisplayName: msg.buildCommand.DisplayName,
			Executable:  msg.buildCommand.Executable,
			Arguments:   msg.buildCommand.Arguments,
			Inputs:      msg.buildCommand.Inputs,
			Outputs:     msg.buildCommand.Outputs,
		})
	case typeDefinePrebuildCommand:
		s.delegate.DefinePrebuildCommand(entities.PrebuildCommandConfig{
			DisplayName: msg.prebuildCommand.DisplayName,
			Executable:  msg.prebuildCommand.Executable,
			Arguments:   msg.prebuildCommand.Arguments,
			OutputDir:   msg.prebuildCommand.OutputDir,
		})
	case typeBuildOperationRequest:
		go s.answer(ctx, func(ctx context.Context) (map[string]string, error) {
			return s.delegate.HandleBuildOperation(ctx, ports.OperationRequest{
				Subset:     msg.request.Subset,
				Parameters: msg.request.Parameters,
			})
		}, encodeBuildOperationResponse)
	case typeTestOperationRequest:
		go s.answer(ctx, func(ctx context.Context) (map[string]string, error) {
			return s.delegate.HandleTestOperation(ctx, ports.OperationRequest{
				Subset:     msg.request.Subset,
				Parameters: msg.request.Parameters,
			})
		}, encodeTestOperationResponse)
	case typeSymbolGraphRequest:
		go s.answer(ctx, func(ctx context.Context) (map[string]string, error) {
			return s.delegate.HandleSymbolGraphRequest(ctx, ports.SymbolGraphRequest{
				Target:  msg.symbolGraph.Target,
				Options: msg.symbolGraph.Options,
			})
		}, encodeSymbolGraphResponse)
	}
}

func (s *invocationState) answer(ctx context.Context, handle func(context.Context) (map[string]string, error), encode func(map[string]string) ([]byte, error)) {
	result, err := handle(ctx)
	var payload []byte
	var encErr error
	if err != nil {
		payload, encErr = encodeErrorResponse(err.Error())
	} else {
		payload, encErr = encode(result)
	}
	if encErr != nil {
		return
	}
	_ = s.writeFrame(payload)
}
