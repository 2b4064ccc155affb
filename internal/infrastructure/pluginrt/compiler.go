package pluginrt

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/weave-pm/weave/internal/domain/entities"
)

// CompileInput gathers everything Compile needs to produce (or reuse)
// a plugin executable (spec.md §4.4.1 "Inputs").
type CompileInput struct {
	Sources       []string
	CacheDir      string
	PluginAPIPath string
	Toolchain     Toolchain
	Env           []string
}

// mangle maps name to a valid C identifier: non-alphanumeric runs
// become a single underscore, and a leading digit is prefixed with
// an underscore.
func mangle(name string) string {
	var b strings.Builder
	lastWasSep := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasSep = false
		default:
			if !lastWasSep {
				b.WriteByte('_')
				lastWasSep = true
			}
		}
	}
	out := b.String()
	if out == "" {
		return "_plugin"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// Compile implements spec.md §4.4.1: derive an executable name, build
// the compiler command line, and either reuse a cached executable
// whose recorded input hash still matches or invoke the compiler and
// refresh the cache.
func Compile(ctx context.Context, input CompileInput) (entities.PluginCompilationResult, error) {
	if len(input.Sources) == 0 {
		return entities.PluginCompilationResult{}, fmt.Errorf("compile: no sources")
	}

	execName := mangle(strings.TrimSuffix(filepath.Base(input.Sources[0]), filepath.Ext(input.Sources[0])))
	execFile := filepath.Join(input.CacheDir, execName)
	hashFile := execFile + ".inputhash"
	diaFile := filepath.Join(input.CacheDir, execName+".dia")

	if err := os.MkdirAll(input.CacheDir, 0o755); err != nil {
		return entities.PluginCompilationResult{}, fmt.Errorf("create plugin cache dir: %w", err)
	}

	argv := input.Toolchain.CommandLine(input.Sources, input.PluginAPIPath, execFile, diaFile)

	inputHash, hashErr := computeInputHash(argv, input.Env, input.Sources)
	if hashErr == nil {
		if cached, ok := cacheStillValid(execFile, hashFile, inputHash); ok {
			return entities.PluginCompilationResult{
				DiagnosticsFile:    diaFile,
				CompiledExecutable: cached,
				WasCached:          true,
			}, nil
		}
	}

	result, err := runCompiler(ctx, argv, input.Env)
	if err != nil || result.ExitCode != 0 {
		_ = os.Remove(execFile)
		_ = os.Remove(hashFile)
		return entities.PluginCompilationResult{}, &entities.CompilationFailedError{
			Result:          result,
			DiagnosticsFile: diaFile,
		}
	}

	if hashErr == nil {
		// Best-effort: a failure to persist the hash just means the
		// next compile recomputes from scratch, not a compile failure.
		_ = os.WriteFile(hashFile, []byte(inputHash), 0o644)
	}

	return entities.PluginCompilationResult{
		CompilerResult:     &result,
		DiagnosticsFile:    diaFile,
		CompiledExecutable: execFile,
		WasCached:          false,
	}, nil
}

func cacheStillValid(execFile, hashFile, inputHash string) (string, bool) {
	if _, err := os.Stat(execFile); err != nil {
		return "", false
	}
	recorded, err := os.ReadFile(hashFile)
	if err != nil {
		return "", false
	}
	if string(recorded) != inputHash {
		return "", false
	}
	return execFile, true
}

// computeInputHash hashes command || sorted(env) || concat(sourceFiles),
// per spec.md §4.4.1 step 3. A failure to read any source file is
// reported to the caller, which then proceeds with a cache miss.
func computeInputHash(argv, env, sources []string) (string, error) {
	h := sha256.New()
	for _, arg := range argv {
		h.Write([]byte(arg))
		h.Write([]byte{0})
	}
	sortedEnv := append([]string(nil), env...)
	sort.Strings(sortedEnv)
	for _, kv := range sortedEnv {
		h.Write([]byte(kv))
		h.Write([]byte{0})
	}
	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("read source %s: %w", src, err)
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func runCompiler(ctx context.Context, argv, env []string) (entities.CompilerResult, error) {
	if len(argv) == 0 {
		return entities.CompilerResult{}, fmt.Errorf("empty compiler command line")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := entities.CompilerResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if runErr == nil {
		result.ExitCode = 0
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, runErr
}
