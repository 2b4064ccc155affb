package pluginrt

import "fmt"

// Toolchain builds the compiler invocation for a set of plugin
// sources. spec.md §4.4.1 names a specific compiler (swiftc) that is
// out of scope for this workspace (spec.md §1 treats the compiler
// toolchain as an external collaborator); Toolchain is the seam that
// keeps the concrete compiler pluggable (see DESIGN.md OQ-2).
type Toolchain interface {
	// CommandLine returns the argv to invoke, given the sources to
	// compile, the directory holding the plugin API the sources
	// import, the output executable path, and the diagnostics file
	// path the compiler should serialize diagnostics to.
	CommandLine(sources []string, pluginAPIPath, execFile, diaFile string) []string
}

// TinyGoWASI targets `tinygo build -target=wasi`, the natural pairing
// for a wazero/WASI plugin runtime (see DESIGN.md OQ-2): it requires
// no invention beyond the Toolchain port's own contract.
type TinyGoWASI struct {
	// BinaryPath overrides the resolved "tinygo" binary; empty uses
	// PATH lookup.
	BinaryPath string
}

func (t TinyGoWASI) bin() string {
	if t.BinaryPath != "" {
		return t.BinaryPath
	}
	return "tinygo"
}

// CommandLine implements Toolchain.
func (t TinyGoWASI) CommandLine(sources []string, pluginAPIPath, execFile, diaFile string) []string {
	argv := []string{
		t.bin(), "build",
		"-target", "wasi",
		"-o", execFile,
	}
	if pluginAPIPath != "" {
		argv = append(argv, "-x", fmt.Sprintf("importcfg=%s", pluginAPIPath))
	}
	_ = diaFile // tinygo has no separate serialized-diagnostics flag; compiler stderr carries diagnostics.
	return append(argv, sources...)
}
