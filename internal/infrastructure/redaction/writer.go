package redaction

import (
	"io"
	"sync"
)

// Writer wraps an io.Writer and redacts all data before writing.
// Thread-safe: can be used concurrently by multiple goroutines, which
// matters here since plugin stdout/stderr pumps and the CLI's own log
// handler may write through the same Writer from different goroutines.
type Writer struct {
	underlying io.Writer
	redactor   *Redactor
	mu         sync.Mutex
}

// NewWriter creates a redacting writer that scrubs sensitive patterns.
// A nil redactor makes the Writer a pass-through, so call sites don't
// need to branch on whether redaction is configured.
func NewWriter(w io.Writer, r *Redactor) *Writer {
	return &Writer{
		underlying: w,
		redactor:   r,
	}
}

// Write implements io.Writer, redacting data before passing it on.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.redactor == nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.underlying.Write(p)
	}

	redacted := []byte(w.redactor.ScrubString(string(p)))

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.underlying.Write(redacted)

	// Report the original length regardless of how redaction changed
	// the byte count, so callers relying on the io.Writer contract
	// (n == len(p) on success) don't see a spurious short write.
	if err == nil {
		n = len(p)
	}
	return n, err
}
