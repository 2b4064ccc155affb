// Package pluginrt runs compiled plugin executables inside a wazero
// WASM sandbox and exchanges length-prefixed JSON messages with them
// over stdin/stdout (see OQ-1 in DESIGN.md for why wazero stands in for
// a native child process here).
package pluginrt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidPayloadSize is returned when a frame header declares a
// length too small to hold any message (< 2 bytes of JSON).
var ErrInvalidPayloadSize = errors.New("pluginrt: invalid payload size")

// ErrTruncatedPayload is returned when fewer bytes than the header
// declared could be read before the stream ended.
var ErrTruncatedPayload = errors.New("pluginrt: truncated payload")

const frameHeaderSize = 8

// WriteFrame writes one length-prefixed JSON frame: an 8-byte
// little-endian length followed by the payload, matching "frame :=
// uint64_le(len) || utf8_json_bytes" on both directions of the wire.
func WriteFrame(w io.Writer, payload []byte) error {
	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint64(header[:], uint64(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and returns its raw JSON
// payload. A declared length below 2 is a protocol error
// (ErrInvalidPayloadSize); a body shorter than declared is
// ErrTruncatedPayload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	length := binary.LittleEndian.Uint64(header[:])
	if length < 2 {
		return nil, ErrInvalidPayloadSize
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncatedPayload
		}
		return nil, fmt.Errorf("read frame payload: %w", err)
	}
	return payload, nil
}
