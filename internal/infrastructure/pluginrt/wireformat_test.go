package pluginrt

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte(`{"type":"emitDiagnostic","body":{}}`)

	require.NoError(t, WriteFrame(&buf, payload))

	got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFrameInvalidPayloadSize(t *testing.T) {
	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], 1)
	buf := bytes.NewBuffer(append(header[:], 'x'))

	_, err := ReadFrame(buf)
	assert.ErrorIs(t, err, ErrInvalidPayloadSize)
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], 10)
	buf := bytes.NewBuffer(append(header[:], []byte("abc")...))

	_, err := ReadFrame(buf)
	assert.ErrorIs(t, err, ErrTruncatedPayload)
}

func TestReadFrameEOF(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func FuzzFrameRoundTrip(f *testing.F) {
	f.Add([]byte("{}"))
	f.Add([]byte(`{"type":"performAction","body":{"input":{"parameters":{}}}}`))
	f.Add([]byte(""))

	f.Fuzz(func(t *testing.T, payload []byte) {
		var buf bytes.Buffer
		err := WriteFrame(&buf, payload)
		require.NoError(t, err)

		got, err := ReadFrame(&buf)
		if len(payload) < 2 {
			assert.ErrorIs(t, err, ErrInvalidPayloadSize)
			return
		}
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}
