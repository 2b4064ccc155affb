package redaction

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WithRedactor(t *testing.T) {
	redactor, err := New(Config{
		DisableGitleaks: true,
		Patterns:        []string{`secret`, `password`},
	})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	writer := NewWriter(buf, redactor)

	plugOutput := []byte("Connecting with secret credentials and password=12345")
	n, err := writer.Write(plugOutput)
	require.NoError(t, err)
	assert.Equal(t, len(plugOutput), n, "should report the original length, not the redacted one")

	output := buf.String()
	assert.Contains(t, output, "[REDACTED]")
	assert.NotContains(t, output, "secret")
	assert.NotContains(t, output, "password")
}

func TestWriter_WithoutRedactor(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := NewWriter(buf, nil)

	plugOutput := []byte("This contains secret data")
	n, err := writer.Write(plugOutput)
	require.NoError(t, err)
	assert.Equal(t, len(plugOutput), n)

	assert.Equal(t, string(plugOutput), buf.String(), "nil redactor is a pass-through")
}

func TestWriter_MultipleWrites(t *testing.T) {
	redactor, err := New(Config{
		DisableGitleaks: true,
		Patterns:        []string{`API_KEY=[A-Za-z0-9]+`},
	})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	writer := NewWriter(buf, redactor)

	writes := []string{
		"First line with API_KEY=abc123\n",
		"Second line is clean\n",
		"Third line with API_KEY=xyz789\n",
	}

	for _, data := range writes {
		n, err := writer.Write([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
	}

	// Verify all API keys were redacted
	output := buf.String()
	assert.NotContains(t, output, "abc123")
	assert.NotContains(t, output, "xyz789")
	assert.Contains(t, output, "[REDACTED]")
	assert.Contains(t, output, "Second line is clean")
}

func TestWriter_ThreadSafety(t *testing.T) {
	redactor, err := New(Config{
		DisableGitleaks: true,
		Patterns:        []string{`secret`},
	})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	writer := NewWriter(buf, redactor)

	// plugin stdout/stderr pumps both write through the same Writer
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 100; j++ {
				_, _ = writer.Write([]byte("secret data\n"))
			}
			done <- true
		}(i)
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}

	// Verify no secrets leaked
	output := buf.String()
	assert.NotContains(t, output, "secret data")
	assert.Contains(t, output, "[REDACTED]")
}

func TestWriter_EmptyWrite(t *testing.T) {
	redactor, err := New(Config{
		DisableGitleaks: true,
		Patterns:        []string{`secret`},
	})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	writer := NewWriter(buf, redactor)

	n, err := writer.Write([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "", buf.String())
}
