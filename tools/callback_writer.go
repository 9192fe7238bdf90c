package tools

import (
	"bytes"
	"io"
	"strings"

	"github.com/acarl005/stripansi"
)

// CallbackWriter splits written output into lines and hands each non-empty
// line, with terminal escapes removed, to a callback.
type CallbackWriter struct {
	buffer   bytes.Buffer
	callback func(string)
}

var _ io.Writer = &CallbackWriter{}

// NewCallbackWriter returns a new CallbackWriter.
func NewCallbackWriter(callback func(string)) *CallbackWriter {
	return &CallbackWriter{callback: callback}
}

// Write buffers bytes until a newline or carriage return and then flushes the
// buffered line to the callback.
func (w *CallbackWriter) Write(p []byte) (n int, err error) {
	for i, b := range p {
		if b == '\n' || b == '\r' {
			w.flush()
		} else {
			w.buffer.WriteByte(b)
		}
		n = i + 1
	}
	return
}

// Close flushes a trailing line without a terminator.
func (w *CallbackWriter) Close() error {
	w.flush()
	return nil
}

func (w *CallbackWriter) flush() {
	line := strings.TrimSpace(stripansi.Strip(w.buffer.String()))
	w.buffer.Reset()
	if line != "" {
		w.callback(line)
	}
}
