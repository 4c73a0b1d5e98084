// Package output provides JSON output for qmlfix commands.
package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// Writer handles structured output.
type Writer struct {
	encoder *json.Encoder
	compact bool
}

// Config holds output configuration.
type Config struct {
	Compact bool
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) *Writer {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	return &Writer{
		encoder: enc,
		compact: cfg.Compact,
	}
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// ErrorBody is the JSON document written for a failed command.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Kinder is implemented by errors that carry a machine readable kind.
type Kinder interface {
	Kind() string
}

// WriteError writes err to w as a JSON error document.
func WriteError(w io.Writer, err error) {
	body := ErrorBody{Error: err.Error()}
	var k Kinder
	if errors.As(err, &k) {
		body.Kind = k.Kind()
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}
