// Package writer holds rendered report documents and the encoders that produce them.
package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter writes data as JSON.
type JSONWriter[T any] struct {
	// Indent specifies the indentation for pretty printing.
	// Empty string means compact output.
	Indent string
}

// NewJSONWriter creates a new JSON writer with compact output.
func NewJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: ""}
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter[T any]() *JSONWriter[T] {
	return &JSONWriter[T]{Indent: "  "}
}

// Write writes the data as JSON to the writer.
func (w *JSONWriter[T]) Write(data T, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	return encoder.Encode(data)
}

// Document encodes data into a named document.
func (w *JSONWriter[T]) Document(name string, data T) (Document, error) {
	var buf bytes.Buffer
	if err := w.Write(data, &buf); err != nil {
		return Document{}, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return Document{Name: name, Content: buf.Bytes()}, nil
}
