package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/opptree/pkg/core/tree"
)

// MarshalGraph encodes the node-link form of f as indented JSON.
func MarshalGraph(f *tree.Forest) ([]byte, error) {
	return marshal(FromForest(f))
}

// UnmarshalGraph decodes a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	return unmarshal[Graph]("graph", data)
}

// WriteGraph writes the node-link form of f to w.
func WriteGraph(f *tree.Forest, w io.Writer) error {
	return encode(w, FromForest(f))
}

// WriteGraphFile writes the node-link form of f to path.
func WriteGraphFile(f *tree.Forest, path string) error {
	return writeFile(path, FromForest(f))
}

// MarshalView encodes v as indented JSON.
func MarshalView(v View) ([]byte, error) {
	return marshal(v)
}

// UnmarshalView decodes a View.
func UnmarshalView(data []byte) (View, error) {
	return unmarshal[View]("view", data)
}

// WriteView writes v to w.
func WriteView(v View, w io.Writer) error {
	return encode(w, v)
}

// WriteViewFile writes v to path.
func WriteViewFile(v View, path string) error {
	return writeFile(path, v)
}

// ReadViewFile reads a View written by WriteViewFile.
func ReadViewFile(path string) (View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return View{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalView(data)
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshal[T any](what string, data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return v, nil
}

func encode(w io.Writer, v any) error {
	// Edge ids contain "->", which must stay readable.
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, v any) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
