package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/opptree/pkg/core/record"
	"github.com/matzehuels/opptree/pkg/errors"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// Extensions lists the file extensions ReadFile accepts.
var Extensions = []string{".json", ".toml"}

// Document is a record document.
type Document struct {
	Goals     []*record.Goal   `json:"goals" toml:"goals"`
	Overrides record.Overrides `json:"overrides,omitempty" toml:"overrides,omitempty"`
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"cannot infer format of %s (use one of: %s)", path, strings.Join(Extensions, ", "))
	}
}

// Read decodes a document from r. Read does not close r.
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	return &doc, nil
}

// ReadFile reads the document at path, choosing the decoder by extension.
func ReadFile(path string) (*Document, error) {
	if err := errors.ValidateFilePath(path, Extensions...); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadRecords decodes only the goals of a document.
func ReadRecords(r io.Reader, format Format) ([]*record.Goal, error) {
	doc, err := Read(r, format)
	if err != nil {
		return nil, err
	}
	return doc.Goals, nil
}

// ReadRecordsFile reads the goals of the document at path.
func ReadRecordsFile(path string) ([]*record.Goal, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Goals, nil
}

// ReadOverridesFile reads a standalone overrides file: a JSON or TOML
// object mapping node keys to patches.
func ReadOverridesFile(path string) (record.Overrides, error) {
	if err := errors.ValidateFilePath(path, Extensions...); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var o record.Overrides
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &o)
	case FormatTOML:
		err = toml.Unmarshal(data, &o)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return o, nil
}

// Write encodes doc to w.
func Write(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	return nil
}

// WriteFile writes doc to path, choosing the encoder by extension.
// The file is created with 0644 permissions.
func WriteFile(path string, doc *Document) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
