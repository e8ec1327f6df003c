package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/opptree/pkg/errors"
	docio "github.com/matzehuels/opptree/pkg/io"
	"github.com/matzehuels/opptree/pkg/pipeline"
)

// loadDocument reads the record document at path and merges the patches
// of an optional overrides file over the document's own overrides.
func loadDocument(path, overridesPath string) (*docio.Document, error) {
	doc, err := docio.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if overridesPath == "" {
		return doc, nil
	}
	extra, err := docio.ReadOverridesFile(overridesPath)
	if err != nil {
		return nil, fmt.Errorf("load overrides %s: %w", overridesPath, err)
	}
	for _, k := range extra.Keys() {
		doc.Overrides = doc.Overrides.With(k, extra[k])
	}
	return doc, nil
}

// =============================================================================
// Output
// =============================================================================

// nopCloser wraps a writer that must not be closed, such as stdout.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns path for writing, or w when path is empty.
func openOutput(path string, w io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{w}, nil
	}
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactWriteParams describes rendered artifacts to write to disk.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format. A single format goes to
// output verbatim when given; otherwise files are named base.format.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	base := basePath(p.output, p.input)
	var written []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
