package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/opptree/pkg/errors"
)

// converter is the librsvg command line tool.
var converter = "rsvg-convert"

const installHint = "install librsvg (brew install librsvg, apt install librsvg2-bin)"

// CanConvert reports whether PDF and PNG conversion is available.
func CanConvert() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "pdf")
}

// ToPNG converts an SVG document to PNG at scale; scale <= 0 means 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return convert(ctx, svg, "png", "--zoom", fmt.Sprintf("%.2f", scale))
}

func convert(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(converter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s output needs %s: %s", format, converter, installHint)
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %s", converter, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
