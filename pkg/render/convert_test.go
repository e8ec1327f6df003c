package render

import (
	"context"
	"testing"

	"github.com/matzehuels/opptree/pkg/errors"
)

func TestConvertWithoutTool(t *testing.T) {
	old := converter
	t.Cleanup(func() { converter = old })
	converter = "opptree-no-such-converter"

	if CanConvert() {
		t.Fatal("CanConvert() = true for a missing tool")
	}
	if _, err := ToPDF(context.Background(), []byte("<svg/>")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF err = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG err = %v, want UNSUPPORTED", err)
	}
}
