package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/opptree/pkg/core/layout"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateGrouping(t *testing.T) {
	tests := []struct {
		grouping string
		wantErr  bool
	}{
		{"plain", false},
		{"stage", false},
		{"owner", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateGrouping(tt.grouping)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGrouping(%q) error = %v, wantErr %v", tt.grouping, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Zero options should pass: %v", err)
	}

	if opts.Grouping != DefaultGrouping {
		t.Errorf("Grouping should be %s, got %s", DefaultGrouping, opts.Grouping)
	}
	if opts.MaxDepth != tree.DefaultMaxDepth {
		t.Errorf("MaxDepth should be %d, got %d", tree.DefaultMaxDepth, opts.MaxDepth)
	}
	if opts.Cap != DefaultCap {
		t.Errorf("Cap should be %d, got %d", DefaultCap, opts.Cap)
	}
	if _, ok := opts.Layouter.(layout.Tidy); !ok {
		t.Errorf("Layouter should default to Tidy, got %T", opts.Layouter)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"grouping", Options{Grouping: "owner"}},
		{"depth", Options{MaxDepth: -1}},
		{"cap", Options{Cap: -2}},
		{"format", Options{Formats: []string{"gif"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Grouping: GroupingStage}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalCap := opts.Cap
	originalFormats := opts.Formats

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Cap != originalCap {
		t.Error("Cap changed on second call")
	}
	if diff := cmp.Diff(originalFormats, opts.Formats); diff != "" {
		t.Errorf("Formats changed on second call:\n%s", diff)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.RankDir != DefaultRankDir {
		t.Errorf("RankDir should be %s, got %s", DefaultRankDir, opts.RankDir)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestVisibleOptions(t *testing.T) {
	opts := Options{Cap: 3, Collapsed: []string{"goal:g", "goal:g"}, Expanded: []string{"opportunity:o"}}
	v := opts.VisibleOptions()

	if v.Cap != 3 {
		t.Errorf("Cap = %d", v.Cap)
	}
	if diff := cmp.Diff(map[string]bool{"goal:g": true}, v.Collapsed); diff != "" {
		t.Errorf("Collapsed (-want +got):\n%s", diff)
	}
	if !v.Expanded["opportunity:o"] {
		t.Error("Expanded should contain opportunity:o")
	}
	if (&Options{}).VisibleOptions().Collapsed != nil {
		t.Error("empty Collapsed should stay nil")
	}
}

func TestKeyOpts(t *testing.T) {
	a := Options{Collapsed: []string{"b", "a"}, Layouter: layout.Tidy{}}
	b := Options{Collapsed: []string{"a", "b", "a"}, Layouter: layout.Tidy{}}
	if diff := cmp.Diff(a.ViewKeyOpts(), b.ViewKeyOpts()); diff != "" {
		t.Errorf("collapsed order should not change the view key:\n%s", diff)
	}

	c := Options{Layouter: layout.Tidy{HGap: 10}}
	if a.ViewKeyOpts().Layout == c.ViewKeyOpts().Layout {
		t.Error("layouter settings should change the view key")
	}

	s := Options{Stages: tree.Stages{{ID: "x", Label: "X"}}}
	if diff := cmp.Diff([]string{"x=X"}, s.ForestKeyOpts().Stages); diff != "" {
		t.Errorf("ForestKeyOpts().Stages (-want +got):\n%s", diff)
	}

	r := Options{Scale: 3}
	if r.ArtifactKeyOpts(FormatSVG).Scale != 0 || r.ArtifactKeyOpts(FormatPNG).Scale != 3 {
		t.Error("scale should only key PNG artifacts")
	}
}

func TestValidateForRender_RankDir(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "TB", false},
		{"lr", "LR", false},
		{"RL", "RL", false},
		{"XX", "", true},
		{`LR; node [label="x"]`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			opts := Options{RankDir: tt.in}
			err := opts.ValidateForRender()
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("err = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateForRender: %v", err)
			}
			if opts.RankDir != tt.want {
				t.Errorf("RankDir = %q, want %q", opts.RankDir, tt.want)
			}
		})
	}
}
