package buildinfo

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.2.3"}, "v1.2.3"},
		{Info{Version: "v1.2.3", Commit: "1a2b3c4d5e6f"}, "v1.2.3 (1a2b3c4)"},
		{Info{Version: "dev", Commit: "abc", Modified: true, Date: "2026-01-02"}, "dev (abc-dirty, 2026-01-02)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGetUsesStampedValues(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "v9.9.9", "feedface"
	info := Get()
	if info.Version != "v9.9.9" || info.Commit != "feedface" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.HasPrefix(Template(), "{{.Name}} v9.9.9 (feedfac") {
		t.Errorf("Template() = %q", Template())
	}
}
