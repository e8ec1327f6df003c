// Package buildinfo reports the version of the running binary.
//
// Release builds stamp the variables through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/opptree/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/opptree/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Without ldflags, [Get] falls back to the module version and VCS settings
// recorded by the Go toolchain.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info describes one build.
type Info struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Date     string `json:"date,omitempty"`
	Modified bool   `json:"modified,omitempty"`
}

// Get returns the build info, filling unset fields from debug.ReadBuildInfo.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats i on one line, e.g. "v0.3.0 (1a2b3c4, 2026-01-02)".
func (i Info) String() string {
	var extra []string
	if i.Commit != "" {
		c := i.Commit
		if len(c) > 7 {
			c = c[:7]
		}
		if i.Modified {
			c += "-dirty"
		}
		extra = append(extra, c)
	}
	if i.Date != "" {
		extra = append(extra, i.Date)
	}
	if len(extra) == 0 {
		return i.Version
	}
	return i.Version + " (" + strings.Join(extra, ", ") + ")"
}

// Template returns a cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
