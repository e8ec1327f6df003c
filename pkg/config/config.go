// Package config loads opptree settings from TOML.
//
// # Lookup
//
// [Load] reads, in order of preference:
//
//  1. the file named by --config, which must exist
//  2. $XDG_CONFIG_HOME/opptree/opptree.toml (or ~/.config/opptree/opptree.toml)
//  3. nothing, in which case [Default] is used
//
// Values present in the file replace the defaults; absent values keep
// them. Command-line flags are applied on top by the CLI.
//
// # Example
//
//	grouping = "stage"
//	cap = 6
//	cache_dir = "~/.cache/opptree"
//	collapsed = ["opportunity:o1"]
//
//	[[stages]]
//	id = "discover"
//	label = "Discover"
//
//	[render]
//	detailed = true
//	rankdir = "LR"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/layout"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
	"github.com/matzehuels/opptree/pkg/errors"
)

const (
	appName  = "opptree"
	fileName = "opptree.toml"
)

// Grouping modes.
const (
	GroupingPlain = "plain"
	GroupingStage = "stage"
)

// Config is the on-disk configuration.
type Config struct {
	Grouping  string        `toml:"grouping"`
	Cap       int           `toml:"cap"`
	MaxDepth  int           `toml:"max_depth"`
	Collapsed []string      `toml:"collapsed"`
	Focus     string        `toml:"focus"`
	Stages    []StageConfig `toml:"stages"`
	Layout    LayoutConfig  `toml:"layout"`
	Render    RenderConfig  `toml:"render"`

	// CacheDir holds the persistent stage cache. Empty keeps results in
	// memory for the life of the process.
	CacheDir string `toml:"cache_dir"`

	// Path is the file the config was read from. Empty for defaults.
	Path string `toml:"-"`
}

// StageConfig is one entry of the stage enumeration.
type StageConfig struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
}

// LayoutConfig tunes the tidy layouter.
type LayoutConfig struct {
	HGap float64 `toml:"hgap"`
	VGap float64 `toml:"vgap"`
}

// RenderConfig tunes rendered output.
type RenderConfig struct {
	Detailed bool    `toml:"detailed"`
	RankDir  string  `toml:"rankdir"`
	Scale    float64 `toml:"scale"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grouping: GroupingPlain,
		Cap:      visible.DefaultCap,
		MaxDepth: tree.DefaultMaxDepth,
		Layout: LayoutConfig{
			HGap: layout.DefaultHGap,
			VGap: layout.DefaultVGap,
		},
		Render: RenderConfig{
			RankDir: "TB",
			Scale:   1,
		},
	}
}

// Load resolves and reads the configuration. An explicit path that does
// not exist is an error; a missing default file is not.
func Load(explicit string) (Config, error) {
	if explicit != "" {
		if err := errors.ValidateFilePath(explicit, ".toml"); err != nil {
			return Config{}, err
		}
		return LoadFile(explicit)
	}
	p, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(p); err != nil {
		return Default(), nil
	}
	return LoadFile(p)
}

// LoadFile reads and validates the TOML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.CacheDir = expandHome(cfg.CacheDir)
	return cfg, nil
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Validate checks field values. Stage ids become part of group keys, so
// they must be unique and free of the key separator.
func (c Config) Validate() error {
	switch c.Grouping {
	case GroupingPlain, GroupingStage:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid grouping %q (must be one of: plain, stage)", c.Grouping)
	}
	if c.Cap < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "cap must be at least 1, got %d", c.Cap)
	}
	if c.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_depth cannot be negative")
	}
	seen := make(map[string]bool, len(c.Stages))
	for _, s := range c.Stages {
		if err := errors.ValidateIdentifier(s.ID, key.Separator); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "stage")
		}
		if s.ID == tree.Unassigned {
			return errors.New(errors.ErrCodeInvalidConfig, "stage id %q is reserved", s.ID)
		}
		if seen[s.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate stage id %q", s.ID)
		}
		seen[s.ID] = true
	}
	switch c.Render.RankDir {
	case "", "TB", "LR", "BT", "RL":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid rankdir %q", c.Render.RankDir)
	}
	return nil
}

// StageList returns the configured stage enumeration, or nil when none is
// configured so builders fall back to tree.DefaultStages.
func (c Config) StageList() tree.Stages {
	if len(c.Stages) == 0 {
		return nil
	}
	out := make(tree.Stages, len(c.Stages))
	for i, s := range c.Stages {
		out[i] = tree.Stage{ID: s.ID, Label: s.Label}
	}
	return out
}

// Layouter returns the tidy layouter configured by c.
func (c Config) Layouter() layout.Tidy {
	return layout.Tidy{HGap: c.Layout.HGap, VGap: c.Layout.VGap}
}
