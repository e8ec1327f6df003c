package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/buildinfo"
	"github.com/matzehuels/opptree/pkg/cache"
	"github.com/matzehuels/opptree/pkg/config"
	"github.com/matzehuels/opptree/pkg/errors"
	"github.com/matzehuels/opptree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "opptree"

	// defaultAddr is the listen address of the preview server.
	defaultAddr = "127.0.0.1:8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath   string
	cacheDirFlag string
	cache        cache.Cache
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		cache:  cache.NewMemoryCache(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "opptree maps goals to opportunities, solutions and experiments",
		Long:         `opptree builds opportunity trees from planning records, reduces them to what fits on screen, and renders them as diagrams, terminal trees or an interactive browser.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if cfg.Path != "" {
				c.Logger.Debug("loaded config", "path", cfg.Path)
			}
			if dir := c.cacheDir(); dir != "" {
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				c.cache = fc
				c.Logger.Debug("using file cache", "dir", dir)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/opptree/opptree.toml)")
	root.PersistentFlags().StringVar(&c.cacheDirFlag, "cache-dir", "", "persist stage results in this directory")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.visibleCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.findCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Results are kept in
// memory for the process, or on disk when a cache directory is set.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	}
	return pipeline.NewRunner(c.cache, nil, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// viewFlags holds the flags shared by commands that build and reduce a
// forest. Unset flags fall back to the config file.
type viewFlags struct {
	overrides string
	grouping  string
	maxDepth  int
	cap       int
	collapsed []string
	expanded  []string
	focus     string
}

// register binds the flags on cmd.
func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.overrides, "overrides", "", "overrides file (.json or .toml) merged over the document's own")
	cmd.Flags().StringVarP(&f.grouping, "grouping", "g", "", "grouping: plain (default), stage")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "deepest level kept below a goal")
	cmd.Flags().IntVar(&f.cap, "cap", 0, "children shown per parent before an overflow node")
	cmd.Flags().StringSliceVarP(&f.collapsed, "collapse", "c", nil, "node keys to collapse (repeatable)")
	cmd.Flags().StringSliceVar(&f.expanded, "expand", nil, "parent keys shown without a cap (repeatable)")
	cmd.Flags().StringVar(&f.focus, "focus", "", "node key whose active path is highlighted")

	next := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := f.validate(cmd); err != nil {
			return err
		}
		if next != nil {
			return next(cmd, args)
		}
		return nil
	}
}

// validate rejects numeric flags that were given out of range. Unset flags
// fall back to the config.
func (f *viewFlags) validate(cmd *cobra.Command) error {
	if cmd.Flags().Changed("cap") && f.cap < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--cap must be at least 1, got %d", f.cap)
	}
	if cmd.Flags().Changed("max-depth") && f.maxDepth < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--max-depth must be at least 1, got %d", f.maxDepth)
	}
	return nil
}

// options merges config values and explicit flags into pipeline options.
func (c *CLI) options(f *viewFlags) pipeline.Options {
	cfg := c.Config
	opts := pipeline.Options{
		Grouping:  cfg.Grouping,
		MaxDepth:  cfg.MaxDepth,
		Stages:    cfg.StageList(),
		Cap:       cfg.Cap,
		Collapsed: cfg.Collapsed,
		Focus:     cfg.Focus,
		Detailed:  cfg.Render.Detailed,
		RankDir:   cfg.Render.RankDir,
		Scale:     cfg.Render.Scale,
		Logger:    c.Logger,
		Layouter:  cfg.Layouter(),
	}
	setCLIDefaults(&opts, f)
	return opts
}

// setCLIDefaults applies explicit flag values on top of config defaults.
func setCLIDefaults(opts *pipeline.Options, f *viewFlags) {
	if f == nil {
		return
	}
	if f.grouping != "" {
		opts.Grouping = f.grouping
	}
	if f.maxDepth > 0 {
		opts.MaxDepth = f.maxDepth
	}
	if f.cap > 0 {
		opts.Cap = f.cap
	}
	if len(f.collapsed) > 0 {
		opts.Collapsed = append(append([]string(nil), opts.Collapsed...), f.collapsed...)
	}
	if len(f.expanded) > 0 {
		opts.Expanded = f.expanded
	}
	if f.focus != "" {
		opts.Focus = f.focus
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
