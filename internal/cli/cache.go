package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/cache"
)

// cacheCommand creates the cache management command for the persistent
// stage cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent stage cache",
		Long: `Manage the persistent stage cache.

Stage results are written to disk only when cache_dir is set in the
config file or --cache-dir is given. These commands fall back to the
per-user cache directory otherwise.`,
	}

	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.resolveCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			n, err := fc.Prune(cmd.Context())
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			printSuccess("Removed %d expired entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			n, err := fc.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// resolveCacheDir returns --cache-dir, then the configured directory, then
// the per-user default.
func (c *CLI) resolveCacheDir() (string, error) {
	if dir := c.cacheDir(); dir != "" {
		return dir, nil
	}
	dir, err := cache.DefaultDir(appName)
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// cacheDir returns the explicitly requested cache directory, or "".
func (c *CLI) cacheDir() string {
	if c.cacheDirFlag != "" {
		return c.cacheDirFlag
	}
	return c.Config.CacheDir
}

func (c *CLI) openFileCache() (*cache.FileCache, error) {
	if fc, ok := c.cache.(*cache.FileCache); ok {
		return fc, nil
	}
	dir, err := c.resolveCacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}
