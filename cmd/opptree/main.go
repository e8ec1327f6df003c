// Command opptree builds, reduces and renders opportunity trees.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/internal/cli"
	"github.com/matzehuels/opptree/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string) int {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SilenceErrors = true

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output and pipeline events")

	inner := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
			observability.Register(observability.NewLogHooks(c.Logger))
		}
		if inner == nil {
			return nil
		}
		return inner(cmd, args)
	}

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		log.New(os.Stderr).Error(err)
		return 1
	}
}
