package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/internal/server"
	"github.com/matzehuels/opptree/pkg/cache"
	"github.com/matzehuels/opptree/pkg/pipeline"
)

// serveCommand creates the serve command, which previews a document over
// HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags viewFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [records.json|records.toml]",
		Short: "Serve a document over HTTP",
		Long: `Serve a document over HTTP.

The document is read once at startup. View flags set the defaults that
query parameters override per request:

  GET /view?collapse=k1,k2&expand=k3&cap=5&focus=k
  GET /path?focus=k
  GET /find?key=k
  GET /render.svg?focus=k`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &flags, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, flags *viewFlags, addr string) error {
	logger := loggerFromContext(ctx)

	doc, err := loadDocument(input, flags.overrides)
	if err != nil {
		return err
	}
	opts := c.options(flags)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	// Scope keys to the document so a shared file cache keeps served
	// documents apart.
	keyer := cache.NewScopedKeyer(nil, cache.DocumentScope(filepath.Base(input)))
	srv := server.New(pipeline.NewRunner(c.cache, keyer, logger), doc, opts, logger)
	printInfo("Serving %s", StyleValue.Render(input))
	printDetail("open %s", StyleLink.Render("http://"+addr+"/render.svg"))
	return srv.ListenAndServe(ctx, addr)
}
