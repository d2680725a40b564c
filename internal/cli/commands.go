package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP presentation server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	app, err := opts.build(ctx)
	if err != nil {
		return err
	}
	defer closeApp(app)

	return entrypoint.Serve(ctx, app, opts.info.Version)
}

func newTUICommand(opts *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the collection in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			// The terminal belongs to the UI, so logs go to a file
			app, err := opts.build(ctx, logFile)
			if err != nil {
				return err
			}
			defer closeApp(app)

			return entrypoint.RunTUI(ctx, app)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", os.DevNull, "file receiving logs while the UI runs")
	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var listOpts entrypoint.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the collection once and exit",
		Example: `  bookshelf list
  bookshelf list --search dune --sort year-desc
  bookshelf list --genre Classic --json
  bookshelf list --reading`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			app, err := opts.build(ctx, "stderr")
			if err != nil {
				return err
			}
			defer closeApp(app)

			return entrypoint.List(ctx, app, listOpts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&listOpts.Search, "search", "s", "", "search term sent to the catalog")
	cmd.Flags().StringVarP(&listOpts.Genre, "genre", "g", "", "only show this genre")
	cmd.Flags().StringVar(&listOpts.Sort, "sort", "", "title-asc, title-desc, year-desc, year-asc or availability")
	cmd.Flags().BoolVar(&listOpts.Reading, "reading", false, "only show the reading list")
	cmd.Flags().BoolVar(&listOpts.JSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookshelf %s (commit %s)\n", opts.info.Version, opts.info.Commit)
		},
	}
}
