package cmd

import (
	"fmt"

	"github.com/dfryer1193/travelcatalog/cmd/catalogctl/app"
	"github.com/dfryer1193/travelcatalog/internal/output"
	"github.com/spf13/cobra"
)

func newCacheCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cache entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openCache(opts)
				if err != nil {
					return err
				}
				defer a.Close()

				entries, err := a.Cache.Entries(cmd.Context())
				if err != nil {
					return err
				}

				table := output.Data{Headers: []string{"KEY", "BYTES", "UPDATED"}}
				for _, e := range entries {
					table.Rows = append(table.Rows, []string{e.Key, fmt.Sprint(e.Size), e.UpdatedAt.Format("2006-01-02 15:04:05")})
				}
				return opts.render(cmd, entries, table)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Drop every cache entry so the next command refetches from the remote store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openCache(opts)
				if err != nil {
					return err
				}
				defer a.Close()

				if err := a.Cache.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
				return nil
			},
		},
	)

	return cmd
}

// openCache opens the cache without loading the catalog, so cache commands
// never touch the remote store.
func openCache(opts *options) (*app.App, error) {
	return app.New(opts.client)
}
