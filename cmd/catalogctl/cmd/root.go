// Package cmd implements the catalogctl commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dfryer1193/travelcatalog/cmd/catalogctl/app"
	"github.com/dfryer1193/travelcatalog/internal/config"
	"github.com/dfryer1193/travelcatalog/internal/output"
	"github.com/dfryer1193/travelcatalog/shared/logging"
	"github.com/spf13/cobra"
)

// options holds the global flags and the configuration resolved from them.
type options struct {
	configFile string
	outputFlag string

	format output.Format
	client *config.Client
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Manage the travel catalog",
		Long: `catalogctl manages a three level travel catalog: categories contain
provinces and provinces contain food.

Collections are read from the local cache when it is warm and from the
remote store otherwise. Every change is sent to the remote store first and
then written to the cache.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is ./catalog.yaml)")
	flags.StringVarP(&opts.outputFlag, "output", "o", "", "output format: table, json or yaml")
	flags.String("api-url", config.DefaultAPIURL, "base URL of the remote store")
	flags.String("cache-path", config.DefaultCachePath, "path of the local cache database")
	flags.Duration("request-timeout", 0, "timeout for each remote request, 0 for none")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "console", "log format: console or json")

	root.AddCommand(
		newCategoryCommand(opts),
		newProvinceCommand(opts),
		newFoodCommand(opts),
		newCacheCommand(opts),
		newImageCommand(opts),
		newReloadCommand(opts),
	)

	return root
}

func (o *options) setup(cmd *cobra.Command) error {
	v := config.New(o.configFile)

	bindings := map[string]string{
		"api_url":         "api-url",
		"cache_path":      "cache-path",
		"request_timeout": "request-timeout",
		"log_level":       "log-level",
		"log_format":      "log-format",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	cfg, err := config.LoadClient(v)
	if err != nil {
		return err
	}
	logging.Configure(cfg.LogLevel, cfg.LogFormat)

	format, err := output.ParseFormat(o.outputFlag)
	if err != nil {
		return err
	}

	o.client = cfg
	o.format = format
	return nil
}

// session opens the cache and loads the catalog for one command.
func (o *options) session(cmd *cobra.Command) (*app.App, error) {
	return app.Open(cmd.Context(), o.client)
}

func (o *options) render(cmd *cobra.Command, value any, table output.Data) error {
	return output.Render(cmd.OutOrStdout(), o.format, value, table)
}

func newReloadCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Refetch every collection from the remote store and rewrite the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Coordinator.Reload(cmd.Context()); err != nil {
				return err
			}

			c := a.Coordinator
			fmt.Fprintf(cmd.OutOrStdout(), "reloaded %d categories, %d provinces, %d food\n",
				len(c.Categories()), len(c.Provinces()), len(c.Foods()))
			return nil
		},
	}
}
