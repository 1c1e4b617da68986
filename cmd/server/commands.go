package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/journal-drill/internal/catalog"
	"github.com/phrazzld/journal-drill/internal/config"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/platform/postgres"
	"github.com/phrazzld/journal-drill/internal/platform/remote"
	"github.com/phrazzld/journal-drill/internal/store"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
}

// newRootCommand builds the command tree. Running the root command with no
// subcommand starts the server.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "journal-drill",
		Short:         "Bond journal-entry drill server",
		Long:          "Serves bond accounting journal-entry drills and stores each student's progress.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default ./config.yaml if present)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newCatalogCommand(opts))
	cmd.AddCommand(newProgressCommand())

	return cmd
}

// loadConfig loads configuration and sets up the process logger.
func loadConfig(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("storage", cfg.Storage.Driver))
	return cfg, l, nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, l, err := loadConfig(opts)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(postgres.MigrationCommands, "|") + "]",
		Short:     "Run database migrations",
		Long:      "Runs the embedded goose migrations against database.url. Defaults to up.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, l, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("database.url is required to run migrations")
			}

			db, err := setupAppDatabase(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(cmd.Context(), db, command, l)
		},
	}
}

func newCatalogCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the scenario catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [path]",
		Short: "Check that a catalog file parses and every solution balances",
		Long:  "Validates the catalog at path, or the embedded catalog when no path is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			c, err := catalog.Load(path, slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))
			if err != nil {
				return err
			}
			source := path
			if source == "" {
				source = "embedded catalog"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scenarios OK\n", source, c.Size())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the scenarios of the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configuredCatalogPath(opts)
			if err != nil {
				return err
			}
			c, err := catalog.Load(path, discardLogger())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tTYPE\tFACE VALUE\tLINES\tTASK")
			for _, s := range c.Scenarios() {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
					s.ID, s.BondType, s.FaceValue.StringFixed(2), len(s.Solution), s.Task)
			}
			return tw.Flush()
		},
	})

	return cmd
}

// configuredCatalogPath reads catalog.path without requiring the rest of the
// configuration, such as a database, to be valid.
func configuredCatalogPath(opts *rootOptions) (string, error) {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		if opts.configPath != "" {
			return "", err
		}
		return "", nil
	}
	return cfg.Catalog.Path, nil
}

func newProgressCommand() *cobra.Command {
	var serverURL string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "progress <email>",
		Short: "Show a student's saved progress from a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := remote.New(serverURL, discardLogger())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			state, err := client.LoadProgress(ctx, args[0])
			switch {
			case err == nil:
			case store.IsNotFoundError(err):
				_, err = fmt.Fprintf(out, "%s has no saved progress\n", args[0])
				return err
			default:
				return err
			}

			current := fmt.Sprintf("%d", state.CurrentScenarioID)
			if state.IsDone() {
				current = "done"
			}
			ids := make([]int, 0, len(state.CompletedScenarios))
			for id, ok := range state.CompletedScenarios {
				if ok {
					ids = append(ids, id)
				}
			}
			sort.Ints(ids)

			_, err = fmt.Fprintf(out, "current: %s\ncompleted: %v\nversion: %d\n",
				current, ids, state.Version)
			return err
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the drill server")
	cmd.Flags().DurationVar(&timeout, "timeout", remote.DefaultTimeout, "request timeout")
	return cmd
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
