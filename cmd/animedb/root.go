package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/deppfellow/animedb/internal/app"
	"github.com/deppfellow/animedb/internal/config"
	"github.com/deppfellow/animedb/internal/database"
	"github.com/deppfellow/animedb/internal/lib/utils"
	"github.com/deppfellow/animedb/internal/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// DefaultTimeout bounds a single command.
const DefaultTimeout = 30 * time.Second

type cli struct {
	in      io.Reader
	out     io.Writer
	timeout time.Duration
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{in: in, out: out}

	root := &cobra.Command{
		Use:           "animedb",
		Short:         "Query and manage the anime catalog database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", DefaultTimeout, "deadline for the whole command")

	root.AddCommand(
		c.migrateCmd(),
		c.healthCmd(),
		c.profilesCmd(),
		c.animeCmd(),
		c.favoritesCmd(),
		c.reviewersCmd(),
	)

	return root
}

// prepare loads the config and returns a context bounded by --timeout
// that carries a logger tagged with a fresh op_id.
func (c *cli) prepare(cmd *cobra.Command) (context.Context, context.CancelFunc, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	base := logger.NewLogger(cfg.Observability)
	opLog := base.With().
		Str("op_id", uuid.NewString()).
		Str("command", cmd.CommandPath()).
		Logger()

	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	return logger.WithContext(ctx, &opLog), cancel, cfg, nil
}

// withApp runs fn against a freshly built App and shuts it down afterwards.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel, cfg, err := c.prepare(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	log := logger.FromContext(ctx, nil)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize")
		return err
	}
	defer func() {
		if err := a.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	return fn(ctx, a)
}

func (c *cli) print(v any) error {
	return utils.PrintJSON(c.out, v)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, cfg, err := c.prepare(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			return database.Migrate(ctx, logger.FromContext(ctx, nil), cfg)
		},
	}
}

func (c *cli) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check database and redis connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				report := a.Services.Health.Check(ctx)
				if err := c.print(report); err != nil {
					return err
				}
				if !report.Healthy() {
					return fmt.Errorf("status %s", report.Status)
				}
				return nil
			})
		},
	}
}
