package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eringen/echofield"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	v := newViper()
	var logger zerolog.Logger

	root := &cobra.Command{
		Use:           "echofield",
		Short:         "A bilingual blog built with Go, Echo, and templ",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			logger = setupLogger(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().String("config", "", "Path to a config file (yaml, toml or json)")
	root.PersistentFlags().Bool("debug", false, "Human readable debug logging")
	root.PersistentFlags().String("database", "", "SQLite database path")
	mustBind(v, "config", root.PersistentFlags().Lookup("config"))
	mustBind(v, "debug", root.PersistentFlags().Lookup("debug"))
	mustBind(v, "database_path", root.PersistentFlags().Lookup("database"))

	log := func() *zerolog.Logger { return &logger }
	root.AddCommand(
		newServeCmd(v, log),
		newMigrateCmd(v, log),
		newFixturesCmd(v, log),
		newVersionCmd(),
	)
	return root
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

func newServeCmd(v *viper.Viper, log func() *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the blog server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app := echofield.New(cfg, echofield.DefaultViews(),
				echofield.WithLogger(*log()),
				echofield.WithStaticDir(v.GetString("static_dir")),
			)
			defer app.Close()

			errCh := make(chan error, 1)
			go func() { errCh <- app.Start(ctx) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			log().Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := app.Echo.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return <-errCh
		},
	}
	cmd.Flags().String("addr", "", "Address to listen on (default :3000)")
	cmd.Flags().String("static-dir", "", "Directory served under /public (default public)")
	mustBind(v, "addr", cmd.Flags().Lookup("addr"))
	mustBind(v, "static_dir", cmd.Flags().Lookup("static-dir"))
	return cmd
}

func newMigrateCmd(v *viper.Viper, log func() *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			// NewStore migrates on open.
			store, err := echofield.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()
			log().Info().Str("database", cfg.DatabasePath).Msg("migrations applied")
			return nil
		},
	}
}

func newFixturesCmd(v *viper.Viper, log func() *zerolog.Logger) *cobra.Command {
	var (
		count int
		bulk  int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Create bilingual sample posts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			store, err := echofield.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := echofield.FixtureOptions{Count: count, Bulk: bulk}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}
			posts, err := echofield.CreateFixtures(cmd.Context(), store, opts)
			for _, p := range posts {
				log().Info().Int64("id", p.ID).Str("slug", p.Slug).Msg("created")
			}
			if err != nil {
				return err
			}
			log().Info().Int("posts", len(posts)).Msg("fixtures created")
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 10, "Number of sample posts")
	cmd.Flags().IntVar(&bulk, "bulk", 0, "Number of filler posts")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for slug suffixes (default random)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the echofield version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "echofield %s\n", version)
		},
	}
}
