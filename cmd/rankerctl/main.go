// Command rankerctl runs maintenance tasks against the productivity-ranker
// store: migrations, rescoring, weekly recomputation, leaderboard dumps and
// analytics catalog setup.
package main

import (
	"context"
	"fmt"
	"os"

	"productivity-ranker/internal/config"
	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/store"

	"github.com/spf13/cobra"
)

type app struct {
	configFile string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "rankerctl",
		Short:        "Administer the productivity ranker",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load(a.configFile)
			logger.Init(config.LogConfig{Level: a.cfg.Log.Level, Console: true})
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path (e.g. etc/config-dev.yaml)")

	root.AddCommand(
		a.migrateCmd(),
		a.rescoreCmd(),
		a.recomputeWeekCmd(),
		a.leaderboardCmd(),
		a.catalogInitCmd(),
	)
	return root
}

// withStore opens the configured database before running fn.
func (a *app) withStore(fn func(ctx context.Context, cmd *cobra.Command, st *store.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := a.cfg.OpenGormDB()
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		return fn(cmd.Context(), cmd, store.New(db))
	}
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store) error {
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", a.cfg.Database.Driver)
			return nil
		}),
	}
}
