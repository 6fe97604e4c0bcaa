package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/service"

	sdk "github.com/matrixorigin/moi-go-sdk"
	"github.com/spf13/cobra"
)

func (a *app) catalogInitCmd() *cobra.Command {
	var skipKnowledge bool
	cmd := &cobra.Command{
		Use:   "catalog-init",
		Short: "Create the analytics catalog database and score tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.cfg.NewRawClient()
			if err != nil {
				return err
			}
			if client == nil {
				return errors.New("moi.base_url and moi.api_key must be set")
			}
			ctx := cmd.Context()
			catalogID := sdk.CatalogID(a.cfg.MOI.CatalogID)
			if catalogID == 0 {
				catalogID = 1
			}

			if err := initCatalog(ctx, cmd.OutOrStdout(), client, catalogID, a.cfg.MOI.DatabaseName); err != nil {
				return fmt.Errorf("catalog init: %w", err)
			}
			if skipKnowledge {
				return nil
			}
			if err := initKnowledge(ctx, client); err != nil {
				return fmt.Errorf("knowledge init: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipKnowledge, "skip-knowledge", false, "do not seed NL2SQL knowledge")
	return cmd
}

// initCatalog creates the database and both score tables, reusing whatever
// already exists. The ids it prints belong in the moi config section.
func initCatalog(ctx context.Context, out io.Writer, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) error {
	dbID, err := createDatabase(ctx, client, catalogID, dbName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "database_id: %d\n", dbID)

	tables := []struct {
		name, key string
		columns   []sdk.Column
		comment   string
	}{
		{"daily_scores", "daily_score_table", service.DailyScoreColumns, "AI productivity score per user per day"},
		{"weekly_scores", "weekly_score_table", service.WeeklyScoreColumns, "Monday to Sunday average of daily scores"},
	}
	for _, t := range tables {
		resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
			DatabaseID: dbID,
			Name:       t.name,
			Columns:    t.columns,
			Comment:    t.comment,
		})
		if err != nil {
			if isDuplicate(err) {
				logger.Info("catalog: table already exists, skipping", "name", t.name)
				fmt.Fprintf(out, "# %s already exists, keep the configured %s\n", t.name, t.key)
				continue
			}
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		logger.Info("catalog: table created", "name", t.name, "id", resp.TableID)
		fmt.Fprintf(out, "%s: %d\n", t.key, resp.TableID)
	}
	return nil
}

func createDatabase(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "productivity ranker scores",
	})
	if err != nil {
		if isDuplicate(err) {
			logger.Info("catalog: database already exists, discovering ID", "name", dbName)
			return discoverDatabaseID(ctx, client, catalogID, dbName)
		}
		return 0, fmt.Errorf("create database: %w", err)
	}
	logger.Info("catalog: database created", "id", resp.DatabaseID)
	return resp.DatabaseID, nil
}

func discoverDatabaseID(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range resp.List {
		if db.DatabaseName == dbName {
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "already exist") || strings.Contains(s, "conflict")
}
