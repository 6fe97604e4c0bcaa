package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"productivity-ranker/internal/config"
	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/model"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// ScoreMirror receives every persisted score row. Implementations must not
// block scoring on failure.
type ScoreMirror interface {
	MirrorDailyScore(ctx context.Context, ds *model.DailyScore)
	MirrorWeeklyScore(ctx context.Context, ws *model.WeeklyScore)
}

// CatalogSync appends score rows to MOI catalog tables for analytics.
type CatalogSync struct {
	raw         *sdk.RawClient
	sdk         *sdk.SDKClient
	databaseID  sdk.DatabaseID
	dailyTable  sdk.TableID
	weeklyTable sdk.TableID
	log         *slog.Logger
}

func NewCatalogSync(raw *sdk.RawClient, cfg config.MOIConfig) *CatalogSync {
	return &CatalogSync{
		raw:         raw,
		sdk:         sdk.NewSDKClient(raw),
		databaseID:  sdk.DatabaseID(cfg.DatabaseID),
		dailyTable:  sdk.TableID(cfg.DailyScoreTable),
		weeklyTable: sdk.TableID(cfg.WeeklyScoreTable),
		log:         logger.For("catalog_sync"),
	}
}

// DailyScoreColumns is the catalog layout of daily_scores, shared with
// `rankerctl catalog-init`.
var DailyScoreColumns = []sdk.Column{
	{Name: "id", Type: "INT", IsPk: true, Comment: "primary key"},
	{Name: "user_id", Type: "INT", Comment: "users.id"},
	{Name: "score_date", Type: "DATE", Comment: "day being scored"},
	{Name: "score", Type: "INT", Comment: "AI productivity score 0-100"},
	{Name: "insight", Type: "TEXT", Comment: "AI insight for the day"},
	{Name: "updated_at", Type: "DATETIME", Comment: "last rescore time"},
}

var WeeklyScoreColumns = []sdk.Column{
	{Name: "id", Type: "INT", IsPk: true, Comment: "primary key"},
	{Name: "user_id", Type: "INT", Comment: "users.id"},
	{Name: "week_start", Type: "DATE", Comment: "Monday of the week"},
	{Name: "week_end", Type: "DATE", Comment: "Sunday of the week"},
	{Name: "average_score", Type: "DOUBLE", Comment: "mean daily score, one decimal"},
	{Name: "days_scored", Type: "INT", Comment: "number of scored days"},
	{Name: "updated_at", Type: "DATETIME", Comment: "last recompute time"},
}

func (s *CatalogSync) MirrorDailyScore(ctx context.Context, ds *model.DailyScore) {
	row := fmt.Sprintf("%d,%d,%s,%d,%s,%s\n",
		ds.ID, ds.UserID, ds.Date, ds.Score, esc(ds.Insight), ds.UpdatedAt.UTC().Format(time.DateTime))
	s.importCSV(ctx, s.dailyTable, row, fmt.Sprintf("daily_%d_%s.csv", ds.UserID, ds.Date), mapping(DailyScoreColumns))
}

func (s *CatalogSync) MirrorWeeklyScore(ctx context.Context, ws *model.WeeklyScore) {
	row := fmt.Sprintf("%d,%d,%s,%s,%.1f,%d,%s\n",
		ws.ID, ws.UserID, ws.WeekStart, ws.WeekEnd, ws.AverageScore, ws.DaysScored, ws.UpdatedAt.UTC().Format(time.DateTime))
	s.importCSV(ctx, s.weeklyTable, row, fmt.Sprintf("weekly_%d_%s.csv", ws.UserID, ws.WeekStart), mapping(WeeklyScoreColumns))
}

func mapping(cols []sdk.Column) []sdk.FileAndTableColumnMapping {
	out := make([]sdk.FileAndTableColumnMapping, len(cols))
	for i, c := range cols {
		out[i] = sdk.FileAndTableColumnMapping{TableColumn: c.Name, Column: c.Name, ColNumInFile: int32(i + 1)}
	}
	return out
}

func (s *CatalogSync) importCSV(ctx context.Context, tableID sdk.TableID, csv, fileName string, cols []sdk.FileAndTableColumnMapping) {
	if tableID == 0 {
		return
	}
	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		s.log.Warn("upload failed", "table", tableID, "err", err)
		return
	}
	if len(resp.ConnFileIds) == 0 {
		s.log.Warn("no conn_file_ids", "table", tableID)
		return
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.databaseID,
		TableID:          tableID,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     cols,
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		s.log.Warn("import failed", "table", tableID, "err", err)
		return
	}
	s.log.Debug("row imported", "table", tableID, "file", fileName)
}

func esc(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
