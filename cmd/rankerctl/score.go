package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"productivity-ranker/internal/cache"
	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/model"
	"productivity-ranker/internal/service"
	"productivity-ranker/internal/store"

	"github.com/spf13/cobra"
)

// leaderboardService wires the redis cache when configured so CLI writes
// invalidate what the server is serving.
func (a *app) leaderboardService(ctx context.Context, st *store.Store) (*service.LeaderboardService, func()) {
	rc, err := cache.NewRedis(ctx, a.cfg.Redis, a.cfg.LeaderboardTTL())
	if err != nil {
		logger.Warn("redis unavailable, cache not invalidated", "err", err)
	}
	if rc == nil {
		return service.NewLeaderboardService(st, nil), func() {}
	}
	return service.NewLeaderboardService(st, rc), func() { rc.Close() }
}

func (a *app) scoringService(ctx context.Context, st *store.Store) (*service.ScoringService, func()) {
	lb, closeCache := a.leaderboardService(ctx, st)
	var mirror service.ScoreMirror
	if raw, err := a.cfg.NewRawClient(); err != nil {
		logger.Warn("sdk client init failed", "err", err)
	} else if raw != nil {
		mirror = service.NewCatalogSync(raw, a.cfg.MOI)
	}
	return service.NewScoringService(st, service.NewAIService(a.cfg.LLM), lb, mirror), closeCache
}

func (a *app) rescoreCmd() *cobra.Command {
	var userID int
	var date string
	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Score one user's day again and refresh the weekly average",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store) error {
			svc, done := a.scoringService(ctx, st)
			defer done()
			res, err := svc.ScoreDay(ctx, userID, date)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  score %d\n%s\n", res.Date, res.Score, res.Insight)
			if res.Weekly != nil {
				fmt.Fprintf(out, "week %s..%s  average %.1f over %d days\n",
					res.Weekly.WeekStart, res.Weekly.WeekEnd, res.Weekly.AverageScore, res.Weekly.DaysScored)
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&date, "date", "", "day to score, YYYY-MM-DD (default today)")
	cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) recomputeWeekCmd() *cobra.Command {
	var userID int
	var date string
	cmd := &cobra.Command{
		Use:   "recompute-week",
		Short: "Rebuild a user's weekly average from stored daily scores",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store) error {
			svc, done := a.scoringService(ctx, st)
			defer done()
			ws, err := svc.RecomputeWeek(ctx, userID, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "week %s..%s  average %.1f over %d days\n",
				ws.WeekStart, ws.WeekEnd, ws.AverageScore, ws.DaysScored)
			return nil
		}),
	}
	cmd.Flags().IntVar(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&date, "date", "", "any day inside the week, YYYY-MM-DD")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("date")
	return cmd
}

func (a *app) leaderboardCmd() *cobra.Command {
	var week string
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the weekly ranking",
		Args:  cobra.NoArgs,
		RunE: a.withStore(func(ctx context.Context, cmd *cobra.Command, st *store.Store) error {
			svc, done := a.leaderboardService(ctx, st)
			defer done()
			lb, err := func() (*model.Leaderboard, error) {
				if week == "" {
					return svc.Current(ctx)
				}
				return svc.Week(ctx, week)
			}()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "week %s..%s\n", lb.WeekStart, lb.WeekEnd)
			if len(lb.Rows) == 0 {
				fmt.Fprintln(out, "no scores yet")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tUSER\tNAME\tOCCUPATION\tAVG\tDAYS")
			for _, r := range lb.Rows {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.1f\t%d\n", r.Rank, r.UserID, r.DisplayName, r.Occupation, r.AverageScore, r.DaysScored)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringVar(&week, "week", "", "any day inside the week, YYYY-MM-DD (default this week)")
	return cmd
}
