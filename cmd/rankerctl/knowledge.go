package main

import (
	"context"

	"productivity-ranker/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// scoreKnowledge teaches the catalog's NL2SQL agent the score tables.
var scoreKnowledge = []sdk.NL2SQLKnowledgeCreateRequest{
	{Type: "glossary", Key: "daily score", Value: []string{"a row in daily_scores: the AI productivity rating (0-100) of one user for one day"}},
	{Type: "glossary", Key: "weekly average", Value: []string{"weekly_scores.average_score: mean of the user's daily scores from Monday to Sunday, one decimal"}},
	{Type: "glossary", Key: "leaderboard", Value: []string{"users ranked by weekly_scores.average_score for one week_start, ties broken by days_scored"}},

	{Type: "synonyms", Key: "score/rating/productivity", Value: []string{"daily productivity score"}, AssociateTables: []string{"daily_scores,score"}},
	{Type: "synonyms", Key: "day/date/when", Value: []string{"the scored day"}, AssociateTables: []string{"daily_scores,score_date"}},
	{Type: "synonyms", Key: "week/this week", Value: []string{"Monday that starts the week"}, AssociateTables: []string{"weekly_scores,week_start"}},

	{Type: "logic", Key: "a week runs Monday to Sunday; week_start is always a Monday", Value: []string{"week_start = DATE_SUB(d, INTERVAL WEEKDAY(d) DAY)"}},
	{Type: "logic", Key: "rescoring a day overwrites its row, so each (user_id, score_date) appears at most once", Value: []string{"no de-duplication needed"}},

	{Type: "case_library", Key: "top 10 this week", Value: []string{"SELECT user_id, average_score, days_scored FROM weekly_scores WHERE week_start = DATE_SUB(CURDATE(), INTERVAL WEEKDAY(CURDATE()) DAY) ORDER BY average_score DESC, days_scored DESC, user_id LIMIT 10"}},
	{Type: "case_library", Key: "average daily score over the last 30 days", Value: []string{"SELECT AVG(score) FROM daily_scores WHERE score_date >= DATE_SUB(CURDATE(), INTERVAL 30 DAY)"}},
}

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	for _, k := range scoreKnowledge {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("knowledge: already exists, skipping", "type", k.Type, "key", k.Key)
				continue
			}
			return err
		}
		logger.Info("knowledge: created", "type", k.Type, "key", k.Key, "id", resp.ID)
	}
	return nil
}
