package handler

import (
	"errors"
	"io"
	"net/http"

	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/model"
	"productivity-ranker/internal/service"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct{ scoring *service.ScoringService }

func NewScoreHandler(scoring *service.ScoringService) *ScoreHandler {
	return &ScoreHandler{scoring: scoring}
}

// ScoreDaily scores the day in the body, or today when the body is empty.
func (h *ScoreHandler) ScoreDaily(c *gin.Context) {
	var req model.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}
	uid := c.GetInt("user_id")
	logger.Info("score.request", "uid", uid, "date", req.Date)

	res, err := h.scoring.ScoreDay(c.Request.Context(), uid, req.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ScoreHandler) Daily(c *gin.Context) {
	scores, err := h.scoring.DailyScores(c.Request.Context(), c.GetInt("user_id"), c.Query("start"), c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(scores))
}

func (h *ScoreHandler) Weekly(c *gin.Context) {
	scores, err := h.scoring.WeeklyScores(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(scores))
}
