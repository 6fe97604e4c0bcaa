package handler

import (
	"net/http"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct{ leaderboard *service.LeaderboardService }

func NewLeaderboardHandler(lb *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: lb}
}

// Get ranks the week containing ?week=, or the current week.
func (h *LeaderboardHandler) Get(c *gin.Context) {
	var (
		lb  *model.Leaderboard
		err error
	)
	if week := c.Query("week"); week != "" {
		lb, err = h.leaderboard.Week(c.Request.Context(), week)
	} else {
		lb, err = h.leaderboard.Current(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}
