package handler

import (
	"net/http"

	"productivity-ranker/internal/metrics"
	"productivity-ranker/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Routes struct {
	Auth        *AuthHandler
	Entries     *EntryHandler
	Scores      *ScoreHandler
	Leaderboard *LeaderboardHandler
	Chat        *ChatHandler

	Authenticator middleware.Authenticator
	Limiter       *middleware.RateLimiter
	DB            Pinger
	AllowOrigins  []string
}

func NewRouter(rt Routes) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if len(rt.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     rt.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-New-Token"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", Health(rt.DB))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/api/auth/register", rt.Auth.Register)
	r.POST("/api/auth/login", rt.Auth.Login)

	api := r.Group("/api", middleware.Auth(rt.Authenticator))
	api.POST("/auth/logout", rt.Auth.Logout)
	api.GET("/auth/me", rt.Auth.Me)
	api.PUT("/auth/profile", rt.Auth.UpdateProfile)

	api.POST("/entries", rt.Entries.Create)
	api.GET("/entries", rt.Entries.List)
	api.GET("/entries/range", rt.Entries.Range)
	api.DELETE("/entries/:id", rt.Entries.Delete)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if rt.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{rt.Limiter.Handler(), h}
	}
	api.POST("/scores/daily", limited(rt.Scores.ScoreDaily)...)
	api.GET("/scores/daily", rt.Scores.Daily)
	api.GET("/scores/weekly", rt.Scores.Weekly)

	api.GET("/leaderboard", rt.Leaderboard.Get)

	api.GET("/chat/messages", rt.Chat.History)
	api.POST("/chat/messages", limited(rt.Chat.Send)...)
	api.DELETE("/chat/messages", rt.Chat.Clear)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
