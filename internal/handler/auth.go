package handler

import (
	"net/http"
	"time"

	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/middleware"
	"productivity-ranker/internal/model"
	"productivity-ranker/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth         *service.AuthService
	ttl          time.Duration
	cookieSecure bool
}

func NewAuthHandler(auth *service.AuthService, ttl time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, ttl: ttl, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, token, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		logger.Warn("register.failed", "username", req.Username, "err", err)
		writeError(c, err)
		return
	}
	logger.Info("register.ok", "uid", u.ID, "username", u.Username)

	h.setCookie(c, token, int(h.ttl.Seconds()))
	c.JSON(http.StatusCreated, model.AuthResponse{Token: token, User: *u})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warn("login.failed", "username", req.Username)
		writeError(c, err)
		return
	}
	logger.Info("login.ok", "uid", u.ID, "name", u.DisplayName)

	h.setCookie(c, token, int(h.ttl.Seconds()))
	c.JSON(http.StatusOK, model.AuthResponse{Token: token, User: *u})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.GetString("session_id")); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("logout.ok", "uid", c.GetInt("user_id"))
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.auth.Me(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.auth.UpdateProfile(c.Request.Context(), c.GetInt("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) setCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cookieSecure, true)
}
