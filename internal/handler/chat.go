package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/metrics"
	"productivity-ranker/internal/model"
	"productivity-ranker/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct{ chat *service.ChatService }

func NewChatHandler(chat *service.ChatService) *ChatHandler { return &ChatHandler{chat: chat} }

func (h *ChatHandler) History(c *gin.Context) {
	msgs, err := h.chat.History(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(msgs))
}

func (h *ChatHandler) Clear(c *gin.Context) {
	n, err := h.chat.Clear(c.Request.Context(), c.GetInt("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("chat.cleared", "uid", c.GetInt("user_id"), "deleted", n)
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

type sseWriter struct {
	w gin.ResponseWriter
}

// newSSEWriter commits the stream headers; nothing else can be sent as
// JSON afterwards.
func newSSEWriter(c *gin.Context) *sseWriter {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	return &sseWriter{w: c.Writer}
}

func (s *sseWriter) data(v any) {
	j, _ := json.Marshal(v)
	fmt.Fprintf(s.w, "data: %s\n\n", j)
	s.w.Flush()
}

func (s *sseWriter) content(t string) { s.data(gin.H{"content": t}) }

func (s *sseWriter) fail(msg string) { s.data(gin.H{"error": msg}) }

func (s *sseWriter) done() {
	fmt.Fprint(s.w, "data: [DONE]\n\n")
	s.w.Flush()
}

// Send streams the coach's reply as SSE. Headers are held back until the
// first fragment so an upstream failure before any output is still a plain
// 500.
func (h *ChatHandler) Send(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	uid := c.GetInt("user_id")
	turn, err := h.chat.Send(ctx, uid, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("chat.stream", "uid", uid, "context_messages", len(turn.Context))

	var (
		sse       *sseWriter
		streamErr error
		frags     int
	)
	for frag, err := range turn.Stream(ctx) {
		if err != nil {
			streamErr = err
			break
		}
		if sse == nil {
			sse = newSSEWriter(c)
		}
		sse.content(frag)
		frags++
	}

	if _, err := turn.Finish(ctx); err != nil {
		logger.Error("chat.persist_failed", "uid", uid, "err", err)
	}

	switch {
	case streamErr != nil && ctx.Err() != nil:
		metrics.ChatOutcome("canceled")
		logger.Info("chat.canceled", "uid", uid, "fragments", frags)
	case streamErr != nil && sse == nil:
		metrics.ChatOutcome("early_error")
		writeError(c, fmt.Errorf("chat stream: %w", streamErr))
	case streamErr != nil:
		metrics.ChatOutcome("late_error")
		logger.Error("chat.stream_failed", "uid", uid, "fragments", frags, "err", streamErr)
		sse.fail("the coach stopped responding, please try again")
	default:
		if sse == nil {
			sse = newSSEWriter(c)
		}
		sse.done()
		metrics.ChatOutcome("done")
		logger.Info("chat.done", "uid", uid, "fragments", frags, "reply_len", len(turn.Reply()))
	}
}
