package service

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"productivity-ranker/internal/model"
	"productivity-ranker/internal/store"
)

const (
	historyLimit      = 20
	contextEntryLimit = 20
)

type ChatService struct {
	store *store.Store
	ai    Generator
	now   func() time.Time
}

func NewChatService(st *store.Store, ai Generator) *ChatService {
	return &ChatService{store: st, ai: ai, now: time.Now}
}

func (s *ChatService) History(ctx context.Context, userID int) ([]model.ChatMessage, error) {
	return s.store.ChatHistory(ctx, userID)
}

func (s *ChatService) Clear(ctx context.Context, userID int) (int64, error) {
	return s.store.ClearChat(ctx, userID)
}

// ChatTurn is one exchange: the stored user message plus the context the
// reply will be generated from.
type ChatTurn struct {
	UserMessage *model.ChatMessage
	Context     []Message

	ai     Generator
	store  *store.Store
	userID int
	reply  strings.Builder
}

// Send stores the user's message and assembles the generation context.
// Nothing is generated until Stream is ranged over.
func (s *ChatService) Send(ctx context.Context, userID int, content string) (*ChatTurn, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("chat: load user: %w", err)
	}

	msg := &model.ChatMessage{UserID: userID, Role: model.RoleUser, Content: content}
	if err := s.store.AddChatMessage(ctx, msg); err != nil {
		return nil, err
	}

	history, err := s.store.RecentChatMessages(ctx, userID, msg.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	start, end := WeekBounds(s.now())
	entries, err := s.store.RecentEntries(ctx, userID, start, end, contextEntryLimit)
	if err != nil {
		return nil, err
	}
	scores, err := s.store.DailyScoresBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return &ChatTurn{
		UserMessage: msg,
		Context:     BuildChatContext(CoachInstruction(user, entries, scores), history, content),
		ai:          s.ai,
		store:       s.store,
		userID:      userID,
	}, nil
}

// Stream yields reply fragments from the generator and accumulates them.
func (t *ChatTurn) Stream(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for frag, err := range t.ai.Stream(ctx, t.Context) {
			if err != nil {
				yield("", err)
				return
			}
			t.reply.WriteString(frag)
			if !yield(frag, nil) {
				return
			}
		}
	}
}

func (t *ChatTurn) Reply() string { return t.reply.String() }

// Finish stores whatever reply was accumulated as one assistant message. It
// runs detached from ctx cancellation so a client hanging up mid-stream
// does not lose the part it already saw. An empty reply stores nothing.
func (t *ChatTurn) Finish(ctx context.Context) (*model.ChatMessage, error) {
	reply := t.reply.String()
	if strings.TrimSpace(reply) == "" {
		return nil, nil
	}
	msg := &model.ChatMessage{UserID: t.userID, Role: model.RoleAssistant, Content: reply}
	if err := t.store.AddChatMessage(context.WithoutCancel(ctx), msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// BuildChatContext orders the system instruction, at most historyLimit
// prior turns (oldest first), then the new message.
func BuildChatContext(system string, history []model.ChatMessage, content string) []Message {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	msgs := make([]Message, 0, len(history)+2)
	msgs = append(msgs, Message{Role: model.RoleSystem, Content: system})
	for _, m := range history {
		if m.Role == model.RoleUser || m.Role == model.RoleAssistant {
			msgs = append(msgs, Message{Role: m.Role, Content: m.Content})
		}
	}
	return append(msgs, Message{Role: model.RoleUser, Content: content})
}

// CoachInstruction is the system prompt: persona, profile, and this week's
// activity and scores.
func CoachInstruction(u *model.User, entries []model.Entry, scores []model.DailyScore) string {
	var sb strings.Builder
	sb.WriteString("You are a friendly, practical productivity coach. Give concise, specific, encouraging advice grounded in the user's own data.\n\n")
	fmt.Fprintf(&sb, "User: %s\n", u.DisplayName)
	if u.Occupation != "" {
		fmt.Fprintf(&sb, "Occupation: %s\n", u.Occupation)
	}
	if u.Goals != "" {
		fmt.Fprintf(&sb, "Goals: %s\n", u.Goals)
	}

	sb.WriteString("\nRecent activities this week:\n")
	if len(entries) == 0 {
		sb.WriteString("- none logged yet\n")
	}
	for _, e := range entries {
		status := "not completed"
		if e.Completed {
			status = "completed"
		}
		fmt.Fprintf(&sb, "- %s: %s [%s] %d min, %s\n", e.Date, e.Title, e.Category, e.DurationMinutes, status)
	}

	sb.WriteString("\nDaily scores this week:\n")
	if len(scores) == 0 {
		sb.WriteString("- no scores yet\n")
	}
	for _, ds := range scores {
		fmt.Fprintf(&sb, "- %s: %d/100", ds.Date, ds.Score)
		if ds.Insight != "" {
			fmt.Fprintf(&sb, " (%s)", ds.Insight)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
