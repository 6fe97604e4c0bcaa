package model

import "time"

const DateLayout = "2006-01-02"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Categories accepted for an entry.
var Categories = []string{"work", "learning", "exercise", "creative", "health", "social"}

type User struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:32;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DisplayName  string    `gorm:"size:100" json:"display_name"`
	Occupation   string    `gorm:"size:100" json:"occupation"`
	Goals        string    `gorm:"type:text" json:"goals"`
	CreatedAt    time.Time `json:"created_at"`
}

type Entry struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	UserID          int       `gorm:"index:idx_entries_user_date,priority:1;not null" json:"user_id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Category        string    `gorm:"size:20;not null" json:"category"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	Date            string    `gorm:"size:10;index:idx_entries_user_date,priority:2;not null" json:"date"`
	CreatedAt       time.Time `json:"created_at"`
}

type DailyScore struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"uniqueIndex:uk_daily_user_date,priority:1;not null" json:"user_id"`
	Date      string    `gorm:"size:10;uniqueIndex:uk_daily_user_date,priority:2;not null" json:"date"`
	Score     int       `json:"score"`
	Insight   string    `gorm:"type:text" json:"insight,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WeeklyScore struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	UserID       int       `gorm:"uniqueIndex:uk_weekly_user_start,priority:1;not null" json:"user_id"`
	WeekStart    string    `gorm:"size:10;uniqueIndex:uk_weekly_user_start,priority:2;index;not null" json:"week_start"`
	WeekEnd      string    `gorm:"size:10;not null" json:"week_end"`
	AverageScore float64   `json:"average_score"`
	DaysScored   int       `json:"days_scored"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"index:idx_chat_user_created,priority:1;not null" json:"user_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_chat_user_created,priority:2" json:"created_at"`
}

// Session backs one issued token; its ID is the token's jti.
type Session struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	UserID    int       `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string        { return "users" }
func (Entry) TableName() string       { return "entries" }
func (DailyScore) TableName() string  { return "daily_scores" }
func (WeeklyScore) TableName() string { return "weekly_scores" }
func (ChatMessage) TableName() string { return "chat_messages" }
func (Session) TableName() string     { return "sessions" }

// All lists every persisted type, in migration order.
func All() []any {
	return []any{&User{}, &Entry{}, &DailyScore{}, &WeeklyScore{}, &ChatMessage{}, &Session{}}
}
