package model

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=32,alphanumunder"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Occupation  string `json:"occupation" binding:"max=100"`
	Goals       string `json:"goals" binding:"max=2000"`
}

type LoginRequest struct {
	// Login accepts either the username or the email address.
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=100"`
	Occupation  *string `json:"occupation" binding:"omitempty,max=100"`
	Goals       *string `json:"goals" binding:"omitempty,max=2000"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type EntryRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	Category        string `json:"category" binding:"required,oneof=work learning exercise creative health social"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=1440"`
	Completed       bool   `json:"completed"`
	Notes           string `json:"notes" binding:"max=2000"`
	Date            string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type ScoreRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type LeaderboardRow struct {
	Rank         int     `json:"rank"`
	UserID       int     `json:"user_id"`
	DisplayName  string  `json:"display_name"`
	Occupation   string  `json:"occupation"`
	AverageScore float64 `json:"average_score"`
	DaysScored   int     `json:"days_scored"`
}

type Leaderboard struct {
	WeekStart string           `json:"week_start"`
	WeekEnd   string           `json:"week_end"`
	Rows      []LeaderboardRow `json:"rows"`
}
