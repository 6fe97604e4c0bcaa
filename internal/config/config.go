package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	sdk "github.com/matrixorigin/moi-go-sdk"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Cron      CronConfig      `yaml:"cron"`
	MOI       MOIConfig       `yaml:"moi"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port            int      `yaml:"port"`
	AllowOrigins    []string `yaml:"allow_origins"`
	ShutdownSeconds int      `yaml:"shutdown_seconds"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres, mysql, sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"` // file path for sqlite
	SSLMode  string `yaml:"sslmode"`
	MaxOpen  int    `yaml:"max_open"`
	MaxIdle  int    `yaml:"max_idle"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	SessionDays  int    `yaml:"session_days"`
	CookieSecure bool   `yaml:"cookie_secure"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // empty disables the cache
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	LeaderboardTTLSec int `yaml:"leaderboard_ttl_sec"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

type CronConfig struct {
	SessionSweep string `yaml:"session_sweep"`
}

type MOIConfig struct {
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"api_key"`
	CatalogID        int    `yaml:"catalog_id"`
	DatabaseName     string `yaml:"database_name"`
	DatabaseID       int    `yaml:"database_id"`
	DailyScoreTable  int    `yaml:"daily_score_table"`
	WeeklyScoreTable int    `yaml:"weekly_score_table"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:    ServerConfig{Port: 9871, AllowOrigins: []string{"*"}, ShutdownSeconds: 10},
		Log:       LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database:  DatabaseConfig{Driver: "postgres", Host: "localhost", Port: 5432, User: "postgres", Name: "productivity_ranker", SSLMode: "disable", MaxOpen: 20, MaxIdle: 10},
		LLM:       LLMConfig{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini", Temperature: 0.7, TimeoutSec: 120},
		Auth:      AuthConfig{JWTSecret: "productivity-ranker-dev-secret", SessionDays: 7},
		Cache:     CacheConfig{LeaderboardTTLSec: 300},
		RateLimit: RateLimitConfig{PerMinute: 20, Burst: 5},
		Cron:      CronConfig{SessionSweep: "@hourly"},
		MOI:       MOIConfig{CatalogID: 1, DatabaseName: "productivity_ranker"},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/productivity-ranker/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	// .env is optional; real environment variables still win.
	_ = godotenv.Load()

	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Database.SSLMode, "DB_SSLMODE")
	envOverride(&c.LLM.BaseURL, "LLM_BASE_URL")
	envOverride(&c.LLM.APIKey, "LLM_API_KEY")
	envOverride(&c.LLM.Model, "LLM_MODEL")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Redis.Addr, "REDIS_ADDR")
	envOverride(&c.MOI.BaseURL, "MOI_BASE_URL")
	envOverride(&c.MOI.APIKey, "MOI_API_KEY")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionDays) * 24 * time.Hour
}

func (c *Config) LeaderboardTTL() time.Duration {
	return time.Duration(c.Cache.LeaderboardTTLSec) * time.Second
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	dialector, err := c.dialector()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if c.Database.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(c.Database.MaxOpen)
	}
	if c.Database.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(c.Database.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func (c *Config) dialector() (gorm.Dialector, error) {
	d := c.Database
	switch d.Driver {
	case "postgres", "postgresql", "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
		return postgres.Open(dsn), nil
	case "mysql":
		connector, err := gomysql.NewConnector(mysqlConfig(d))
		if err != nil {
			return nil, fmt.Errorf("create connector: %w", err)
		}
		return mysql.New(mysql.Config{Conn: sql.OpenDB(connector)}), nil
	case "sqlite":
		return sqlite.Open(d.Name), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", d.Driver)
	}
}

// mysqlConfig reports matched rather than changed rows, so an update that
// rewrites identical values still affects one row.
func mysqlConfig(d DatabaseConfig) *gomysql.Config {
	cfg := gomysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg
}

// NewRawClient returns nil when the analytics catalog is not configured.
func (c *Config) NewRawClient() (*sdk.RawClient, error) {
	if c.MOI.APIKey == "" || c.MOI.BaseURL == "" {
		return nil, nil
	}
	return sdk.NewRawClient(c.MOI.BaseURL, c.MOI.APIKey)
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
