package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		OpenLibrary
		Covers
		Tasks
		Session
		CORS
		Activity
	}

	HTTP struct {
		Port int32
		Host string
		// Per-client limit on the book endpoints that reach OpenLibrary
		RateLimitRPS   float64
		RateLimitBurst int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	OpenLibrary struct {
		BaseURL           string
		Timeout           time.Duration
		RequestsPerSecond float64
		SearchLimit       int           // Max results per search (default: 20)
		SearchDebounce    time.Duration // Pause before a typed query is searched
	}
	Covers struct {
		Dir             string
		AllowedOrigins  []string // Hosts covers may be downloaded from
		CleanupEnabled  bool
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled           bool
		DatabasePath      string
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	CORS struct {
		AllowedOrigins []string
	}
	Activity struct {
		Retention time.Duration // Activity log entries older than this are dropped at startup
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("api_rate_limit_rps", 5)
	v.SetDefault("api_rate_limit_burst", 10)
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// OpenLibrary defaults
	v.SetDefault("openlibrary_base_url", "https://openlibrary.org")
	v.SetDefault("openlibrary_timeout", "10s")
	v.SetDefault("openlibrary_rps", 3)
	v.SetDefault("search_result_limit", 20)
	v.SetDefault("search_debounce", "500ms")

	// Cover cache defaults
	v.SetDefault("covers_dir", DefaultCoversDir)
	v.SetDefault("cover_origins", "https://covers.openlibrary.org")
	v.SetDefault("cover_cleanup_enabled", true)
	v.SetDefault("cover_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "1m")
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", false)

	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("activity_retention", "2160h") // 90 days

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),

			RateLimitRPS:   v.GetFloat64("API_RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("API_RATE_LIMIT_BURST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:           v.GetString("OPENLIBRARY_BASE_URL"),
			Timeout:           v.GetDuration("OPENLIBRARY_TIMEOUT"),
			RequestsPerSecond: v.GetFloat64("OPENLIBRARY_RPS"),
			SearchLimit:       v.GetInt("SEARCH_RESULT_LIMIT"),
			SearchDebounce:    v.GetDuration("SEARCH_DEBOUNCE"),
		},
		Covers: Covers{
			Dir:             v.GetString("COVERS_DIR"),
			AllowedOrigins:  splitList(v.GetString("COVER_ORIGINS")),
			CleanupEnabled:  v.GetBool("COVER_CLEANUP_ENABLED"),
			CleanupSchedule: v.GetString("COVER_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			DatabasePath:      v.GetString("TASKS_DATABASE_PATH"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Activity: Activity{
			Retention: v.GetDuration("ACTIVITY_RETENTION"),
		},
	}
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
