package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/storage"
	"github.com/mrlokans/bookshelf/internal/view"
)

type (
	Config struct {
		HTTP
		Global
		Catalog
		View
		ReadingList
		Database
		Badger
		Redis
		Refresh
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Catalog struct {
		BaseURL string
		Timeout time.Duration
	}
	View struct {
		SearchDebounce time.Duration
		Locale         string
		DefaultSort    string
	}
	ReadingList struct {
		Backend string // sqlite, badger, redis or memory
		Key     string
	}
	Database struct {
		Path string
	}
	Badger struct {
		Path string // Empty keeps the store in memory
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Refresh struct {
		Enabled  bool
		Schedule string // Cron format: "*/5 * * * *" = every five minutes
	}
	Log struct {
		Level       string
		Development bool
	}
)

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Global.ShutdownTimeoutInSeconds) * time.Second
}

// ListenAddr returns the listen address of the presentation server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// LoadDotEnv loads variables from a .env file when one exists. Variables
// already set in the environment win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("catalog_timeout", "10s")
	v.SetDefault("search_debounce", "300ms")
	v.SetDefault("view_locale", "en")
	v.SetDefault("default_sort", "title-asc")
	v.SetDefault("reading_list_backend", storage.BackendSQLite)
	v.SetDefault("reading_list_key", DefaultReadingListKey)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("badger_path", DefaultBadgerPath)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("refresh_enabled", false)
	v.SetDefault("refresh_schedule", "*/5 * * * *")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Catalog: Catalog{
			BaseURL: v.GetString("CATALOG_BASE_URL"),
			Timeout: v.GetDuration("CATALOG_TIMEOUT"),
		},
		View: View{
			SearchDebounce: v.GetDuration("SEARCH_DEBOUNCE"),
			Locale:         v.GetString("VIEW_LOCALE"),
			DefaultSort:    v.GetString("DEFAULT_SORT"),
		},
		ReadingList: ReadingList{
			Backend: v.GetString("READING_LIST_BACKEND"),
			Key:     v.GetString("READING_LIST_KEY"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Badger: Badger{
			Path: v.GetString("BADGER_PATH"),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Refresh: Refresh{
			Enabled:  v.GetBool("REFRESH_ENABLED"),
			Schedule: v.GetString("REFRESH_SCHEDULE"),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.Global.ShutdownTimeoutInSeconds < 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_IN_SECONDS must not be negative"))
	}
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("CATALOG_BASE_URL is required"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("CATALOG_TIMEOUT must be positive"))
	}
	if c.View.SearchDebounce <= 0 {
		errs = append(errs, errors.New("SEARCH_DEBOUNCE must be positive"))
	}
	if _, err := view.ParseSortOption(c.View.DefaultSort); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_SORT: %w", err))
	}
	if !slices.Contains(storage.Backends, c.ReadingList.Backend) {
		errs = append(errs, fmt.Errorf("READING_LIST_BACKEND must be one of %v, got %q", storage.Backends, c.ReadingList.Backend))
	}
	if c.ReadingList.Key == "" {
		errs = append(errs, errors.New("READING_LIST_KEY is required"))
	}
	if c.ReadingList.Backend == storage.BackendSQLite && c.Database.Path == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required for the sqlite backend"))
	}
	if c.ReadingList.Backend == storage.BackendRedis && c.Redis.Addr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required for the redis backend"))
	}
	if c.Refresh.Enabled {
		if err := scheduler.ValidateSchedule(c.Refresh.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("REFRESH_SCHEDULE: %w", err))
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	return errors.Join(errs...)
}
