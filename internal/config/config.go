package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
)

const (
	defaultNotionBaseURL  = "https://api.notion.com"
	defaultNotionVersion  = "2022-06-28"
	defaultTitleProperty  = "Nama Mata Kuliah"
	defaultDateProperty   = "Tanggal"
	defaultTimeZone       = "Asia/Jakarta"
	defaultPortalBaseURL  = "https://portal.pknstan.ac.id"
	defaultHTTPAddr       = ":8080"
	defaultHTTPTimeout    = 15 * time.Second
	defaultHistoryKeep    = 30 * 24 * time.Hour
	defaultEnvironment    = "development"
	productionEnvironment = "production"
)

type Config struct {
	NotionAPIKey        string
	NotionDatabaseID    string
	NotionBaseURL       string
	NotionVersion       string
	NotionTitleProperty string
	NotionDateProperty  string

	TimeZone string
	Location *time.Location

	PortalBaseURL string
	HTTPAddr      string
	HTTPTimeout   time.Duration

	Environment string

	DBDSN            string
	HistoryRetention time.Duration

	TelegramToken  string
	TelegramChatID int64
}

// Load reads .env (if present) and the process environment.
// Missing Notion credentials are a startup error with code CONFIG.
func Load() (*Config, error) {
	// A missing .env file is normal in deployments that inject variables directly.
	_ = godotenv.Load(".env")

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		NotionAPIKey:        get("NOTION_API_KEY", ""),
		NotionDatabaseID:    get("NOTION_DATABASE_ID", ""),
		NotionBaseURL:       strings.TrimRight(get("NOTION_BASE_URL", defaultNotionBaseURL), "/"),
		NotionVersion:       get("NOTION_VERSION", defaultNotionVersion),
		NotionTitleProperty: get("NOTION_TITLE_PROPERTY", defaultTitleProperty),
		NotionDateProperty:  get("NOTION_DATE_PROPERTY", defaultDateProperty),
		TimeZone:            get("TIME_ZONE", defaultTimeZone),
		PortalBaseURL:       strings.TrimRight(get("PORTAL_BASE_URL", defaultPortalBaseURL), "/"),
		HTTPAddr:            get("HTTP_ADDR", defaultHTTPAddr),
		Environment:         get("ENV", defaultEnvironment),
		DBDSN:               get("DB_DSN", ""),
		TelegramToken:       get("TELEGRAM_TOKEN", ""),
	}

	if cfg.NotionAPIKey == "" || cfg.NotionDatabaseID == "" {
		return nil, apperrors.Config("Konfigurasi Notion API (Key atau Database ID) tidak ditemukan di server.")
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfig, fmt.Sprintf("TIME_ZONE %q is invalid", cfg.TimeZone), err)
	}
	cfg.Location = loc

	if cfg.HTTPTimeout, err = parseDuration(get("HTTP_TIMEOUT", ""), defaultHTTPTimeout); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfig, "HTTP_TIMEOUT is invalid", err)
	}
	if cfg.HistoryRetention, err = parseDuration(get("HISTORY_RETENTION", ""), defaultHistoryKeep); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfig, "HISTORY_RETENTION is invalid", err)
	}

	if chatID := get("TELEGRAM_CHAT_ID", ""); chatID != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "TELEGRAM_CHAT_ID is invalid", err)
		}
	}

	return cfg, nil
}

func parseDuration(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", v)
	}
	return d, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == productionEnvironment
}

// HistoryEnabled reports whether sync runs are recorded in Postgres.
func (c *Config) HistoryEnabled() bool {
	return c.DBDSN != ""
}

// NotifierEnabled reports whether run summaries go to Telegram.
func (c *Config) NotifierEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// DatabaseDSN returns DB_DSN from .env or the environment without requiring the rest of the config.
func DatabaseDSN() string {
	_ = godotenv.Load(".env")
	return strings.TrimSpace(os.Getenv("DB_DSN"))
}
