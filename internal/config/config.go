package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 同期パイプラインの設定。
// 設定ファイル(JSON、省略可)を読み込んだ後に環境変数で上書きする。
// APIトークンは環境変数からのみ受け取る(ファイルに書かせない)。
type Config struct {
	// CRM本体のAPI
	APIBaseURL      string        `json:"api_base_url"`
	APIToken        string        `json:"-"`
	PageSize        int           `json:"page_size"`
	RequestTimeout  time.Duration `json:"request_timeout"`
	RateLimitPerSec float64       `json:"rate_limit_per_sec"`

	// ソース
	SourcePath string `json:"source_path"`
	SheetsDir  string `json:"sheets_dir"`

	// 年なし日付(M/D)の補完に使う基準年。
	// 元データの既知の曖昧さなので、推測せず設定で明示する
	ReferenceYear int `json:"reference_year"`

	// 成果物
	HistoryDBPath string `json:"history_db_path"`
	ReportDir     string `json:"report_dir"`
}

// Load 設定を読み込む。path が空ならデフォルト+環境変数のみ。
func Load(path string) (*Config, error) {
	cfg := &Config{
		PageSize:        100,
		RequestTimeout:  30 * time.Second,
		RateLimitPerSec: 5,
		SourcePath:      "./data/candidates.csv",
		ReferenceYear:   time.Now().Year(),
		HistoryDBPath:   "./sync_history.db",
		ReportDir:       "./reports",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.APIBaseURL = getEnv("CRMSYNC_API_BASE_URL", cfg.APIBaseURL)
	cfg.APIToken = os.Getenv("CRMSYNC_API_TOKEN")
	cfg.PageSize = getEnvInt("CRMSYNC_PAGE_SIZE", cfg.PageSize)
	cfg.RequestTimeout = getEnvDuration("CRMSYNC_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RateLimitPerSec = getEnvFloat("CRMSYNC_RATE_LIMIT", cfg.RateLimitPerSec)
	cfg.SourcePath = getEnv("CRMSYNC_SOURCE_PATH", cfg.SourcePath)
	cfg.SheetsDir = getEnv("CRMSYNC_SHEETS_DIR", cfg.SheetsDir)
	cfg.ReferenceYear = getEnvInt("CRMSYNC_REFERENCE_YEAR", cfg.ReferenceYear)
	cfg.HistoryDBPath = getEnv("CRMSYNC_HISTORY_DB", cfg.HistoryDBPath)
	cfg.ReportDir = getEnv("CRMSYNC_REPORT_DIR", cfg.ReportDir)

	return cfg, nil
}

// Validate 起動前の設定チェック。不足があれば起動を中断させる
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: api_base_url is required (set CRMSYNC_API_BASE_URL)")
	}
	if c.APIToken == "" {
		return fmt.Errorf("config: API token is required (set CRMSYNC_API_TOKEN)")
	}
	if c.PageSize < 1 || c.PageSize > 500 {
		return fmt.Errorf("config: page_size must be between 1 and 500, got %d", c.PageSize)
	}
	if c.ReferenceYear < 2000 || c.ReferenceYear > 2100 {
		return fmt.Errorf("config: reference_year %d is out of range", c.ReferenceYear)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
