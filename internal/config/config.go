// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//AI extraction
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"gemini_model"`

	//Boards to scrape. Empty list means all registered boards.
	Boards    []string `yaml:"boards"`
	UserAgent string   `yaml:"user_agent"`
	//Per-run cap on AI extractions, 0 = unlimited
	MaxJobsPerRun int `yaml:"max_jobs_per_run"`
	//Polite delay bounds between page loads (milliseconds)
	MinDelayMs int `yaml:"min_delay_ms"`
	MaxDelayMs int `yaml:"max_delay_ms"`

	//Paths
	JobsDBFile     string `yaml:"jobs_db_file"`
	CategoriesFile string `yaml:"categories_file"`
	LocationsFile  string `yaml:"locations_file"`
	CachePath      string `yaml:"cache_path"`
	CookiesPath    string `yaml:"cookies_path"`

	//Telegram reporting (optional)
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	//Postgres archive (optional)
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	//Daemon mode: cron expression, empty = single run
	Schedule string `yaml:"schedule"`

	//Container runner
	Runner RunnerConfig `yaml:"runner"`
}

// RunnerConfig drives image assembly and container startup for cmd/runner.
type RunnerConfig struct {
	BaseImage  string `yaml:"base_image"`
	ImageTag   string `yaml:"image_tag"`
	ContextDir string `yaml:"context_dir"`
	Workdir    string `yaml:"workdir"`
	Unbuffered bool   `yaml:"unbuffered"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	cfg.ApplyDefaults()

	//Validate required fields
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	return cfg
}

// ApplyDefaults fills every unset field with its default. Split out from
// Load so tests can build configs without a config.yaml on disk.
func (cfg *Config) ApplyDefaults() {
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	if cfg.MinDelayMs == 0 {
		cfg.MinDelayMs = 1000
	}

	if cfg.MaxDelayMs == 0 {
		cfg.MaxDelayMs = 3000
	}

	if cfg.JobsDBFile == "" {
		cfg.JobsDBFile = "emprego_mz_jobs.json"
	}

	if cfg.CategoriesFile == "" {
		cfg.CategoriesFile = "categories.json"
	}

	if cfg.LocationsFile == "" {
		cfg.LocationsFile = "locations.json"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.Runner.BaseImage == "" {
		cfg.Runner.BaseImage = "golang:1.25-bookworm"
	}

	if cfg.Runner.ImageTag == "" {
		cfg.Runner.ImageTag = "emprego-scraper:latest"
	}

	if cfg.Runner.ContextDir == "" {
		cfg.Runner.ContextDir = "."
	}

	if cfg.Runner.Workdir == "" {
		cfg.Runner.Workdir = "/app"
	}
}
