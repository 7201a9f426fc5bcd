// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CareerPage is one company careers endpoint scraped by the careers source.
type CareerPage struct {
	Company string `yaml:"company"`
	URL     string `yaml:"url"`
	Kind    string `yaml:"kind"` //greenhouse | lever | html
}

type Config struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	//Search criteria
	SearchTerms      []string `yaml:"search_terms"`
	Locations        []string `yaml:"locations"`
	RequireLocation  bool     `yaml:"require_location"`
	ExperienceLevels []string `yaml:"experience_levels"`
	ExcludeKeywords  []string `yaml:"exclude_keywords"`
	Skills           []string `yaml:"skills"`

	//Sources
	Sources             []string     `yaml:"sources"`
	CareerPages         []CareerPage `yaml:"career_pages"`
	MaxResultsPerSource int          `yaml:"max_results_per_source"`
	UseBrowserFallback  bool         `yaml:"use_browser_fallback"`
	BrowserMaxPages     int          `yaml:"browser_max_pages"`

	//Paths
	CompaniesFile string `yaml:"companies_file"`
	CSVOutputFile string `yaml:"csv_output_file"`
	CSVHistoryDir string `yaml:"csv_history_dir"`
	FailuresFile  string `yaml:"failures_file"`
	CookiesPath   string `yaml:"cookies_path"`
	CachePath     string `yaml:"cache_path"`

	//Auto-apply
	AutoApplyEnabled       bool   `yaml:"auto_apply_enabled"`
	ProfileFile            string `yaml:"profile_file"`
	MaxApplicationsPerRun  int    `yaml:"max_applications_per_run"`
	ApplyPriorityThreshold int    `yaml:"apply_priority_threshold"`

	//Dedup cache backend: "file" (default) or "redis"
	CacheBackend string `yaml:"cache_backend"`
	RedisURL     string `yaml:"redis_url"`

	//Daemon mode
	ScrapeIntervalHours int `yaml:"scrape_interval_hours"`
}

func Load() *Config {
	return LoadFile("configs/config.yaml")
}

func LoadFile(path string) *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
	}

	//Override with env vars
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

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.RedisURL = redisURL
	}

	//Set default values if not set
	if len(cfg.SearchTerms) == 0 {
		cfg.SearchTerms = []string{
			"software engineer",
			"sde",
			"software developer",
			"backend engineer",
			"full stack engineer",
			"frontend engineer",
			"fullstack engineer",
			"software development engineer",
		}
	}

	if len(cfg.ExperienceLevels) == 0 {
		cfg.ExperienceLevels = []string{"fresher", "0 years", "0-1 years", "1+ years", "1-2 years", "1-3 years"}
	}

	if len(cfg.ExcludeKeywords) == 0 {
		cfg.ExcludeKeywords = []string{"intern", "internship"}
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"remoteok", "remotive", "weworkremotely", "careers"}
	}

	if cfg.MaxResultsPerSource == 0 {
		cfg.MaxResultsPerSource = 200
	}

	if cfg.BrowserMaxPages == 0 {
		cfg.BrowserMaxPages = 10
	}

	if cfg.CompaniesFile == "" {
		cfg.CompaniesFile = "data/companies.json"
	}

	if cfg.CSVOutputFile == "" {
		cfg.CSVOutputFile = "data/jobs.csv"
	}

	if cfg.CSVHistoryDir == "" {
		cfg.CSVHistoryDir = "data/job_runs"
	}

	if cfg.FailuresFile == "" {
		cfg.FailuresFile = "data/failures.csv"
	}

	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	if cfg.ProfileFile == "" {
		cfg.ProfileFile = "data/user_profile.json"
	}

	if cfg.MaxApplicationsPerRun == 0 {
		cfg.MaxApplicationsPerRun = 10
	}

	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "file"
	}

	if cfg.ScrapeIntervalHours == 0 {
		cfg.ScrapeIntervalHours = 6
	}

	//Validate
	if cfg.CacheBackend != "file" && cfg.CacheBackend != "redis" {
		log.Fatalf("Invalid cache_backend %q (want file or redis)", cfg.CacheBackend)
	}

	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		log.Fatal("REDIS_URL is required when cache_backend is redis")
	}

	//The skills list sometimes carries near-duplicate entries. Keep them
	//as-is (the denominator shifts identically for every job) but flag them
	//so the owner can clean the config.
	if dupes := duplicateSkills(cfg.Skills); len(dupes) > 0 {
		log.Printf("⚠️ Skills list contains %d duplicate entries: %v", len(dupes), dupes)
	}

	return cfg
}

func duplicateSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	var dupes []string
	for _, s := range skills {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if seen[key] {
			dupes = append(dupes, s)
			continue
		}
		seen[key] = true
	}
	return dupes
}
