package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"

	"jobscout/internal/browser"
	"jobscout/internal/config"
	"jobscout/internal/dedup"
	"jobscout/internal/filter"
	"jobscout/internal/pipeline"
	"jobscout/internal/scheduler"
	"jobscout/internal/score"
	"jobscout/internal/scraper"
	"jobscout/internal/scraper/careers"
	"jobscout/internal/scraper/remoteok"
	"jobscout/internal/scraper/remotive"
	"jobscout/internal/scraper/render"
	"jobscout/internal/scraper/weworkremotely"
	"jobscout/internal/store"
	"jobscout/internal/telegram"
)

func main() {
	daemon := flag.Bool("daemon", false, "keep running and scrape on an interval")
	flag.Parse()

	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Search terms: %v", cfg.SearchTerms)

	//init telegram bot (optional, log-only without a token)
	var notifier pipeline.Notifier
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("❌ Failed to init Telegram Bot: %v", err)
		}
		notifier = bot
		log.Println("🤖 Telegram Bot initialized.")
	} else {
		log.Println("ℹ️ No Telegram token configured, running log-only.")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Println("🚀 Starting JobScout...")

	//seen-URL cache backend
	var seen dedup.Store
	if cfg.CacheBackend == "redis" {
		redisStore, err := dedup.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		seen = redisStore
		log.Println("🗄️ Using Redis seen-URL cache.")
	} else {
		seen = dedup.NewFileStore(cfg.CachePath)
	}
	defer seen.Close()

	//browser fallback for JS-heavy career pages
	var renderer careers.Renderer
	if cfg.UseBrowserFallback {
		manager, err := browser.NewManager()
		if err != nil {
			log.Printf("⚠️ Playwright unavailable, browser fallback disabled: %v", err)
		} else {
			defer manager.Close()

			var cookies []playwright.OptionalCookie
			cookieFile := filepath.Join(cfg.CookiesPath, "cookies.json")
			if loaded, err := browser.LoadCookies(cookieFile); err != nil {
				log.Printf("⚠️ Could not load cookies: %v. Continuing.", err)
			} else {
				log.Printf("🍪 Loaded cookies (%d)", len(loaded))
				cookies = loaded
			}

			renderer = render.New(manager, cookies)
			log.Println("✅ Browser fallback initialized.")
		}
	}

	//initialize sources
	client := scraper.NewClient()
	var sources []scraper.Source
	for _, name := range cfg.Sources {
		switch name {
		case "remoteok":
			sources = append(sources, remoteok.New(cfg, client))
		case "remotive":
			sources = append(sources, remotive.New(cfg, client))
		case "weworkremotely":
			sources = append(sources, weworkremotely.New(cfg, client))
		case "careers":
			sources = append(sources, careers.New(cfg, client, renderer))
		default:
			log.Printf("⚠️ Unknown source %q in config, skipping", name)
		}
	}
	if len(sources) == 0 {
		log.Fatal("❌ No sources configured")
	}

	st := store.New(cfg.CSVOutputFile, cfg.CSVHistoryDir)
	tiers := score.LoadTierTable(cfg.CompaniesFile)
	scorer := score.NewScorer(cfg, tiers)

	p := pipeline.New(sources, filter.New(cfg), scorer, st, seen, notifier, cfg.FailuresFile)

	if *daemon {
		sched := scheduler.New(func(ctx context.Context) error {
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()
			_, err := p.Run(runCtx)
			return err
		}, cfg.ScrapeIntervalHours)

		if err := sched.Start(ctx); err != nil {
			log.Fatalf("❌ Failed to start scheduler: %v", err)
		}

		<-ctx.Done()
		sched.Stop()
		log.Println("🏁 Daemon stopped.")
		return
	}

	runCtx, runCancel := context.WithTimeout(ctx, 30*time.Minute)
	defer runCancel()

	if _, err := p.Run(runCtx); err != nil {
		if notifier != nil {
			notifier.SendError(err)
		}
		log.Fatalf("❌ Run failed: %v", err)
	}

	log.Println("🏁 Execution finished.")
}
