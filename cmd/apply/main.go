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

	"jobscout/internal/apply"
	"jobscout/internal/browser"
	"jobscout/internal/config"
	"jobscout/internal/store"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "list the jobs that would be applied to, without applying")
	flag.Parse()

	cfg := config.Load()

	if !cfg.AutoApplyEnabled && !*dryRun {
		log.Fatal("❌ Auto-apply is disabled. Set auto_apply_enabled: true in configs/config.yaml")
	}

	profile, err := apply.LoadProfile(cfg.ProfileFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("👤 Profile loaded for %s", profile.FullName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st := store.New(cfg.CSVOutputFile, cfg.CSVHistoryDir)

	//browser fallback for JavaScript forms
	var fallback apply.Applier
	if cfg.UseBrowserFallback {
		manager, err := browser.NewManager()
		if err != nil {
			log.Printf("⚠️ Playwright unavailable, browser fallback disabled: %v", err)
		} else {
			defer manager.Close()

			var cookies []playwright.OptionalCookie
			if loaded, err := browser.LoadCookies(filepath.Join(cfg.CookiesPath, "cookies.json")); err == nil {
				cookies = loaded
			}
			fallback = apply.NewBrowserApplier(manager, cookies, profile)
		}
	}

	manager := apply.NewManager(
		st,
		[]apply.Applier{apply.NewRemoteBoardApplier(profile)},
		fallback,
		cfg.MaxApplicationsPerRun,
		cfg.ApplyPriorityThreshold,
		"data/application_logs",
	)

	if *dryRun {
		jobs, err := manager.JobsToApply()
		if err != nil {
			log.Fatalf("❌ Failed to load jobs: %v", err)
		}
		log.Printf("📋 %d jobs ready to apply:", len(jobs))
		for _, job := range jobs {
			log.Printf("  [%d] %s at %s (%s)", job.PriorityScore, job.Title, job.Company, job.URL)
		}
		return
	}

	runCtx, runCancel := context.WithTimeout(ctx, 30*time.Minute)
	defer runCancel()

	if _, err := manager.Run(runCtx); err != nil {
		log.Fatalf("❌ Apply run failed: %v", err)
	}

	log.Println("🏁 Execution finished.")
}
