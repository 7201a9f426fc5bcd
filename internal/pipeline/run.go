// Orchestrates one scrape run: sources, filters, dedup, scoring, ranking,
// persistence and the Telegram report.

package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"jobscout/internal/dedup"
	"jobscout/internal/filter"
	"jobscout/internal/models"
	"jobscout/internal/score"
	"jobscout/internal/scraper"
	"jobscout/internal/store"
)

// Notifier receives the run report. Nil-safe at the call sites so a missing
// Telegram token degrades to log-only operation.
type Notifier interface {
	SendRunReport(newJobs []models.ScoredJob, scraped, filtered int) error
	SendError(err error) error
}

// failureReporter is implemented by sources that track per-page failures.
type failureReporter interface {
	Failures() []scraper.Failure
}

// SourceStats records what one source contributed to the run.
type SourceStats struct {
	Name    string
	Scraped int
	Kept    int
	Err     error
}

// Summary is the outcome of one full run.
type Summary struct {
	PerSource []SourceStats
	Scraped   int
	Filtered  int
	Dropped   int
	New       []models.ScoredJob
}

type Pipeline struct {
	sources      []scraper.Source
	filter       *filter.JobFilter
	scorer       *score.Scorer
	store        *store.Store
	seen         dedup.Store
	notifier     Notifier
	failuresFile string
}

func New(sources []scraper.Source, jf *filter.JobFilter, scorer *score.Scorer, st *store.Store, seen dedup.Store, notifier Notifier, failuresFile string) *Pipeline {
	return &Pipeline{
		sources:      sources,
		filter:       jf,
		scorer:       scorer,
		store:        st,
		seen:         seen,
		notifier:     notifier,
		failuresFile: failuresFile,
	}
}

// Run executes one scrape cycle and returns its summary. A source failing
// never aborts the run; its error lands in the per-source stats.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	var kept []models.Job
	for _, src := range p.sources {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		log.Printf("▶️ Starting source: %s", src.Name())
		stats := SourceStats{Name: src.Name()}

		jobs, err := src.Scrape(ctx)
		if err != nil {
			stats.Err = err
			summary.PerSource = append(summary.PerSource, stats)
			log.Printf("❌ Source %s failed: %v", src.Name(), err)
			continue
		}

		stats.Scraped = len(jobs)
		filtered := p.filter.FilterJobs(jobs)
		stats.Kept = len(filtered)
		summary.PerSource = append(summary.PerSource, stats)
		summary.Scraped += stats.Scraped
		summary.Filtered += stats.Kept

		log.Printf("✅ Source %s finished: %d/%d jobs kept", src.Name(), stats.Kept, stats.Scraped)
		kept = append(kept, filtered...)
	}

	newJobs, err := p.dedup(ctx, kept)
	if err != nil {
		return summary, err
	}
	summary.Dropped = len(kept) - len(newJobs)
	log.Printf("🔍 Deduplication: %d kept -> %d new", len(kept), len(newJobs))

	scored := make([]models.ScoredJob, 0, len(newJobs))
	for _, job := range newJobs {
		scored = append(scored, p.scorer.CalculateScore(job))
	}
	sortRanked(scored)
	summary.New = scored

	if len(scored) > 0 {
		if err := p.store.WriteJobs(scored, true); err != nil {
			return summary, fmt.Errorf("persist jobs: %w", err)
		}
		if path, err := p.store.WriteSnapshot(scored); err != nil {
			log.Printf("⚠️ Could not write run snapshot: %v", err)
		} else {
			log.Printf("📁 Run snapshot saved to %s", path)
		}

		urls := make([]string, 0, len(scored))
		for _, job := range scored {
			urls = append(urls, strings.TrimSpace(job.URL))
		}
		p.seen.Add(ctx, urls)
	}

	p.reportFailures()

	if p.notifier != nil {
		if err := p.notifier.SendRunReport(scored, summary.Scraped, summary.Filtered); err != nil {
			log.Printf("⚠️ Could not send run report: %v", err)
		}
	}

	log.Printf("📦 Run complete: %d scraped, %d passed filters, %d new", summary.Scraped, summary.Filtered, len(scored))
	return summary, nil
}

// dedup drops jobs already persisted, already seen by earlier runs, or
// repeated within this run. First occurrence wins.
func (p *Pipeline) dedup(ctx context.Context, jobs []models.Job) ([]models.Job, error) {
	existing, err := p.store.ExistingURLs()
	if err != nil {
		return nil, fmt.Errorf("load existing URLs: %w", err)
	}

	working := mapset.NewThreadUnsafeSet[string]()
	var fresh []models.Job
	for _, job := range jobs {
		url := strings.TrimSpace(job.URL)
		if url == "" {
			continue
		}
		if working.Contains(url) || existing[url] {
			continue
		}
		if p.seen.Contains(ctx, url) {
			continue
		}
		working.Add(url)
		job.URL = url
		fresh = append(fresh, job)
	}
	return fresh, nil
}

// sortRanked orders by score descending; ties break on recency with an
// unknown posted date ranking last.
func sortRanked(jobs []models.ScoredJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].PriorityScore != jobs[j].PriorityScore {
			return jobs[i].PriorityScore > jobs[j].PriorityScore
		}
		return daysOrWorst(jobs[i].DaysSincePosted) < daysOrWorst(jobs[j].DaysSincePosted)
	})
}

func daysOrWorst(days *int) int {
	if days == nil {
		return int(^uint(0) >> 1)
	}
	return *days
}

func (p *Pipeline) reportFailures() {
	var failures []scraper.Failure
	for _, src := range p.sources {
		if fr, ok := src.(failureReporter); ok {
			failures = append(failures, fr.Failures()...)
		}
	}
	if len(failures) == 0 {
		return
	}

	if err := store.WriteFailures(p.failuresFile, failures); err != nil {
		log.Printf("⚠️ Could not write failures report: %v", err)
		return
	}
	log.Printf("📋 Recorded %d scrape failures to %s", len(failures), p.failuresFile)
}
