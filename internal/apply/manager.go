package apply

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"jobscout/internal/models"
	"jobscout/internal/store"
)

// Applier attempts one application and reports what happened.
type Applier interface {
	Name() string
	CanHandle(jobURL string) bool
	Apply(ctx context.Context, row store.Row) models.ApplicationResult
}

type Stats struct {
	Processed   int
	Successful  int
	Failed      int
	Skipped     int
	NeedsManual int
}

// Manager walks the persisted sheet, applies to rows marked ready, and merges
// the outcomes back in.
type Manager struct {
	store     *store.Store
	appliers  []Applier
	fallback  Applier
	maxPerRun int
	threshold int
	logsDir   string
}

func NewManager(st *store.Store, appliers []Applier, fallback Applier, maxPerRun, threshold int, logsDir string) *Manager {
	return &Manager{
		store:     st,
		appliers:  appliers,
		fallback:  fallback,
		maxPerRun: maxPerRun,
		threshold: threshold,
		logsDir:   logsDir,
	}
}

// JobsToApply selects ready rows, highest score first, capped per run.
func (m *Manager) JobsToApply() ([]store.Row, error) {
	rows, err := m.store.ReadRows()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ready []store.Row
	for _, row := range rows {
		if isYes(row.Applied) {
			continue
		}
		if !isYes(row.ReadyToApply) {
			continue
		}
		if m.threshold > 0 && row.PriorityScore < m.threshold {
			continue
		}
		ready = append(ready, row)
	}

	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].PriorityScore > ready[j].PriorityScore
	})

	if m.maxPerRun > 0 && len(ready) > m.maxPerRun {
		ready = ready[:m.maxPerRun]
	}
	return ready, nil
}

// Run processes every ready row and writes statuses back to the sheet.
func (m *Manager) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	jobs, err := m.JobsToApply()
	if err != nil {
		return stats, fmt.Errorf("load ready jobs: %w", err)
	}
	if len(jobs) == 0 {
		log.Println("ℹ️ No jobs marked as ready to apply")
		return stats, nil
	}

	log.Printf("📨 Applying to %d jobs...", len(jobs))

	results := make([]models.ApplicationResult, 0, len(jobs))
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}

		log.Printf("  ➡️ %s at %s", job.Title, job.Company)
		result := m.applyOne(ctx, job)
		results = append(results, result)
		m.logAttempt(job, result)

		stats.Processed++
		switch {
		case result.Success:
			stats.Successful++
			log.Printf("  ✅ Applied via %s", result.Method)
		case result.ErrorCategory == models.ErrCategoryUnsupported:
			stats.Skipped++
			log.Printf("  ⏭️ Skipped: %s", result.Message)
		case result.Method == models.MethodManual:
			stats.NeedsManual++
			log.Printf("  ✋ Needs manual: %s", result.Message)
		default:
			stats.Failed++
			log.Printf("  ❌ Failed: %s", result.Error)
		}
	}

	if err := m.store.UpdateStatuses(results); err != nil {
		return stats, fmt.Errorf("write statuses back: %w", err)
	}

	log.Printf("📊 Applications: %d processed, %d ok, %d failed, %d skipped, %d manual",
		stats.Processed, stats.Successful, stats.Failed, stats.Skipped, stats.NeedsManual)
	return stats, nil
}

func (m *Manager) applyOne(ctx context.Context, job store.Row) models.ApplicationResult {
	var applier Applier
	for _, a := range m.appliers {
		if a.CanHandle(job.URL) {
			applier = a
			break
		}
	}
	if applier == nil {
		return models.ApplicationResult{
			URL:           job.URL,
			Method:        models.MethodManual,
			Error:         "no applier for this source",
			ErrorCategory: models.ErrCategoryUnsupported,
			Message:       fmt.Sprintf("no automated applier for source %s", job.Source),
		}
	}

	result := applier.Apply(ctx, job)

	//a missing or JavaScript form is the browser fallback's cue
	if !result.Success && result.ErrorCategory == models.ErrCategoryFormChanged && m.fallback != nil {
		log.Printf("  🌐 %s form needs a browser, retrying headless", applier.Name())
		result = m.fallback.Apply(ctx, job)
	}
	return result
}

// logAttempt appends one JSON line per attempt to the day's log file.
func (m *Manager) logAttempt(job store.Row, result models.ApplicationResult) {
	if m.logsDir == "" {
		return
	}
	if err := os.MkdirAll(m.logsDir, 0755); err != nil {
		log.Printf("⚠️ Could not create application logs dir: %v", err)
		return
	}

	entry := struct {
		Timestamp string                   `json:"timestamp"`
		Title     string                   `json:"title"`
		Company   string                   `json:"company"`
		Source    string                   `json:"source"`
		Result    models.ApplicationResult `json:"result"`
	}{
		Timestamp: time.Now().Format(time.RFC3339),
		Title:     job.Title,
		Company:   job.Company,
		Source:    job.Source,
		Result:    result,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	path := filepath.Join(m.logsDir, fmt.Sprintf("applications_%s.jsonl", time.Now().Format("20060102")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("⚠️ Could not write application log: %v", err)
		return
	}
	defer f.Close()

	f.Write(append(data, '\n'))
}

func isYes(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}
