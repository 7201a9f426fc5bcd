package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobscout/internal/scraper"
)

var failureColumns = []string{"Timestamp", "Company", "URL", "Kind", "Stage", "Error"}

// WriteFailures appends career-page scrape failures to a report CSV so broken
// board configs surface without digging through logs.
func WriteFailures(path string, failures []scraper.Failure) error {
	if len(failures) == 0 {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create failures dir: %w", err)
		}
	}

	writeHeader := true
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		writeHeader = false
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if writeHeader {
		if err := writer.Write(failureColumns); err != nil {
			return err
		}
	}

	now := time.Now().Format(time.RFC3339)
	for _, failure := range failures {
		record := []string{
			now,
			sanitize(failure.Company),
			formatURL(failure.URL),
			sanitize(failure.Kind),
			sanitize(failure.Stage),
			sanitize(failure.Error),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
