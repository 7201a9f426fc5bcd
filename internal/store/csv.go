// CSV persistence for ranked jobs.
// The sheet is the interface to the human: clickable URLs, a Ready to Apply
// column consumed by the auto-apply pass, and status columns written back
// after each attempt.

package store

import (
	"encoding/csv"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jobscout/internal/models"
)

const maxDescriptionLength = 500
const maxURLLength = 2048

var columns = []string{
	"Job Title",
	"Company",
	"Location",
	"Experience Required",
	"Job URL",
	"Posted Date",
	"Source",
	"Description",
	"Priority Score",
	"Days Since Posted",
	"Freshness",
	"Salary",
	"Deadline",
	"Days Until Deadline",
	"Skills Match %",
	"Ready to Apply",
	"Applied",
	"Applied Date",
	"Application Method",
	"Application Error",
	"Status",
	"Notes",
}

// Row is one persisted job with its application-tracking fields.
type Row struct {
	models.ScoredJob

	ReadyToApply      string
	Applied           string
	AppliedDate       string
	ApplicationMethod string
	ApplicationError  string
	Status            string
	Notes             string
}

type Store struct {
	outputFile string
	historyDir string
}

func New(outputFile, historyDir string) *Store {
	return &Store{outputFile: outputFile, historyDir: historyDir}
}

// OutputFile is the path of the aggregate CSV.
func (s *Store) OutputFile() string { return s.outputFile }

// ExistingURLs returns the set of job URLs already persisted, used for
// cross-run deduplication. A missing file yields an empty set.
func (s *Store) ExistingURLs() (map[string]bool, error) {
	urls := make(map[string]bool)

	rows, err := s.ReadRows()
	if err != nil {
		if os.IsNotExist(err) {
			return urls, nil
		}
		return urls, err
	}

	for _, row := range rows {
		if u := strings.TrimSpace(row.URL); u != "" {
			urls[u] = true
		}
	}
	return urls, nil
}

// WriteJobs persists scored jobs. With appendMode the rows are added to the
// existing sheet, otherwise the sheet is rewritten with a fresh header.
func (s *Store) WriteJobs(jobs []models.ScoredJob, appendMode bool) error {
	rows := make([]Row, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, Row{
			ScoredJob: job,
			//new jobs are marked ready so the apply pass picks them up
			ReadyToApply: "Yes",
			Applied:      "No",
			Status:       models.StatusNotApplied,
		})
	}
	return s.writeRows(s.outputFile, rows, appendMode)
}

// WriteSnapshot writes a timestamped per-run copy into the history dir and
// returns its path.
func (s *Store) WriteSnapshot(jobs []models.ScoredJob) (string, error) {
	if err := os.MkdirAll(s.historyDir, 0755); err != nil {
		return "", fmt.Errorf("create history dir: %w", err)
	}

	path := filepath.Join(s.historyDir, fmt.Sprintf("jobs_%s.csv", time.Now().Format("20060102_150405")))

	rows := make([]Row, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, Row{ScoredJob: job, ReadyToApply: "Yes", Applied: "No", Status: models.StatusNotApplied})
	}
	if err := s.writeRows(path, rows, false); err != nil {
		return "", err
	}
	return path, nil
}

// ReadRows loads the whole sheet back, tolerating rows written by older
// versions with missing columns.
func (s *Store) ReadRows() ([]Row, error) {
	f, err := os.Open(s.outputFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.outputFile, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	//map header names to positions so column reordering cannot corrupt rows
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimPrefix(record[i], "'")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{
			ScoredJob: models.ScoredJob{
				Job: models.Job{
					Title:       field(record, "Job Title"),
					Company:     field(record, "Company"),
					Location:    field(record, "Location"),
					Experience:  field(record, "Experience Required"),
					URL:         field(record, "Job URL"),
					PostedDate:  field(record, "Posted Date"),
					Source:      field(record, "Source"),
					Description: field(record, "Description"),
				},
				Freshness: field(record, "Freshness"),
				Salary:    field(record, "Salary"),
				Deadline:  field(record, "Deadline"),
			},
			ReadyToApply:      field(record, "Ready to Apply"),
			Applied:           field(record, "Applied"),
			AppliedDate:       field(record, "Applied Date"),
			ApplicationMethod: field(record, "Application Method"),
			ApplicationError:  field(record, "Application Error"),
			Status:            field(record, "Status"),
			Notes:             field(record, "Notes"),
		}

		if v, err := strconv.Atoi(field(record, "Priority Score")); err == nil {
			row.PriorityScore = v
		}
		if v, err := strconv.Atoi(field(record, "Days Since Posted")); err == nil {
			row.DaysSincePosted = &v
		}
		if v, err := strconv.Atoi(field(record, "Days Until Deadline")); err == nil {
			row.DaysUntilDeadline = &v
		}
		if v, err := strconv.ParseFloat(field(record, "Skills Match %"), 64); err == nil {
			row.SkillsMatchPct = v
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// UpdateStatuses merges application results into the sheet, keyed by URL.
// Rows without a matching result are left untouched.
func (s *Store) UpdateStatuses(results []models.ApplicationResult) error {
	rows, err := s.ReadRows()
	if err != nil {
		return err
	}

	byURL := make(map[string]models.ApplicationResult, len(results))
	for _, res := range results {
		byURL[strings.TrimSpace(res.URL)] = res
	}

	updated := 0
	for i := range rows {
		res, ok := byURL[strings.TrimSpace(rows[i].URL)]
		if !ok {
			continue
		}

		rows[i].ApplicationMethod = string(res.Method)
		rows[i].ApplicationError = res.Error
		if res.Success {
			rows[i].Applied = "Yes"
			rows[i].AppliedDate = time.Now().Format("2006-01-02")
			rows[i].Status = models.StatusApplied
		} else if res.Method == models.MethodManual {
			rows[i].Status = models.StatusNeedsManual
		} else {
			rows[i].Status = models.StatusFailed
		}
		if res.Message != "" {
			rows[i].Notes = res.Message
		}
		updated++
	}

	if updated == 0 {
		return nil
	}
	return s.writeRows(s.outputFile, rows, false)
}

func (s *Store) writeRows(path string, rows []Row, appendMode bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	writeHeader := true
	if appendMode {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			writeHeader = false
		}
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if writeHeader {
		if err := writer.Write(columns); err != nil {
			return err
		}
	}

	for _, row := range rows {
		record := []string{
			sanitize(row.Title),
			sanitize(row.Company),
			sanitize(row.Location),
			sanitize(row.Experience),
			formatURL(row.URL),
			sanitize(row.PostedDate),
			sanitize(row.Source),
			truncate(row.Description),
			strconv.Itoa(row.PriorityScore),
			formatIntPtr(row.DaysSincePosted),
			sanitize(row.Freshness),
			sanitize(row.Salary),
			sanitize(row.Deadline),
			formatIntPtr(row.DaysUntilDeadline),
			formatPct(row.SkillsMatchPct),
			sanitize(row.ReadyToApply),
			sanitize(row.Applied),
			sanitize(row.AppliedDate),
			sanitize(row.ApplicationMethod),
			sanitize(row.ApplicationError),
			sanitize(row.Status),
			sanitize(row.Notes),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

//sanitize blunts CSV injection: Excel and Sheets treat leading =, +, -, @
//as formula starters.
func sanitize(value string) string {
	if value == "" {
		return ""
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}

func truncate(description string) string {
	if len(description) > maxDescriptionLength {
		return description[:maxDescriptionLength] + "..."
	}
	return description
}

//formatURL keeps only syntactically valid absolute http(s) URLs clickable;
//anything else is sanitized like a plain value.
func formatURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxURLLength {
		return ""
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return raw
	}
	return sanitize(raw)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
