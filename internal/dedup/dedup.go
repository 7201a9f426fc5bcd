package dedup

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

//Seen URLs older than this are dropped on load so the cache cannot grow
//without bound.
const seenTTL = 30 * 24 * time.Hour

// Store tracks which job URLs previous runs already surfaced.
type Store interface {
	Contains(ctx context.Context, url string) bool
	Add(ctx context.Context, urls []string)
	Close() error
}

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// FileStore persists the seen-URL set as a JSON file, the default backend.
type FileStore struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

// NewFileStore creates or loads the seen-URL cache under cacheDir.
func NewFileStore(cacheDir string) *FileStore {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	store := &FileStore{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	store.load()
	return store
}

func (s *FileStore) Contains(_ context.Context, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.seen[url]
	return exists
}

func (s *FileStore) Add(_ context.Context, urls []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := s.seen[url]; !exists {
			s.seen[url] = now
			changed = true
		}
	}

	if changed {
		s.save()
	}
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().Add(-seenTTL).UnixMilli()
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			s.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

//save is called with the mutex held.
func (s *FileStore) save() {
	entries := make([]seenEntry, 0, len(s.seen))
	for url, ts := range s.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
