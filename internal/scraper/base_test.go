package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRetriesTransientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	body, err := NewClient().Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient().Get(context.Background(), server.URL, nil)
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientSetsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	_, err := NewClient().Get(context.Background(), server.URL, map[string]string{"Accept": "application/json"})
	require.NoError(t, err)
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		keywords []string
		want     bool
	}{
		{"case insensitive", "Senior SOFTWARE Engineer", []string{"software engineer"}, true},
		{"no match", "Head Chef", []string{"software engineer"}, false},
		{"empty keywords match all", "anything", nil, true},
		{"blank keyword skipped", "Head Chef", []string{"", "chef"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesAny(tt.haystack, tt.keywords))
		})
	}
}
