package presence

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	commonhttp "crosslaunch-workers/internal/common/http"
	"crosslaunch-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func stubNow() time.Time { return fixedNow }

func repoJSON(id int64, createdAt time.Time, stars int, language string) map[string]interface{} {
	var lang interface{}
	if language != "" {
		lang = language
	}
	return map[string]interface{}{
		"id":               id,
		"name":             "repo",
		"full_name":        "owner/repo",
		"created_at":       createdAt.Format(time.RFC3339),
		"stargazers_count": stars,
		"language":         lang,
		"owner":            map[string]interface{}{"login": "owner", "location": "Brazil"},
	}
}

func newGitHubSource(t *testing.T, baseURL, token string) *GitHubSource {
	return NewGitHubSource(
		GitHubConfig{BaseURL: baseURL, Token: token, Now: stubNow},
		commonhttp.NewClient(2*time.Second),
		logger.NewTestLogger(t),
	)
}

// ==========================
// Score
// ==========================

func TestActivityScore(t *testing.T) {
	tests := []struct {
		name                 string
		count, recent, stars int
		expected             float64
	}{
		{"nothing", 0, 0, 0, 0},
		{"only old repos", 4, 0, 50, 2.5},
		{"recent bonus", 1, 1, 0, 2.3},
		{"all terms capped", 100, 50, 10000, 10},
		{"star cap", 0, 0, 5000, 2},
		{"rounded to one decimal", 3, 2, 37, 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, activityScore(tt.count, tt.recent, tt.stars), 1e-9)
		})
	}
}

// ==========================
// Measure
// ==========================

func TestGitHubSource_Measure_DeduplicatesAcrossKeywords(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		q := r.URL.Query().Get("q")
		assert.True(t, strings.HasPrefix(q, "location:BR "))
		assert.True(t, strings.HasSuffix(q, " in:name,description"))

		var items []map[string]interface{}
		if strings.Contains(q, "food delivery") {
			items = []map[string]interface{}{
				repoJSON(1, fixedNow.AddDate(0, -2, 0), 10, "Go"),
				repoJSON(2, fixedNow.AddDate(-3, 0, 0), 7, "TypeScript"),
			}
		} else {
			items = []map[string]interface{}{
				repoJSON(2, fixedNow.AddDate(-3, 0, 0), 7, "TypeScript"),
				repoJSON(3, fixedNow.AddDate(0, 0, -10), 0, ""),
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"total_count": len(items), "items": items})
	}))
	defer server.Close()

	source := newGitHubSource(t, server.URL, "secret")
	result := source.Measure(context.Background(), "BR", []string{"food delivery", "marketplace"})

	require.False(t, result.IsDegraded())
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))

	m := result.Metrics
	assert.Equal(t, 3, m.RepoCount)
	assert.Equal(t, 17, m.TotalStars)
	assert.Equal(t, 2, m.RecentRepos)
	assert.Equal(t, []string{"Go", "TypeScript"}, m.Languages)
	// 0.5*3 + 0.8*2 + 0.01*17 + 1 = 4.27
	assert.InDelta(t, 4.3, m.ActivityScore, 1e-9)
}

func TestGitHubSource_Measure_NoTokenNoAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"total_count":0,"items":[]}`))
	}))
	defer server.Close()

	result := newGitHubSource(t, server.URL, "").Measure(context.Background(), "IN", []string{"edtech"})
	require.False(t, result.IsDegraded())
	assert.Equal(t, 0, result.Metrics.RepoCount)
	assert.Equal(t, []string{}, result.Metrics.Languages)
}

func TestGitHubSource_Measure_Degraded(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"rate limited", http.StatusForbidden, `{"message":"API rate limit exceeded"}`, ErrRateLimited},
		{"server error", http.StatusBadGateway, `bad gateway`, ErrUpstream},
		{"malformed body", http.StatusOK, `{"items": [`, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result := newGitHubSource(t, server.URL, "").Measure(context.Background(), "NG", []string{"fintech"})

			require.True(t, result.IsDegraded())
			assert.True(t, errors.Is(result.Err, tt.sentinel))
			assert.Equal(t, NeutralDeveloperActivity(), result.Metrics)
		})
	}
}

func TestGitHubSource_Measure_OneFailedKeywordDegradesAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "broken") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{repoJSON(9, fixedNow, 1, "Go")},
		})
	}))
	defer server.Close()

	result := newGitHubSource(t, server.URL, "").Measure(context.Background(), "MX", []string{"ok", "broken"})
	assert.True(t, result.IsDegraded())
	assert.Equal(t, 0, result.Metrics.RepoCount)
}

func TestGitHubSource_Measure_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result := newGitHubSource(t, url, "").Measure(context.Background(), "ID", []string{"ecommerce"})
	assert.True(t, result.IsDegraded())
	assert.ErrorIs(t, result.Err, ErrUpstream)
}
