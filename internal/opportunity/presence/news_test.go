package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commonhttp "crosslaunch-workers/internal/common/http"
	"crosslaunch-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleJSON(url, source string, publishedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"source":      map[string]interface{}{"id": nil, "name": source},
		"title":       "headline",
		"url":         url,
		"publishedAt": publishedAt.Format(time.RFC3339),
	}
}

func newNewsSource(t *testing.T, baseURL string) *NewsAPISource {
	return NewNewsAPISource(
		NewsAPIConfig{BaseURL: baseURL, APIKey: "news-key", Now: stubNow},
		commonhttp.NewClient(2*time.Second),
		logger.NewTestLogger(t),
	)
}

func TestCountrySearchTerm(t *testing.T) {
	assert.Equal(t, "Brazil OR Brasil", CountrySearchTerm("BR"))
	assert.Equal(t, "Mexico OR México", CountrySearchTerm("mx"))
	assert.Equal(t, "India", CountrySearchTerm("IN"))
	assert.Equal(t, "KE", CountrySearchTerm("KE"))
}

func TestCoverageScore(t *testing.T) {
	tests := []struct {
		name                     string
		count, recent, diversity int
		expected                 float64
	}{
		{"nothing", 0, 0, 0, 0},
		{"single article", 1, 1, 1, 1.2},
		{"count cap", 50, 0, 0, 4},
		{"recent cap", 0, 20, 0, 3},
		{"diversity cap", 0, 0, 20, 3},
		{"everything capped", 100, 100, 100, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, coverageScore(tt.count, tt.recent, tt.diversity), 1e-9)
		})
	}
}

func TestSummarizeCoverage(t *testing.T) {
	articles := []Article{
		{URL: "https://a/1", Source: "Folha", PublishedAt: fixedNow.AddDate(0, 0, -1)},
		{URL: "https://a/1", Source: "Folha", PublishedAt: fixedNow.AddDate(0, 0, -1)},
		{URL: "https://a/2", Source: "Estadão", PublishedAt: fixedNow.AddDate(0, 0, -40)},
		{URL: "https://a/3", Source: "G1", PublishedAt: fixedNow.AddDate(0, 0, -5)},
		{URL: "https://a/4", Source: "Valor", PublishedAt: fixedNow.AddDate(0, -6, 0)},
		{URL: "https://a/5", Source: "Exame", PublishedAt: fixedNow.AddDate(0, 0, -2)},
		{URL: "https://a/6", Source: "Reuters", PublishedAt: fixedNow.AddDate(0, 0, -3)},
		{URL: "https://a/7", Source: "Folha", PublishedAt: fixedNow.AddDate(0, 0, -3)},
	}

	m := summarizeCoverage(articles, fixedNow)

	assert.Equal(t, 7, m.ArticleCount)
	assert.Equal(t, 5, m.RecentMentions)
	assert.Equal(t, 6, m.SourceDiversity)
	assert.Equal(t, []string{"Folha", "Estadão", "G1", "Valor", "Exame"}, m.TopSources)
	// 0.3*7 + 0.5*5 + 0.4*6 = 7.0
	assert.InDelta(t, 7.0, m.CoverageScore, 1e-9)
}

func TestNewsAPISource_Measure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "publishedAt", q.Get("sortBy"))
		assert.Equal(t, "100", q.Get("pageSize"))
		assert.Equal(t, "news-key", q.Get("apiKey"))
		assert.True(t, strings.HasSuffix(q.Get("q"), " Nigeria"), q.Get("q"))

		kw := strings.TrimSuffix(q.Get("q"), " Nigeria")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "ok",
			"totalResults": 2,
			"articles": []map[string]interface{}{
				articleJSON("https://news/shared", "TechCabal", fixedNow.AddDate(0, 0, -1)),
				articleJSON(fmt.Sprintf("https://news/%s", kw), "Punch", fixedNow.AddDate(0, -3, 0)),
			},
		})
	}))
	defer server.Close()

	result := newNewsSource(t, server.URL).Measure(context.Background(), "NG", []string{"fintech", "payments"})

	require.False(t, result.IsDegraded())
	assert.Equal(t, 3, result.Metrics.ArticleCount)
	assert.Equal(t, 1, result.Metrics.RecentMentions)
	assert.Equal(t, 2, result.Metrics.SourceDiversity)
	assert.Equal(t, []string{"TechCabal", "Punch"}, result.Metrics.TopSources)
	// 0.3*3 + 0.5*1 + 0.4*2 = 2.2
	assert.InDelta(t, 2.2, result.Metrics.CoverageScore, 1e-9)
}

func TestNewsAPISource_Measure_Degraded(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"status":"error","code":"rateLimited"}`, ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid"}`, ErrUpstream},
		{"error payload with 200", http.StatusOK, `{"status":"error","code":"unexpectedError","message":"boom"}`, ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result := newNewsSource(t, server.URL).Measure(context.Background(), "BR", []string{"delivery"})

			require.True(t, result.IsDegraded())
			assert.ErrorIs(t, result.Err, tt.sentinel)
			assert.Equal(t, NeutralMediaCoverage(), result.Metrics)
		})
	}
}
