package presence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	commonhttp "crosslaunch-workers/internal/common/http"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	GitHubSourceName     = "github"
	DefaultGitHubBaseURL = "https://api.github.com"
)

type GitHubConfig struct {
	BaseURL string
	Token   string
	// Now is overridable for tests.
	Now func() time.Time
}

// GitHubSource measures developer activity from GitHub repository search.
type GitHubSource struct {
	client  *commonhttp.Client
	baseURL string
	token   string
	now     func() time.Time
	logger  logger.Logger
}

type githubSearchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []githubRepo `json:"items"`
}

type githubRepo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	Stars     int       `json:"stargazers_count"`
	Language  *string   `json:"language"`
}

func NewGitHubSource(cfg GitHubConfig, client *commonhttp.Client, log logger.Logger) *GitHubSource {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGitHubBaseURL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &GitHubSource{
		client:  client,
		baseURL: baseURL,
		token:   cfg.Token,
		now:     now,
		logger:  log.WithFields(map[string]interface{}{"source": GitHubSourceName}),
	}
}

func (s *GitHubSource) Name() string { return GitHubSourceName }

func (s *GitHubSource) Measure(ctx context.Context, country string, keywords []string) Result[models.DeveloperActivity] {
	repos, err := s.searchAll(ctx, country, keywords)
	if err != nil {
		s.logger.Warn("developer activity degraded", map[string]interface{}{
			"country": country,
			"error":   err.Error(),
		})
		return Degraded(NeutralDeveloperActivity(), err)
	}
	return Measured(summarizeRepos(repos, s.now()))
}

// searchAll runs one query per keyword concurrently. Any failed query fails the
// whole measurement, since partial counts would understate activity.
func (s *GitHubSource) searchAll(ctx context.Context, country string, keywords []string) ([]githubRepo, error) {
	pages := make([][]githubRepo, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			query := fmt.Sprintf("location:%s %s in:name,description", country, kw)
			resp, err := s.searchRepositories(gctx, query)
			if err != nil {
				return err
			}
			pages[i] = resp.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var unique []githubRepo
	for _, page := range pages {
		for _, repo := range page {
			if seen[repo.ID] {
				continue
			}
			seen[repo.ID] = true
			unique = append(unique, repo)
		}
	}
	return unique, nil
}

func (s *GitHubSource) searchRepositories(ctx context.Context, query string) (*githubSearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "updated")
	params.Set("per_page", "100")

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if s.token != "" {
		headers["Authorization"] = "token " + s.token
	}

	var resp githubSearchResponse
	err := s.client.GetJSON(ctx, s.baseURL+"/search/repositories?"+params.Encode(), headers, &resp)
	if err != nil {
		var statusErr *commonhttp.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: github search", ErrRateLimited)
		}
		return nil, fmt.Errorf("%w: github search: %v", ErrUpstream, err)
	}
	return &resp, nil
}

func summarizeRepos(repos []githubRepo, now time.Time) models.DeveloperActivity {
	cutoff := now.AddDate(-1, 0, 0)

	var stars, recent int
	languages := []string{}
	seenLang := make(map[string]bool)
	for _, r := range repos {
		stars += r.Stars
		if r.CreatedAt.After(cutoff) {
			recent++
		}
		if r.Language != nil && *r.Language != "" && !seenLang[*r.Language] {
			seenLang[*r.Language] = true
			languages = append(languages, *r.Language)
		}
	}

	return models.DeveloperActivity{
		RepoCount:     len(repos),
		TotalStars:    stars,
		RecentRepos:   recent,
		Languages:     languages,
		ActivityScore: activityScore(len(repos), recent, stars),
	}
}

func activityScore(count, recent, stars int) float64 {
	score := 0.5*minf(count, 6) + 0.8*minf(recent, 5) + 0.01*minf(stars, 200)
	if recent > 0 {
		score++
	}
	return round1(clamp(score, 0, 10))
}
