package presence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"golang.org/x/sync/errgroup"
)

const DefaultArticleIndex = "news-articles"

type ElasticsearchNewsConfig struct {
	Index string
	Size  int
	Now   func() time.Time
}

// ElasticsearchNewsSource measures media coverage from a locally indexed
// article corpus instead of a hosted news API. Documents are expected to carry
// url, source_name, published_at and searchable title/description/content.
type ElasticsearchNewsSource struct {
	es     *elasticsearch.Client
	index  string
	size   int
	now    func() time.Time
	logger logger.Logger
}

type articleHit struct {
	URL         string    `json:"url"`
	SourceName  string    `json:"source_name"`
	PublishedAt time.Time `json:"published_at"`
}

type articleSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source articleHit `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func NewElasticsearchNewsSource(cfg ElasticsearchNewsConfig, es *elasticsearch.Client, log logger.Logger) *ElasticsearchNewsSource {
	index := cfg.Index
	if index == "" {
		index = DefaultArticleIndex
	}
	size := cfg.Size
	if size <= 0 {
		size = 100
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &ElasticsearchNewsSource{
		es:     es,
		index:  index,
		size:   size,
		now:    now,
		logger: log.WithFields(map[string]interface{}{"source": NewsSourceName, "backend": "elasticsearch"}),
	}
}

func (s *ElasticsearchNewsSource) Name() string { return NewsSourceName }

func (s *ElasticsearchNewsSource) Measure(ctx context.Context, country string, keywords []string) Result[models.MediaCoverage] {
	term := CountrySearchTerm(country)
	pages := make([][]Article, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			articles, err := s.search(gctx, kw, term)
			if err != nil {
				return err
			}
			pages[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("media coverage degraded", map[string]interface{}{
			"country": country,
			"index":   s.index,
			"error":   err.Error(),
		})
		return Degraded(NeutralMediaCoverage(), err)
	}

	var all []Article
	for _, p := range pages {
		all = append(all, p...)
	}
	return Measured(summarizeCoverage(all, s.now()))
}

func (s *ElasticsearchNewsSource) search(ctx context.Context, keyword, countryTerm string) ([]Article, error) {
	body, err := json.Marshal(articleQuery(keyword, countryTerm, s.size))
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, fmt.Errorf("%w: article search: %w", ErrUpstream, apperrors.NewElasticsearchConnectionFailedError(err))
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 429 {
			return nil, fmt.Errorf("%w: article search", ErrRateLimited)
		}
		return nil, fmt.Errorf("%w: article search: %s", ErrUpstream, res.Status())
	}

	var parsed articleSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode article search: %v", ErrUpstream, err)
	}

	articles := make([]Article, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		articles = append(articles, Article{
			URL:         h.Source.URL,
			Source:      h.Source.SourceName,
			PublishedAt: h.Source.PublishedAt,
		})
	}
	return articles, nil
}

// articleQuery matches the keyword as a phrase and the country term with its
// own OR alternatives, newest first.
func articleQuery(keyword, countryTerm string, size int) map[string]interface{} {
	phrase := `"` + strings.ReplaceAll(keyword, `"`, `\"`) + `"`
	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("%s AND (%s)", phrase, countryTerm),
				"fields": []string{"title^2", "description", "content"},
			},
		},
		"sort":    []interface{}{map[string]interface{}{"published_at": map[string]string{"order": "desc"}}},
		"_source": []string{"url", "source_name", "published_at"},
	}
}
