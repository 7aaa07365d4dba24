// Package pipeline runs an opportunity analysis end to end: classify once, fan
// out one presence measurement and score per market, then rank the results.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/common/metrics"
	"crosslaunch-workers/internal/models"
	"crosslaunch-workers/internal/opportunity/businessmodel"
	"crosslaunch-workers/internal/opportunity/scoring"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const (
	// FailedInsight is the only insight carried by a degraded market entry.
	FailedInsight = "Analysis failed - please try again"

	quickInsightLimit = 3
)

var tracer = otel.Tracer("crosslaunch-workers/pipeline")

// PresenceMeasurer measures presence signals for one market. An error means
// the market could not be measured at all.
type PresenceMeasurer interface {
	Measure(ctx context.Context, keywords []string, country string) (*models.PresenceSignals, error)
}

type Config struct {
	// MaxConcurrentMarkets bounds the fan-out; <= 0 means unbounded.
	MaxConcurrentMarkets int
	// MarketTimeout bounds one market's analysis; <= 0 means no extra deadline.
	MarketTimeout time.Duration
}

type Pipeline struct {
	presence PresenceMeasurer
	config   Config
	logger   logger.Logger
	now      func() time.Time
}

func New(presence PresenceMeasurer, cfg Config, log logger.Logger) *Pipeline {
	return &Pipeline{
		presence: presence,
		config:   cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "pipeline"}),
		now:      time.Now,
	}
}

// Run never fails as a whole. A market whose analysis errors or panics is
// replaced by a degraded entry, so len(Opportunities) == len(markets).
func (p *Pipeline) Run(ctx context.Context, input models.BusinessModelInput, markets []models.Market) *models.AnalysisResult {
	ctx, span := tracer.Start(ctx, "pipeline.run")
	span.SetAttributes(attribute.Int("markets", len(markets)))
	defer span.End()

	bm := businessmodel.Identify(input)
	keywords := businessmodel.KeywordsFor(bm)

	p.logger.Info("business model classified", map[string]interface{}{
		"businessModel": bm.Name,
		"category":      bm.Category,
		"keywords":      keywords,
	})

	opportunities := make([]models.Opportunity, len(markets))

	var g errgroup.Group
	if p.config.MaxConcurrentMarkets > 0 {
		g.SetLimit(p.config.MaxConcurrentMarkets)
	}
	for i, market := range markets {
		i, market := i, market
		g.Go(func() error {
			opp, err := p.analyzeMarket(ctx, bm, keywords, market)
			if err != nil {
				p.logger.Warn("market analysis degraded", map[string]interface{}{
					"countryCode": market.CountryCode,
					"error":       err.Error(),
				})
				metrics.MarketAnalyses.WithLabelValues(string(models.OpportunityFailed)).Inc()
				opp = DegradedOpportunity(market)
			} else {
				metrics.MarketAnalyses.WithLabelValues(string(models.OpportunityAnalyzed)).Inc()
				metrics.OpportunityScores.Observe(opp.Score)
			}
			opportunities[i] = opp
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Score > opportunities[j].Score
	})

	return &models.AnalysisResult{
		BusinessModel:     bm,
		Opportunities:     opportunities,
		AnalysisTimestamp: p.now().UTC(),
	}
}

func (p *Pipeline) analyzeMarket(ctx context.Context, bm models.BusinessModel, keywords []string, market models.Market) (opp models.Opportunity, err error) {
	ctx, span := tracer.Start(ctx, "pipeline.market")
	span.SetAttributes(attribute.String("country", market.CountryCode))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("market %s panicked: %v", market.CountryCode, r)
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if p.config.MarketTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.MarketTimeout)
		defer cancel()
	}

	signals, err := p.presence.Measure(ctx, keywords, market.CountryCode)
	if err != nil {
		return models.Opportunity{}, err
	}
	if signals == nil {
		return models.Opportunity{}, fmt.Errorf("market %s: no presence signals", market.CountryCode)
	}

	score := scoring.Score(*signals, market, bm)
	span.SetAttributes(attribute.Float64("score", score.Overall))

	return NewOpportunity(market, signals, score), nil
}

// NewOpportunity packages a scored market as a result row.
func NewOpportunity(market models.Market, signals *models.PresenceSignals, score models.OpportunityScore) models.Opportunity {
	insights := score.Reasoning
	if len(insights) > quickInsightLimit {
		insights = insights[:quickInsightLimit]
	}
	return models.Opportunity{
		Country:          market.CountryName,
		CountryCode:      market.CountryCode,
		Score:            score.Overall,
		CompetitionLevel: score.CompetitionLevel,
		MarketSize:       market.Population,
		PresenceSignals:  signals,
		OpportunityScore: &score,
		QuickInsights:    append([]string{}, insights...),
		Status:           models.OpportunityAnalyzed,
	}
}

// DegradedOpportunity is the row substituted for a market that could not be analyzed.
func DegradedOpportunity(market models.Market) models.Opportunity {
	return models.Opportunity{
		Country:          market.CountryName,
		CountryCode:      market.CountryCode,
		Score:            0,
		CompetitionLevel: models.PresenceHigh,
		MarketSize:       market.Population,
		QuickInsights:    []string{FailedInsight},
		Status:           models.OpportunityFailed,
	}
}
