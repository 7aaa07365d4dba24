// Package markets provides the market-data sources an analysis reads from.
package markets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"github.com/lib/pq"
)

const queryName = "select markets"

const selectMarkets = `
	SELECT country_code, country_name, population, internet_penetration,
	       gdp_per_capita, languages, primary_search_engine, app_stores
	FROM markets
	WHERE country_code = ANY($1)
	ORDER BY array_position($1, country_code)`

// PostgresSource reads market profiles from the markets table.
type PostgresSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, log logger.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"marketSource": "postgres"}),
	}
}

func (s *PostgresSource) Markets(ctx context.Context, countryCodes []string) ([]models.Market, error) {
	rows, err := s.db.QueryContext(ctx, selectMarkets, pq.Array(countryCodes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewQueryTimeoutError(queryName)
		}
		return nil, apperrors.NewQueryExecutionFailedError(queryName, err)
	}
	defer rows.Close()

	var out []models.Market
	for rows.Next() {
		var (
			m            models.Market
			population   sql.NullInt64
			penetration  sql.NullFloat64
			gdp          sql.NullFloat64
			searchEngine sql.NullString
			languages    pq.StringArray
			appStores    pq.StringArray
		)
		if err := rows.Scan(
			&m.CountryCode, &m.CountryName,
			&population, &penetration, &gdp,
			&languages, &searchEngine, &appStores,
		); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}

		// missing figures count as zero, which scores as the lowest bracket
		m.Population = population.Int64
		m.InternetPenetration = penetration.Float64
		m.GDPPerCapita = gdp.Float64
		m.PrimarySearchEngine = searchEngine.String
		m.Languages = []string(languages)
		m.AppStores = []string(appStores)
		if m.Languages == nil {
			m.Languages = []string{}
		}
		if m.AppStores == nil {
			m.AppStores = []string{}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markets: %w", err)
	}

	s.logger.Debug("markets loaded", map[string]interface{}{
		"requested": len(countryCodes),
		"found":     len(out),
	})
	return out, nil
}
