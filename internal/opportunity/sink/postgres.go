// Package sink stores completed analyses. Every sink failure is reported to
// the caller, which decides to log it and move on.
package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"
)

const insertSearch = `
	INSERT INTO user_searches (id, search_query, startup_url, results, created_at)
	VALUES ($1, $2, $3, $4, $5)`

// storedResults is the JSON document kept in user_searches.results.
type storedResults struct {
	Opportunities []models.Opportunity `json:"opportunities"`
	BusinessModel models.BusinessModel `json:"businessModel"`
}

type PostgresSink struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSink(db *sql.DB, log logger.Logger) *PostgresSink {
	return &PostgresSink{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"sink": "postgres"}),
	}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Store(ctx context.Context, record models.SearchRecord) error {
	results, err := json.Marshal(storedResults{
		Opportunities: record.Opportunities,
		BusinessModel: record.BusinessModel,
	})
	if err != nil {
		return apperrors.NewResultPersistenceFailedError(s.Name(), fmt.Errorf("marshal results: %w", err))
	}

	startupURL := sql.NullString{String: record.StartupURL, Valid: record.StartupURL != ""}

	if _, err := s.db.ExecContext(ctx, insertSearch,
		record.ID, record.Query, startupURL, results, record.AnalyzedAt,
	); err != nil {
		return apperrors.NewResultPersistenceFailedError(s.Name(), err)
	}

	s.logger.Debug("search stored", map[string]interface{}{"searchId": record.ID})
	return nil
}
