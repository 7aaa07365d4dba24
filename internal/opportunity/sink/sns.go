package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/logger"
	"crosslaunch-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	EventAnalysisCompleted = "opportunity.analysis.completed"

	summaryTopN = 3
)

// Publisher is the part of the SNS client the sink uses.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// AnalysisSummary is the notification body; full results stay in the database.
type AnalysisSummary struct {
	SearchID      string               `json:"searchId"`
	Query         string               `json:"query"`
	BusinessModel string               `json:"businessModel"`
	Markets       int                  `json:"markets"`
	Degraded      int                  `json:"degraded"`
	Top           []SummaryOpportunity `json:"top"`
	AnalyzedAt    string               `json:"analyzedAt"`
}

type SummaryOpportunity struct {
	CountryCode    string  `json:"countryCode"`
	Score          float64 `json:"score"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// SNSSink announces each completed analysis on an SNS topic.
type SNSSink struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

func NewSNSSink(publisher Publisher, topicARN string, log logger.Logger) *SNSSink {
	return &SNSSink{
		publisher: publisher,
		topicARN:  topicARN,
		logger:    log.WithFields(map[string]interface{}{"sink": "sns"}),
	}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Store(ctx context.Context, record models.SearchRecord) error {
	body, err := json.Marshal(Summarize(record))
	if err != nil {
		return apperrors.NewNotificationSendFailedError(s.Name(), fmt.Errorf("marshal summary: %w", err))
	}

	out, err := s.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("Opportunity analysis completed"),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(EventAnalysisCompleted)},
			"category":  {DataType: aws.String("String"), StringValue: aws.String(record.BusinessModel.Category)},
		},
	})
	if err != nil {
		return apperrors.NewNotificationSendFailedError(s.Name(), err)
	}

	s.logger.Debug("analysis published", map[string]interface{}{
		"searchId":  record.ID,
		"messageId": aws.ToString(out.MessageId),
	})
	return nil
}

// Summarize reduces a record to its notification summary. Opportunities are
// already ranked, so the top entries are the first ones.
func Summarize(record models.SearchRecord) AnalysisSummary {
	summary := AnalysisSummary{
		SearchID:      record.ID,
		Query:         record.Query,
		BusinessModel: record.BusinessModel.Name,
		Markets:       len(record.Opportunities),
		Top:           []SummaryOpportunity{},
		AnalyzedAt:    record.AnalyzedAt.UTC().Format(time.RFC3339),
	}
	for _, o := range record.Opportunities {
		if o.Status == models.OpportunityFailed {
			summary.Degraded++
			continue
		}
		if len(summary.Top) < summaryTopN {
			entry := SummaryOpportunity{CountryCode: o.CountryCode, Score: o.Score}
			if o.OpportunityScore != nil {
				entry.Recommendation = o.OpportunityScore.Recommendation
			}
			summary.Top = append(summary.Top, entry)
		}
	}
	return summary
}
