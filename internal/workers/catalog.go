// Package workers lists the job workers this service runs, for the activity
// registry published to process modelers.
package workers

import (
	"encoding/json"
	"fmt"

	"crosslaunch-workers/internal/common/config"
	"crosslaunch-workers/internal/common/errors"
	"crosslaunch-workers/internal/common/validation"
	"crosslaunch-workers/pkg/registry"

	qm "crosslaunch-workers/internal/workers/data-access/query-markets"
	amo "crosslaunch-workers/internal/workers/opportunity/analyze-market-opportunity"
	cbm "crosslaunch-workers/internal/workers/opportunity/classify-business-model"
	mmp "crosslaunch-workers/internal/workers/opportunity/measure-market-presence"
	smo "crosslaunch-workers/internal/workers/opportunity/score-market-opportunity"
)

type entry struct {
	taskType    string
	displayName string
	description string
	category    string
	schema      string
	errorCodes  []errors.ErrorCode
}

var entries = []entry{
	{
		taskType:    cbm.TaskType,
		displayName: "Classify Business Model",
		description: "Resolves a startup name, URL or description to a business-model profile and its search keywords.",
		category:    "opportunity",
		schema:      cbm.GetInputSchema(),
		errorCodes:  []errors.ErrorCode{errors.ErrCodeInputValidationFailed},
	},
	{
		taskType:    mmp.TaskType,
		displayName: "Measure Market Presence",
		description: "Measures developer activity, media coverage and search interest for one country.",
		category:    "opportunity",
		schema:      mmp.GetInputSchema(),
		errorCodes:  []errors.ErrorCode{errors.ErrCodeInputValidationFailed, errors.ErrCodePresenceMeasurementFailed},
	},
	{
		taskType:    smo.TaskType,
		displayName: "Score Market Opportunity",
		description: "Scores one market from its presence signals and profile.",
		category:    "opportunity",
		schema:      smo.GetInputSchema(),
		errorCodes:  []errors.ErrorCode{errors.ErrCodeInputValidationFailed},
	},
	{
		taskType:    amo.TaskType,
		displayName: "Analyze Market Opportunity",
		description: "Runs a complete analysis over the requested or default markets and stores the result.",
		category:    "opportunity",
		schema:      validation.AnalysisRequestSchema,
		errorCodes:  []errors.ErrorCode{errors.ErrCodeInputValidationFailed, errors.ErrCodeMarketDataUnavailable},
	},
	{
		taskType:    qm.TaskType,
		displayName: "Query Markets",
		description: "Loads market profiles for a list of country codes.",
		category:    "data-access",
		schema:      qm.GetInputSchema(),
		errorCodes:  []errors.ErrorCode{errors.ErrCodeInputValidationFailed, errors.ErrCodeMarketDataUnavailable},
	},
}

// TaskTypes returns every task type in catalog order.
func TaskTypes() []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.taskType
	}
	return out
}

// Activities builds registry entries, taking timeouts and retries from cfg.
func Activities(cfg *config.Config) ([]registry.Activity, error) {
	out := make([]registry.Activity, 0, len(entries))
	for _, e := range entries {
		var schema map[string]interface{}
		if err := json.Unmarshal([]byte(e.schema), &schema); err != nil {
			return nil, fmt.Errorf("%s: input schema: %w", e.taskType, err)
		}

		codes := make([]string, len(e.errorCodes))
		for i, c := range e.errorCodes {
			codes[i] = string(c)
		}

		wcfg := config.GetWorkerConfig(cfg, e.taskType)
		out = append(out, registry.Activity{
			ID:          e.taskType,
			DisplayName: e.displayName,
			Description: e.description,
			Category:    e.category,
			TaskType:    e.taskType,
			InputSchema: schema,
			ErrorCodes:  codes,
			Timeout:     config.GetDuration(wcfg.Timeout).String(),
			Retries:     wcfg.MaxRetries,
		})
	}
	return out, nil
}
