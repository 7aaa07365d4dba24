package validation

// AnalysisRequestSchema constrains the shape of an opportunity analysis
// request. Which of startupUrl, businessType and description must be present
// is decided by the service, not here; unknown properties are allowed because
// job variables carry the whole process scope.
const AnalysisRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "startupUrl":   {"type": "string", "maxLength": 2048},
    "businessType": {"type": "string", "maxLength": 200},
    "description":  {"type": "string", "maxLength": 5000},
    "keywords": {
      "type": "array",
      "maxItems": 25,
      "items": {"type": "string", "minLength": 1, "maxLength": 100}
    },
    "targetMarkets": {
      "type": "array",
      "maxItems": 50,
      "items": {"type": "string", "pattern": "^\\s*[A-Za-z]{2}\\s*$"}
    }
  }
}`

var AnalysisRequest = MustCompile(AnalysisRequestSchema)
