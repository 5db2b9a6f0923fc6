// Package validation checks inbound request payloads and reports the first violation.
// Messages use the wording existing API clients already parse,
// e.g. `"search_query" is required`.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"cachie/internal/models"
)

// SearchRequest is a validated POST /search body.
type SearchRequest struct {
	SearchQuery string
	ClientID    string
	SessionID   string
}

// AnalyseRequest is a validated GET /analyse query.
type AnalyseRequest struct {
	AnalysisToken string
	MatchType     models.MatchType
	IncludeStats  bool
	ClientID      string
}

var (
	searchKeys  = []string{"search_query", "client_id", "session_id"}
	analyseKeys = []string{"analysis_token", "match_type", "include_stats", "client_id"}
)

// ValidateSearchBody parses and validates a JSON search body.
// Returns the request and an empty message on success.
func ValidateSearchBody(body []byte) (*SearchRequest, string) {
	var raw any
	if len(body) == 0 {
		raw = map[string]any{}
	} else if err := json.Unmarshal(body, &raw); err != nil {
		return nil, "invalid request body"
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, `"value" must be of type object`
	}

	values := make(map[string]string, len(searchKeys))
	for _, key := range searchKeys {
		v, msg := requiredString(fields, key)
		if msg != "" {
			return nil, msg
		}
		values[key] = v
	}
	if msg := rejectUnknown(fields, searchKeys); msg != "" {
		return nil, msg
	}

	return &SearchRequest{
		SearchQuery: values["search_query"],
		ClientID:    values["client_id"],
		SessionID:   values["session_id"],
	}, ""
}

// ValidateAnalyseQuery validates GET /analyse query parameters.
// match_type defaults to exact and include_stats to false.
func ValidateAnalyseQuery(params map[string]string) (*AnalyseRequest, string) {
	token, ok := params["analysis_token"]
	if !ok {
		return nil, `"analysis_token" is required`
	}
	if token == "" {
		return nil, `"analysis_token" is not allowed to be empty`
	}

	req := &AnalyseRequest{AnalysisToken: token, MatchType: models.MatchExact}

	if raw, ok := params["match_type"]; ok {
		m := models.MatchType(raw)
		if !m.Valid() {
			return nil, fmt.Sprintf(`"match_type" must be one of [%s, %s]`, models.MatchExact, models.MatchFuzzy)
		}
		req.MatchType = m
	}

	if raw, ok := params["include_stats"]; ok {
		b, valid := ParseBool(raw)
		if !valid {
			return nil, `"include_stats" must be a boolean`
		}
		req.IncludeStats = b
	}

	if raw, ok := params["client_id"]; ok {
		if raw == "" {
			return nil, `"client_id" is not allowed to be empty`
		}
		req.ClientID = raw
	}

	for key := range params {
		if !contains(analyseKeys, key) {
			return nil, fmt.Sprintf(`"%s" is not allowed`, key)
		}
	}

	return req, ""
}

// ParseBool accepts "true" and "false" in any letter case.
func ParseBool(raw string) (value bool, valid bool) {
	switch {
	case strings.EqualFold(raw, "true"):
		return true, true
	case strings.EqualFold(raw, "false"):
		return false, true
	default:
		return false, false
	}
}

func requiredString(fields map[string]any, key string) (string, string) {
	v, ok := fields[key]
	if !ok {
		return "", fmt.Sprintf(`"%s" is required`, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Sprintf(`"%s" must be a string`, key)
	}
	if s == "" {
		return "", fmt.Sprintf(`"%s" is not allowed to be empty`, key)
	}
	return s, ""
}

// rejectUnknown reports the first unexpected key in sorted order so the message is stable.
func rejectUnknown(fields map[string]any, allowed []string) string {
	var unknown []string
	for key := range fields {
		if !contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return ""
	}
	first := unknown[0]
	for _, key := range unknown[1:] {
		if key < first {
			first = key
		}
	}
	return fmt.Sprintf(`"%s" is not allowed`, first)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
