package models

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports engine state for liveness probes.
type HealthResponse struct {
	Status          string `json:"status"`
	SearchesLogged  int    `json:"searches_logged"`
	IndexedBigrams  int    `json:"indexed_bigrams"`
	QueryLogBackend string `json:"query_log_backend"`
}
