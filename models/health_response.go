package models

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Fetches   int    `json:"fetches"`
}
