package models

// PredictQuery binds the query string of POST /predict.
type PredictQuery struct {
	Variant string `form:"variant" binding:"omitempty,oneof=singlepose_lightning singlepose_thunder multipose_lightning"`
	Store   bool   `form:"store"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Env    string `json:"env"`
}

// StoreResponse is returned by POST /store.
type StoreResponse struct {
	StoredAt string `json:"stored_at"`
}
