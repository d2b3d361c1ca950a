package types

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for the health check endpoint
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Database  map[string]string `json:"database"`
}

// VersionResponse for the root endpoint
type VersionResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitCommit string `json:"commit"`
	Status    string `json:"status"`
}
