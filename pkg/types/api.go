package types

// GenerateRequest is the payload accepted by POST /generate.
type GenerateRequest struct {
	// Required prompt describing the scene or object to create.
	// example: Glowing dragon standing on a cliff at sunset
	Prompt string `json:"prompt" example:"Glowing dragon standing on a cliff at sunset"`
	// Optional model identifier. If empty, the server default is used.
	// example: llama-2-7b.Q4_K_M.gguf
	Model string `json:"model,omitempty" example:"llama-2-7b.Q4_K_M.gguf"`
	// Optional client-supplied session id; the server generates one if empty.
	// example: 4f7c9a7e-2f31-4a2b-9c3e-7b1f0d2a6c55
	SessionID string `json:"session_id,omitempty"`
}

// GenerateResponse is returned by POST /generate on success.
type GenerateResponse struct {
	// The persisted creation.
	Creation Creation `json:"creation"`
	// Human-readable summary of the run.
	// example: generated image and 3D object for session 4f7c9a7e
	Message string `json:"message"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// CreationsResponse wraps the list returned by GET /creations.
type CreationsResponse struct {
	Creations []Creation `json:"creations"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: prompt is required
	Error string `json:"error" example:"prompt is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall daemon state (e.g., loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Default model id used when requests omit one.
	// example: llama-2-7b.Q4_K_M.gguf
	DefaultModel string `json:"default_model,omitempty"`
	// Number of models discovered in the models directory.
	// example: 2
	ModelCount int `json:"model_count" example:"2"`
	// Number of persisted creations in the datastore.
	// example: 17
	CreationCount int `json:"creation_count" example:"17"`
	// Total pipeline runs since start.
	// example: 42
	RunsTotal uint64 `json:"runs_total" example:"42"`
	// Total failed pipeline runs since start.
	// example: 3
	FailuresTotal uint64 `json:"failures_total" example:"3"`
	// Last error observed by the pipeline (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
