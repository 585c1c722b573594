package types

// Model represents a discoverable LLM weight file on disk.
type Model struct {
	// Stable identifier for the model.
	// example: llama-2-7b.Q4_K_M.gguf
	ID string `json:"id" example:"llama-2-7b.Q4_K_M.gguf"`
	// Human-friendly name.
	// example: llama-2-7b.Q4_K_M.gguf
	Name string `json:"name" example:"llama-2-7b.Q4_K_M.gguf"`
	// Absolute path to the model file on disk.
	// example: /srv/atelier/models/llama-2-7b.Q4_K_M.gguf
	Path string `json:"path" example:"/srv/atelier/models/llama-2-7b.Q4_K_M.gguf"`
	// Quantization level or variant string.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// Optional family (e.g., llama, mistral, phi).
	// example: llama
	Family string `json:"family,omitempty" example:"llama"`
}

// StyleHints are extracted from the expanded prompt and forwarded as
// generation metadata to the downstream apps.
type StyleHints struct {
	// Primary light source classification.
	// example: natural
	PrimaryLight string `json:"primary_light,omitempty" example:"natural"`
	// Overall lighting mood.
	// example: bright
	Mood string `json:"mood,omitempty" example:"bright"`
	// Camera perspective classification.
	// example: wide
	Perspective string `json:"perspective,omitempty" example:"wide"`
	// Focus plane classification.
	// example: foreground
	Focus string `json:"focus,omitempty" example:"foreground"`
}

// Expansion is the result of the LLM prompt-expansion pass.
type Expansion struct {
	// Original user prompt.
	Original string `json:"original"`
	// Enhanced prompt produced by the LLM (falls back to Original on failure).
	Expanded string `json:"expanded"`
	// Style hints extracted from the expanded text.
	Hints StyleHints `json:"hints"`
	// Technical parameters for the image-to-3D stage.
	TechnicalParams string `json:"technical_params,omitempty"`
}

// Creation is one completed pipeline run: the prompt expansion and the
// assets written under the datastore.
type Creation struct {
	// Unique creation/session identifier.
	// example: 4f7c9a7e-2f31-4a2b-9c3e-7b1f0d2a6c55
	ID string `json:"id" example:"4f7c9a7e-2f31-4a2b-9c3e-7b1f0d2a6c55"`
	// Prompt expansion details.
	Prompt Expansion `json:"prompt"`
	// Path of the generated image asset.
	ImagePath string `json:"image_path"`
	// Path of the generated 3D object asset.
	ObjectPath string `json:"object_path"`
	// Creation time in unix seconds.
	// example: 1700000000
	CreatedUnix int64 `json:"created_unix" example:"1700000000"`
}
