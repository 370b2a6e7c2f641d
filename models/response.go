package models

// APIResponse is the uniform envelope every endpoint returns. Expected
// business conditions (conflicts, bad input, denial) come back as
// success=false with a message, not as transport-level errors.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
