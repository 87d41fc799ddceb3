package handler

// --- Request Types ---

// SetModeRequest represents the change pricing mode request body.
type SetModeRequest struct {
	PricingMode string `json:"pricing_mode" binding:"required" example:"DISCOUNTED_RATE_PLUS_GST"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"draft deleted"`
}
