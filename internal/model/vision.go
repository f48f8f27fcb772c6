package model

import "errors"

// Gateway actions for POST /functions/analyze-clothing.
const (
	ActionGenerateReplica    = "generate_replica"
	ActionAnalyzeDescription = "analyze_description"
	ActionDetectType         = "detect_type"
)

// AnalyzeClothingRequest mirrors the wire format the web client already
// speaks: a data-URL image plus the requested action.
type AnalyzeClothingRequest struct {
	ImageURL string `json:"imageUrl"`
	Action   string `json:"action"`
}

// AnalyzeClothingResponse carries text results (analyze_description,
// detect_type). Replica generation responds with GeneratedImageResponse.
type AnalyzeClothingResponse struct {
	Result string `json:"result"`
}

// GeneratedImageResponse carries a base64 PNG data URL.
type GeneratedImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// GenerateAvatarRequest is the body of POST /functions/generate-ai-avatar.
type GenerateAvatarRequest struct {
	BodyDetails BodyDetails `json:"bodyDetails"`
}

// GatewayErrorResponse is the error shape of both gateway endpoints.
type GatewayErrorResponse struct {
	Error string `json:"error"`
}

var (
	// ErrMissingAPIKey is returned when the upstream credential is not configured
	ErrMissingAPIKey = errors.New("openai api key not configured")

	// ErrInvalidAction is returned for unknown analyze actions
	ErrInvalidAction = errors.New("invalid action provided")

	// ErrUpstreamFailure wraps failures from the model API
	ErrUpstreamFailure = errors.New("upstream model api failure")
)
