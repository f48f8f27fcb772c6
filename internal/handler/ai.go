package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fitzty/fitzty-backend/internal/httputil"
	"github.com/fitzty/fitzty-backend/internal/model"
	"github.com/fitzty/fitzty-backend/internal/service"
)

// AIHandler exposes the stateless AI generation gateway. Its wire format is
// fixed by the clients: camelCase fields and a flat {"error": "..."} error
// shape, distinct from the rest of the API.
type AIHandler struct {
	vision   service.ClothingVision
	validate *validator.Validate
}

func NewAIHandler(vision service.ClothingVision) *AIHandler {
	return &AIHandler{
		vision:   vision,
		validate: validator.New(),
	}
}

// AnalyzeClothing dispatches on the action field: text-producing actions
// return {"result": ...}, generate_replica returns {"imageUrl": ...} with a
// base64 PNG data URL.
// POST /functions/analyze-clothing
func (h *AIHandler) AnalyzeClothing(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeClothingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGatewayError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ImageURL == "" {
		writeGatewayError(w, http.StatusBadRequest, "imageUrl is required")
		return
	}
	if req.Action == "" {
		writeGatewayError(w, http.StatusBadRequest, "action is required")
		return
	}

	switch req.Action {
	case model.ActionGenerateReplica:
		imageURL, err := h.vision.GenerateReplica(r.Context(), req.ImageURL)
		if err != nil {
			writeGatewayUpstreamError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, model.GeneratedImageResponse{ImageURL: imageURL})

	case model.ActionAnalyzeDescription, model.ActionDetectType:
		result, err := h.vision.Analyze(r.Context(), req.ImageURL, req.Action)
		if err != nil {
			writeGatewayUpstreamError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, model.AnalyzeClothingResponse{Result: result})

	default:
		writeGatewayError(w, http.StatusBadRequest, "Invalid action")
	}
}

// GenerateAvatar renders a portrait from the body attribute set. All eleven
// attributes are required; beardLength additionally when gender is "Male".
// POST /functions/generate-ai-avatar
func (h *AIHandler) GenerateAvatar(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGatewayError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req.BodyDetails); err != nil {
		writeGatewayError(w, http.StatusBadRequest, "bodyDetails is incomplete")
		return
	}

	imageURL, err := h.vision.GenerateAvatar(r.Context(), req.BodyDetails)
	if err != nil {
		writeGatewayUpstreamError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.GeneratedImageResponse{ImageURL: imageURL})
}

func writeGatewayError(w http.ResponseWriter, status int, message string) {
	httputil.WriteJSON(w, status, model.GatewayErrorResponse{Error: message})
}

func writeGatewayUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrMissingAPIKey):
		writeGatewayError(w, http.StatusInternalServerError, "OpenAI API key not configured")
	case errors.Is(err, model.ErrInvalidAction):
		writeGatewayError(w, http.StatusBadRequest, "Invalid action")
	default:
		writeGatewayError(w, http.StatusInternalServerError, "AI generation failed")
	}
}
