package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitzty/fitzty-backend/internal/model"
)

type mockVision struct {
	analyzeFn         func(ctx context.Context, imageDataURL, action string) (string, error)
	generateReplicaFn func(ctx context.Context, imageDataURL string) (string, error)
	generateAvatarFn  func(ctx context.Context, details model.BodyDetails) (string, error)
}

func (m *mockVision) Analyze(ctx context.Context, imageDataURL, action string) (string, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, imageDataURL, action)
	}
	return "a result", nil
}

func (m *mockVision) GenerateReplica(ctx context.Context, imageDataURL string) (string, error) {
	if m.generateReplicaFn != nil {
		return m.generateReplicaFn(ctx, imageDataURL)
	}
	return "data:image/png;base64,AAAA", nil
}

func (m *mockVision) GenerateAvatar(ctx context.Context, details model.BodyDetails) (string, error) {
	if m.generateAvatarFn != nil {
		return m.generateAvatarFn(ctx, details)
	}
	return "data:image/png;base64,AAAA", nil
}

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func gatewayError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.GatewayErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not the flat gateway shape: %s", rec.Body.String())
	}
	if resp.Error == "" {
		t.Fatalf("expected non-empty error field, body: %s", rec.Body.String())
	}
	return resp.Error
}

func avatarBody(gender, beardLength string) map[string]interface{} {
	details := map[string]string{
		"gender":     gender,
		"skinTone":   "Medium",
		"faceShape":  "Oval",
		"hairType":   "Straight",
		"hairLength": "Short",
		"hairColor":  "Black",
		"eyeShape":   "Almond",
		"eyeColor":   "Brown",
		"bodyBuild":  "Athletic",
		"height":     "180cm",
		"weight":     "75kg",
	}
	if beardLength != "" {
		details["beardLength"] = beardLength
	}
	return map[string]interface{}{"bodyDetails": details}
}

func TestAnalyzeClothing_MissingImageURL(t *testing.T) {
	h := NewAIHandler(&mockVision{})

	rec := postJSON(t, h.AnalyzeClothing, map[string]string{"action": model.ActionDetectType})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	gatewayError(t, rec)
}

func TestAnalyzeClothing_MissingAction(t *testing.T) {
	h := NewAIHandler(&mockVision{})

	rec := postJSON(t, h.AnalyzeClothing, map[string]string{"imageUrl": "data:image/png;base64,AAAA"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeClothing_InvalidAction(t *testing.T) {
	h := NewAIHandler(&mockVision{})

	rec := postJSON(t, h.AnalyzeClothing, map[string]string{
		"imageUrl": "data:image/png;base64,AAAA",
		"action":   "paint_portrait",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeClothing_TextActions(t *testing.T) {
	vision := &mockVision{
		analyzeFn: func(ctx context.Context, imageDataURL, action string) (string, error) {
			return "hoodie", nil
		},
	}
	h := NewAIHandler(vision)

	rec := postJSON(t, h.AnalyzeClothing, map[string]string{
		"imageUrl": "data:image/png;base64,AAAA",
		"action":   model.ActionDetectType,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp model.AnalyzeClothingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Result != "hoodie" {
		t.Errorf("result = %q, want %q", resp.Result, "hoodie")
	}
}

func TestAnalyzeClothing_GenerateReplicaReturnsImageURL(t *testing.T) {
	h := NewAIHandler(&mockVision{})

	rec := postJSON(t, h.AnalyzeClothing, map[string]string{
		"imageUrl": "data:image/png;base64,AAAA",
		"action":   model.ActionGenerateReplica,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp model.GeneratedImageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ImageURL != "data:image/png;base64,AAAA" {
		t.Errorf("imageUrl = %q, want the generated data URL", resp.ImageURL)
	}
}

func TestAnalyzeClothing_MissingAPIKeyIs500(t *testing.T) {
	vision := &mockVision{
		analyzeFn: func(ctx context.Context, imageDataURL, action string) (string, error) {
			return "", model.ErrMissingAPIKey
		},
	}
	h := NewAIHandler(vision)

	rec := postJSON(t, h.AnalyzeClothing, map[string]string{
		"imageUrl": "data:image/png;base64,AAAA",
		"action":   model.ActionDetectType,
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	gatewayError(t, rec)
}

func TestGenerateAvatar_Success(t *testing.T) {
	h := NewAIHandler(&mockVision{})

	rec := postJSON(t, h.GenerateAvatar, avatarBody("Female", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp model.GeneratedImageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ImageURL == "" {
		t.Error("expected imageUrl in response")
	}
}

func TestGenerateAvatar_IncompleteDetails(t *testing.T) {
	h := NewAIHandler(&mockVision{})

	body := avatarBody("Female", "")
	delete(body["bodyDetails"].(map[string]string), "eyeColor")

	rec := postJSON(t, h.GenerateAvatar, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	gatewayError(t, rec)
}

func TestGenerateAvatar_MaleRequiresBeardLength(t *testing.T) {
	h := NewAIHandler(&mockVision{})

	// Male without beardLength is rejected
	rec := postJSON(t, h.GenerateAvatar, avatarBody("Male", ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for Male without beardLength", rec.Code)
	}

	// Male with beardLength passes
	rec = postJSON(t, h.GenerateAvatar, avatarBody("Male", "Stubble"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for Male with beardLength, body: %s", rec.Code, rec.Body.String())
	}

	// Female never needs beardLength
	rec = postJSON(t, h.GenerateAvatar, avatarBody("Female", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for Female without beardLength", rec.Code)
	}
}

func TestGenerateAvatar_UpstreamFailureIs500(t *testing.T) {
	vision := &mockVision{
		generateAvatarFn: func(ctx context.Context, details model.BodyDetails) (string, error) {
			return "", model.ErrUpstreamFailure
		},
	}
	h := NewAIHandler(vision)

	rec := postJSON(t, h.GenerateAvatar, avatarBody("Female", ""))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
