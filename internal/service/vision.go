package service

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fitzty/fitzty-backend/internal/model"
)

// Prompts forwarded to the vision/image models. detect_type answers with a
// single lowercase word, so its token cap is much smaller.
const (
	replicaPrompt = "Create an exact visual replica of the clothing item shown in this image. " +
		"Match every detail including color, pattern, style, fit, and any decorative elements. " +
		"The output should look identical to the input clothing item."

	describePrompt = "Analyze this clothing item and provide an extremely detailed description that would " +
		"allow someone to recreate it exactly. Include: exact colors, fabric texture, style details, " +
		"patterns, fit, any logos or decorative elements, construction details, and any unique features. " +
		"Be precise and comprehensive."

	detectTypePrompt = "Analyze this clothing item and identify its specific type " +
		"(e.g., t-shirt, hoodie, jeans, dress shirt, blazer, etc.). " +
		"Respond with just the clothing type in lowercase."

	detectTypeMaxTokens = 50
	analysisMaxTokens   = 500
)

// ClothingVision is the AI gateway surface consumed by the wardrobe and
// profile services and the gateway handlers.
type ClothingVision interface {
	// Analyze runs a text-producing action (analyze_description, detect_type)
	// against a data-URL image and returns the model's text.
	Analyze(ctx context.Context, imageDataURL, action string) (string, error)

	// GenerateReplica produces an AI replica of the clothing in the image
	// and returns it as a base64 PNG data URL.
	GenerateReplica(ctx context.Context, imageDataURL string) (string, error)

	// GenerateAvatar renders a portrait from the body attribute set and
	// returns it as a base64 PNG data URL.
	GenerateAvatar(ctx context.Context, details model.BodyDetails) (string, error)
}

// VisionService implements ClothingVision against the OpenAI API.
// Stateless: no retries, no caching, every call hits the upstream.
type VisionService struct {
	client *openai.Client
}

// NewVisionService builds the upstream client. An empty key is allowed at
// construction so the server can boot without AI configured; calls then
// fail with ErrMissingAPIKey.
func NewVisionService(apiKey string) *VisionService {
	svc := &VisionService{}
	if apiKey != "" {
		svc.client = openai.NewClient(apiKey)
	}
	return svc
}

func (s *VisionService) Analyze(ctx context.Context, imageDataURL, action string) (string, error) {
	if s.client == nil {
		return "", model.ErrMissingAPIKey
	}

	var prompt string
	maxTokens := analysisMaxTokens
	switch action {
	case model.ActionAnalyzeDescription:
		prompt = describePrompt
	case model.ActionDetectType:
		prompt = detectTypePrompt
		maxTokens = detectTypeMaxTokens
	case model.ActionGenerateReplica:
		prompt = replicaPrompt
	default:
		return "", model.ErrInvalidAction
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL},
					},
				},
			},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUpstreamFailure, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", model.ErrUpstreamFailure)
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateReplica first asks the vision model to describe the item, then
// feeds the description to the image model. B64 response format skips the
// extra round trip of fetching a hosted result URL.
func (s *VisionService) GenerateReplica(ctx context.Context, imageDataURL string) (string, error) {
	if s.client == nil {
		return "", model.ErrMissingAPIKey
	}

	description, err := s.Analyze(ctx, imageDataURL, model.ActionGenerateReplica)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Create an exact replica of this clothing item: %s. "+
		"Make it look identical in style, color, pattern, and design details.", description)

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUpstreamFailure, err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("%w: no image returned", model.ErrUpstreamFailure)
	}

	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

func (s *VisionService) GenerateAvatar(ctx context.Context, details model.BodyDetails) (string, error) {
	if s.client == nil {
		return "", model.ErrMissingAPIKey
	}

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:          openai.CreateImageModelDallE2,
		Prompt:         avatarPrompt(details),
		N:              1,
		Size:           openai.CreateImageSize512x512,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUpstreamFailure, err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("%w: no image returned", model.ErrUpstreamFailure)
	}

	return "data:image/png;base64," + resp.Data[0].B64JSON, nil
}

func avatarPrompt(d model.BodyDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional portrait photo of a person with the following characteristics: ")
	fmt.Fprintf(&b, "Gender: %s, Skin tone: %s, Face shape: %s, ", d.Gender, d.SkinTone, d.FaceShape)
	fmt.Fprintf(&b, "Hair type: %s, Hair length: %s, Hair color: %s, ", d.HairType, d.HairLength, d.HairColor)
	fmt.Fprintf(&b, "Eye shape: %s, Eye color: %s, ", d.EyeShape, d.EyeColor)
	fmt.Fprintf(&b, "Body build: %s, Height: %s, Weight: %s. ", d.BodyBuild, d.Height, d.Weight)
	if d.Gender == "Male" && d.BeardLength != "" {
		fmt.Fprintf(&b, "Beard length: %s. ", d.BeardLength)
	}
	b.WriteString("Professional headshot style, clean background, good lighting, looking directly at camera.")
	return b.String()
}
