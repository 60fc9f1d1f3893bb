package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/config"
)

const (
	MsgGenerationFailed  = "Failed to generate image. Please try again."
	MsgRateLimitExceeded = "Rate limit exceeded. Please try again in a moment."
)

// ReferenceImage - one image handed to the model, base64-encoded with its mime
// type. Order matters: the prompt refers to the images by position.
type ReferenceImage struct {
	Data     string
	MIMEType string
}

type Client struct {
	genai *genai.Client
	model string
}

// NewClient - create the Gemini client
func NewClient(ctx context.Context) (*Client, error) {
	cfg := config.GetConfig()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}

	log.Printf("✅ Genai client initialized (model: %s)", cfg.GeminiModel)
	return &Client{
		genai: genaiClient,
		model: cfg.GeminiModel,
	}, nil
}

// GenerateCompositeImage - send the prompt plus the reference images (in order)
// and return the bytes of the single generated image. All failures come back
// as BadRequest with a user-facing message; the underlying cause is logged.
func (c *Client) GenerateCompositeImage(ctx context.Context, refs []ReferenceImage, prompt string) ([]byte, error) {
	if prompt == "" {
		prompt = DefaultPromptTemplate
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}

	for i, ref := range refs {
		data, err := base64.StdEncoding.DecodeString(ref.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode reference image %d: %w", i+1, err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: ref.MIMEType,
				Data:     data,
			},
		})
	}

	content := &genai.Content{
		Parts: parts,
	}

	log.Printf("📤 Sending request to Gemini API with %d parts...", len(parts))
	result, err := c.genai.Models.GenerateContent(
		ctx,
		c.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			CandidateCount: 1,
		},
	)
	if err != nil {
		return nil, classifyError(err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		log.Printf("❌ Gemini returned no candidates")
		return nil, apperr.BadRequest(MsgGenerationFailed)
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			log.Printf("✅ Received image from Gemini: %d bytes", len(part.InlineData.Data))
			return part.InlineData.Data, nil
		}
	}

	log.Printf("❌ Gemini response contained no image data")
	return nil, apperr.BadRequest(MsgGenerationFailed)
}

// classifyError - map provider failures onto the HTTP taxonomy
func classifyError(err error) error {
	errStr := err.Error()
	log.Printf("❌ Gemini API call failed: %v", err)

	if strings.Contains(errStr, "PERMISSION_DENIED") {
		return apperr.BadRequest(errStr)
	}
	if isRateLimitError(err) {
		return apperr.BadRequest(MsgRateLimitExceeded)
	}
	return apperr.BadRequest(fmt.Sprintf("%s: %s", MsgGenerationFailed, errStr))
}

// isRateLimitError - Gemini 429 / quota exhaustion patterns
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "resource exhausted")
}
