package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

// Gateway is the AI service boundary: text extraction from PDF bytes and
// structured tender analysis over extracted text.
type Gateway interface {
	ExtractText(ctx context.Context, pdfData []byte) (string, error)
	Analyze(ctx context.Context, text, kbContext string) (*models.AnalysisResult, error)
}

const (
	// maxAnalysisChars bounds how much of the document goes into the
	// analysis prompt.
	maxAnalysisChars = 15000

	// maxExtractionTokens bounds the extraction completion; tender
	// documents run long.
	maxExtractionTokens = 32000

	extractionPrompt = "Extract ALL text content from this PDF document. Preserve the structure, headings, and formatting as much as possible. Include all sections, clauses, requirements, and specifications. Output only the extracted text without any commentary."
)

type gatewayClient struct {
	client *openai.Client
	model  string
	logger *utils.Logger
}

func NewGateway(baseURL, apiKey, model string, logger *utils.Logger) Gateway {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &gatewayClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// ExtractText sends the PDF as a base64 data URL so the model reads the
// pages directly. Used when the local text-layer extraction comes up
// empty (scanned documents).
func (g *gatewayClient) ExtractText(ctx context.Context, pdfData []byte) (string, error) {
	dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdfData)

	req := openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: maxExtractionTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
				},
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapGatewayError(err)
	}

	if len(resp.Choices) == 0 {
		return "", utils.NewBadGatewayError("AI gateway returned no extraction result")
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *gatewayClient) Analyze(ctx context.Context, text, kbContext string) (*models.AnalysisResult, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(kbContext)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(text, maxAnalysisChars)},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, utils.NewBadGatewayError("AI gateway returned no analysis result")
	}

	content := resp.Choices[0].Message.Content

	result, parsed := ParseAnalysis(content)
	if !parsed {
		g.logger.Warn("model output did not parse as analysis JSON, using neutral record",
			"content_length", len(content))
	}

	return result, nil
}

// mapGatewayError translates transport failures into the user-facing
// taxonomy: 401 auth, 429 rate limit, 402 quota, everything else a bad
// gateway.
func mapGatewayError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return utils.NewUnauthorizedError("AI gateway rejected the configured credentials")
		case http.StatusTooManyRequests:
			return utils.NewRateLimitError("Rate limit exceeded. Please try again later.")
		case http.StatusPaymentRequired:
			return utils.NewPaymentRequiredError("Payment required. Please add credits to your workspace.")
		}
	}

	return utils.NewBadGatewayError(fmt.Sprintf("AI gateway error: %v", err))
}
