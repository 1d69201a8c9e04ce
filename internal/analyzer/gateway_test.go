package analyzer

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

func TestMapGatewayErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "rejected credentials",
			err:        &openai.APIError{HTTPStatusCode: http.StatusUnauthorized},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "rate limited",
			err:         &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests},
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "Rate limit exceeded. Please try again later.",
		},
		{
			name:        "out of credits",
			err:         &openai.APIError{HTTPStatusCode: http.StatusPaymentRequired},
			wantStatus:  http.StatusPaymentRequired,
			wantMessage: "Payment required. Please add credits to your workspace.",
		},
		{
			name:       "upstream server error",
			err:        &openai.APIError{HTTPStatusCode: http.StatusInternalServerError},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("chat completion: %w", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}),
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "transport failure",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapGatewayError(tc.err)
			appErr, ok := mapped.(*utils.AppError)
			require.True(t, ok, "expected AppError, got %T", mapped)
			assert.Equal(t, tc.wantStatus, appErr.StatusCode)
			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, appErr.Message)
			}
		})
	}
}

func TestUserPromptTruncatesOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("é", maxAnalysisChars+1000)

	prompt := userPrompt(text, maxAnalysisChars)

	assert.True(t, utf8.ValidString(prompt))
	assert.Equal(t, maxAnalysisChars, strings.Count(prompt, "é"))
}

func TestUserPromptKeepsShortTextIntact(t *testing.T) {
	prompt := userPrompt("short document", maxAnalysisChars)
	assert.Contains(t, prompt, "short document")
}
