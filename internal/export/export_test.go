package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

func signedFixture() *models.Analysis {
	signedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sigData := `{"signature":"data:image/png;base64,AAAA","name":"Ada Lovelace","timestamp":"2025-06-01T12:00:00Z"}`
	return &models.Analysis{
		ID:              "an-1",
		FileName:        "tender.pdf",
		ComplianceScore: 78,
		AISummary:       "A solid submission with gaps in scope 3 reporting.",
		Opportunities: []models.Opportunity{
			{Title: "Solar PV", Description: "Roof array feasible", Impact: models.ImpactHigh},
		},
		Risks: []models.Risk{
			{Title: "Late penalty", Description: "LDs apply", Severity: models.ImpactMedium, Mitigation: "Buffer the programme"},
		},
		Recommendations: []models.Recommendation{
			{Title: "Confirm BREEAM", Action: "Engage assessor early", Priority: 1},
		},
		CarbonImpact: models.CarbonImpact{
			OverallRating: models.RatingGood,
			Scope1:        models.ScopeAssessment{Assessment: "ok", Suggestions: []string{"HVO plant"}},
		},
		SignedAt:      &signedAt,
		SignatureData: &sigData,
	}
}

var exportGenerated = time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)

func TestBuildDecodesSignature(t *testing.T) {
	content := Build(signedFixture(), exportGenerated)

	require.NotNil(t, content.Signature)
	assert.Equal(t, "Ada Lovelace", content.Signature.Name)
	assert.Equal(t, "data:image/png;base64,AAAA", content.Signature.Image)
	assert.Equal(t, "tender.pdf", content.Document)
}

func TestBuildUnknownDocumentFallback(t *testing.T) {
	analysis := signedFixture()
	analysis.FileName = ""
	analysis.SignatureData = nil

	content := Build(analysis, exportGenerated)
	assert.Equal(t, "Unknown Document", content.Document)
	assert.Nil(t, content.Signature)
}

func TestJSONExportIncludesEverything(t *testing.T) {
	data, contentType, err := Build(signedFixture(), exportGenerated).Render(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "carbonImpact")
	assert.Contains(t, decoded, "signature")
	assert.Equal(t, float64(78), decoded["complianceScore"])
}

func TestPlainTextExportOmitsCarbonAndSignature(t *testing.T) {
	data, contentType, err := Build(signedFixture(), exportGenerated).Render(FormatText)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)

	text := string(data)
	assert.Contains(t, text, "BidSmith AI - Tender Analysis Report")
	assert.Contains(t, text, "Document: tender.pdf")
	assert.Contains(t, text, "Compliance Score: 78/100")
	assert.Contains(t, text, "OPPORTUNITIES (1)")
	assert.Contains(t, text, "1. Solar PV [high]")
	assert.Contains(t, text, "Mitigation: Buffer the programme")
	assert.Contains(t, text, "Generated: 6/2/2025, 3:04:05 PM")

	// The narrative format drops carbon and attestation on purpose.
	assert.NotContains(t, text, "carbon")
	assert.NotContains(t, text, "Carbon")
	assert.NotContains(t, text, "Ada Lovelace")
}

func TestHTMLExportRendersReport(t *testing.T) {
	data, contentType, err := Build(signedFixture(), exportGenerated).Render(FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", contentType)

	html := string(data)
	assert.Contains(t, html, "BidSmith AI - Tender Analysis Report")
	assert.Contains(t, html, "tender.pdf")
	assert.Contains(t, html, "Solar PV")
	assert.Contains(t, html, "Ada Lovelace")
	// The signature image must survive template sanitization.
	assert.Contains(t, html, "data:image/png;base64,AAAA")
	assert.NotContains(t, html, "ZgotmplZ")
	assert.Contains(t, html, "window.print()")
}

func TestHTMLExportUnsignedHidesSignatureBlock(t *testing.T) {
	analysis := signedFixture()
	analysis.SignedAt = nil
	analysis.SignatureData = nil

	data, _, err := Build(analysis, exportGenerated).Render(FormatHTML)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Ada Lovelace")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, _, err := Build(signedFixture(), exportGenerated).Render(Format("docx"))
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestPlainTextEmptySections(t *testing.T) {
	analysis := signedFixture()
	analysis.Opportunities = nil
	analysis.Risks = nil
	analysis.Recommendations = nil

	text := Build(analysis, exportGenerated).PlainText()
	assert.Contains(t, text, "OPPORTUNITIES (0)")
	assert.Contains(t, text, "RISKS (0)")
	assert.Contains(t, text, "RECOMMENDATIONS (0)")
	assert.False(t, strings.Contains(text, "1. "))
}
