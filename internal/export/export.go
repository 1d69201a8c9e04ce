package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatHTML Format = "html"
)

const reportTitle = "BidSmith AI - Tender Analysis Report"

// Content is the export projection of an analysis: no new information,
// just the fetched record plus its parent document's file name, with the
// signature decoded into its components.
type Content struct {
	Title           string                  `json:"title"`
	Generated       time.Time               `json:"generated"`
	Document        string                  `json:"document"`
	ComplianceScore int                     `json:"complianceScore"`
	Summary         string                  `json:"summary"`
	Opportunities   []models.Opportunity    `json:"opportunities"`
	Risks           []models.Risk           `json:"risks"`
	Recommendations []models.Recommendation `json:"recommendations"`
	CarbonImpact    models.CarbonImpact     `json:"carbonImpact"`
	Signature       *models.Signature       `json:"signature"`
}

// Build assembles the projection. It performs no remote calls and never
// mutates the analysis.
func Build(analysis *models.Analysis, generated time.Time) *Content {
	document := analysis.FileName
	if document == "" {
		document = "Unknown Document"
	}

	c := &Content{
		Title:           reportTitle,
		Generated:       generated,
		Document:        document,
		ComplianceScore: analysis.ComplianceScore,
		Summary:         analysis.AISummary,
		Opportunities:   analysis.Opportunities,
		Risks:           analysis.Risks,
		Recommendations: analysis.Recommendations,
		CarbonImpact:    analysis.CarbonImpact,
	}
	if c.Opportunities == nil {
		c.Opportunities = []models.Opportunity{}
	}
	if c.Risks == nil {
		c.Risks = []models.Risk{}
	}
	if c.Recommendations == nil {
		c.Recommendations = []models.Recommendation{}
	}

	if analysis.SignatureData != nil {
		var sig models.Signature
		if err := json.Unmarshal([]byte(*analysis.SignatureData), &sig); err == nil {
			c.Signature = &sig
		}
	}

	return c
}

// Render returns the encoded export and its media type.
func (c *Content) Render(format Format) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		data, err := c.JSON()
		return data, "application/json", err
	case FormatText:
		return []byte(c.PlainText()), "text/plain; charset=utf-8", nil
	case FormatHTML:
		data, err := c.HTML()
		return data, "text/html; charset=utf-8", err
	default:
		return nil, "", utils.NewBadRequestError(fmt.Sprintf("Unsupported export format %q", format))
	}
}

// JSON is the lossless dump: every field, signature included.
func (c *Content) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// PlainText is the lossy narrative export: header, score, summary and the
// three numbered sections. Carbon impact and signature are deliberately
// absent from this format.
func (c *Content) PlainText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n\n", c.Title, strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Document: %s\n", c.Document)
	fmt.Fprintf(&b, "Generated: %s\n", c.Generated.Format("1/2/2006, 3:04:05 PM"))
	fmt.Fprintf(&b, "Compliance Score: %d/100\n\n", c.ComplianceScore)
	fmt.Fprintf(&b, "Summary:\n%s\n\n", c.Summary)

	fmt.Fprintf(&b, "OPPORTUNITIES (%d)\n%s\n", len(c.Opportunities), strings.Repeat("-", 30))
	for i, o := range c.Opportunities {
		fmt.Fprintf(&b, "%d. %s [%s]\n   %s\n\n", i+1, o.Title, o.Impact, o.Description)
	}

	fmt.Fprintf(&b, "RISKS (%d)\n%s\n", len(c.Risks), strings.Repeat("-", 30))
	for i, r := range c.Risks {
		fmt.Fprintf(&b, "%d. %s [%s]\n   %s\n", i+1, r.Title, r.Severity, r.Description)
		if r.Mitigation != "" {
			fmt.Fprintf(&b, "   Mitigation: %s\n", r.Mitigation)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "RECOMMENDATIONS (%d)\n%s\n", len(c.Recommendations), strings.Repeat("-", 30))
	for i, r := range c.Recommendations {
		fmt.Fprintf(&b, "%d. %s\n   %s\n\n", i+1, r.Title, r.Action)
	}

	return b.String()
}
