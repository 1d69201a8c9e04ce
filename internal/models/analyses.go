package models

import (
	"time"
)

type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "high"
	ImpactMedium ImpactLevel = "medium"
	ImpactLow    ImpactLevel = "low"
)

type CarbonRating string

const (
	RatingExcellent CarbonRating = "excellent"
	RatingGood      CarbonRating = "good"
	RatingFair      CarbonRating = "fair"
	RatingPoor      CarbonRating = "poor"
)

type Opportunity struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Impact      ImpactLevel `json:"impact"`
	Reference   string      `json:"reference,omitempty"`
}

type Risk struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Severity    ImpactLevel `json:"severity"`
	Mitigation  string      `json:"mitigation,omitempty"`
}

type Recommendation struct {
	Title      string `json:"title"`
	Action     string `json:"action"`
	Regulation string `json:"regulation,omitempty"`
	Priority   int    `json:"priority"`
}

type ScopeAssessment struct {
	Assessment  string   `json:"assessment"`
	Suggestions []string `json:"suggestions"`
}

type CarbonImpact struct {
	Scope1        ScopeAssessment `json:"scope1"`
	Scope2        ScopeAssessment `json:"scope2"`
	Scope3        ScopeAssessment `json:"scope3"`
	OverallRating CarbonRating    `json:"overallRating"`
}

// AnalysisResult is the wire shape the AI gateway is prompted to return.
type AnalysisResult struct {
	Opportunities   []Opportunity    `json:"opportunities"`
	Risks           []Risk           `json:"risks"`
	Recommendations []Recommendation `json:"recommendations"`
	CarbonImpact    CarbonImpact     `json:"carbonImpact"`
	ComplianceScore int              `json:"complianceScore"`
	Summary         string           `json:"summary"`
}

// Normalize fills the documented defaults after parsing model output:
// impact/severity fall back to medium, a missing recommendation priority
// becomes its 1-based sequence position, and an unknown carbon rating
// becomes fair. Nil sequences become empty so they persist as JSON arrays.
func (r *AnalysisResult) Normalize() {
	if r.Opportunities == nil {
		r.Opportunities = []Opportunity{}
	}
	if r.Risks == nil {
		r.Risks = []Risk{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
	for i := range r.Opportunities {
		if !validImpact(r.Opportunities[i].Impact) {
			r.Opportunities[i].Impact = ImpactMedium
		}
	}
	for i := range r.Risks {
		if !validImpact(r.Risks[i].Severity) {
			r.Risks[i].Severity = ImpactMedium
		}
	}
	for i := range r.Recommendations {
		if r.Recommendations[i].Priority <= 0 {
			r.Recommendations[i].Priority = i + 1
		}
	}
	if r.CarbonImpact.Scope1.Suggestions == nil {
		r.CarbonImpact.Scope1.Suggestions = []string{}
	}
	if r.CarbonImpact.Scope2.Suggestions == nil {
		r.CarbonImpact.Scope2.Suggestions = []string{}
	}
	if r.CarbonImpact.Scope3.Suggestions == nil {
		r.CarbonImpact.Scope3.Suggestions = []string{}
	}
	switch r.CarbonImpact.OverallRating {
	case RatingExcellent, RatingGood, RatingFair, RatingPoor:
	default:
		r.CarbonImpact.OverallRating = RatingFair
	}
	if r.ComplianceScore < 0 {
		r.ComplianceScore = 0
	}
	if r.ComplianceScore > 100 {
		r.ComplianceScore = 100
	}
}

func validImpact(l ImpactLevel) bool {
	return l == ImpactHigh || l == ImpactMedium || l == ImpactLow
}

type Analysis struct {
	ID              string           `json:"id" db:"id"`
	DocumentID      string           `json:"document_id" db:"document_id"`
	UserID          string           `json:"user_id" db:"user_id"`
	Opportunities   []Opportunity    `json:"opportunities"`
	Risks           []Risk           `json:"risks"`
	Recommendations []Recommendation `json:"recommendations"`
	CarbonImpact    CarbonImpact     `json:"carbon_impact"`
	ComplianceScore int              `json:"compliance_score" db:"compliance_score"`
	AISummary       string           `json:"ai_summary" db:"ai_summary"`
	SignedAt        *time.Time       `json:"signed_at,omitempty" db:"signed_at"`
	SignatureData   *string          `json:"signature_data,omitempty" db:"signature_data"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`

	// FileName is joined from the parent document on list/detail reads.
	FileName string `json:"file_name,omitempty" db:"file_name"`
}

// Signature is the decoded form of Analysis.SignatureData. The three
// fields are committed together or not at all.
type Signature struct {
	Image     string    `json:"signature"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

type SignRequest struct {
	Name    string `json:"name"`
	Image   string `json:"signature"`
	Consent bool   `json:"consent"`
}
