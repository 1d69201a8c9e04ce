package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
)

// fallbackSummaryChars is how much of the raw model output survives into
// the neutral record's summary.
const fallbackSummaryChars = 500

// neutralScore is the compliance score of the degrade-path record. It is
// deliberately 50, not 0: unparseable output says nothing about the
// document either way.
const neutralScore = 50

// ParseAnalysis decodes model output into a structured result. The model
// sometimes wraps the JSON in prose or code fences, so the widest
// {...} span is what gets decoded. When no JSON can be recovered the
// neutral record is returned with the raw output truncated into the
// summary; the second return value reports which path was taken.
func ParseAnalysis(content string) (*models.AnalysisResult, bool) {
	var result models.AnalysisResult

	if jsonBlock, ok := extractJSON(content); ok {
		if err := json.Unmarshal([]byte(jsonBlock), &result); err == nil {
			result.Normalize()
			return &result, true
		}
	}

	result = models.AnalysisResult{
		ComplianceScore: neutralScore,
		Summary:         truncate(content, fallbackSummaryChars),
	}
	result.Normalize()

	return &result, false
}

// extractJSON returns the span from the first '{' to the last '}'.
func extractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
