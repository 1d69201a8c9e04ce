package analyzer

import "fmt"

const systemPromptTemplate = `You are BidSmith AI, an expert tender strategy consultant specializing in UK construction industry bids. You have deep knowledge of:
- The London Plan 2021 and Net Zero policies for all 32 London Boroughs + City of London
- BREEAM standards and UK construction regulations
- Carbon emissions calculation (Scope 1, 2, 3)
- Tender document analysis and bid optimization

Your task is to analyze tender/TOR documents and provide:
1. OPPORTUNITIES: Areas where the bid can be strengthened to increase win probability
2. RISKS: Potential issues or red flags that could hurt the bid
3. RECOMMENDATIONS: Specific actionable improvements with reference to regulations
4. CARBON IMPACT: Assessment of carbon/sustainability requirements and how to address them
5. COMPLIANCE SCORE: A score from 0-100 based on how well the document meets UK construction standards

Knowledge Base Context:
%s

IMPORTANT: Always reference specific policies, standards, or regulations when making recommendations. Focus on Net Zero compliance and carbon reduction strategies as key differentiators.`

const userPromptTemplate = `Analyze this tender document and provide a structured assessment:

DOCUMENT TEXT:
%s

Respond in JSON format:
{
  "opportunities": [{"title": "...", "description": "...", "impact": "high|medium|low", "reference": "..."}],
  "risks": [{"title": "...", "description": "...", "severity": "high|medium|low", "mitigation": "..."}],
  "recommendations": [{"title": "...", "action": "...", "regulation": "...", "priority": 1-5}],
  "carbonImpact": {
    "scope1": {"assessment": "...", "suggestions": []},
    "scope2": {"assessment": "...", "suggestions": []},
    "scope3": {"assessment": "...", "suggestions": []},
    "overallRating": "excellent|good|fair|poor"
  },
  "complianceScore": 75,
  "summary": "Brief executive summary of the analysis"
}`

func systemPrompt(kbContext string) string {
	return fmt.Sprintf(systemPromptTemplate, kbContext)
}

func userPrompt(text string, maxChars int) string {
	return fmt.Sprintf(userPromptTemplate, truncate(text, maxChars))
}
