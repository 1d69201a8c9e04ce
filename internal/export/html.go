package export

import (
	"bytes"
	"fmt"
	"html/template"
)

// HTML is the print-formatted export: the full projection, signature and
// carbon sections included, styled for a print surface. The trailing
// window.print() call hands control to whatever rendering surface opened
// the document; without one the markup is still a complete report.
func (c *Content) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, c); err != nil {
		return nil, fmt.Errorf("failed to render print export: %w", err)
	}
	return buf.Bytes(), nil
}

// dataURL marks the drawn-signature data URL as a safe src; the default
// URL filter would reject the data: scheme.
var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{
	"dataURL": func(s string) template.URL { return template.URL(s) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; padding: 40px; color: #1a1a1a; }
    h1 { color: #d4a017; border-bottom: 2px solid #d4a017; padding-bottom: 10px; }
    h2 { color: #333; margin-top: 30px; }
    .score { font-size: 48px; font-weight: bold; color: #d4a017; }
    .summary { background: #f5f5f5; padding: 15px; border-radius: 8px; margin: 20px 0; }
    .section { margin: 20px 0; }
    .item { background: #fafafa; padding: 12px; margin: 8px 0; border-left: 3px solid #d4a017; }
    .badge { display: inline-block; padding: 2px 8px; border-radius: 4px; font-size: 12px; }
    .high { background: #fee2e2; color: #dc2626; }
    .medium { background: #fef3c7; color: #d97706; }
    .low { background: #dcfce7; color: #16a34a; }
    .signature { margin-top: 40px; border-top: 1px solid #ddd; padding-top: 20px; }
    .carbon { display: grid; grid-template-columns: repeat(3, 1fr); gap: 15px; }
    .carbon-box { background: #ecfdf5; padding: 15px; border-radius: 8px; }
    @media print { body { padding: 20px; } }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p><strong>Document:</strong> {{.Document}}</p>
  <p><strong>Generated:</strong> {{.Generated.Format "1/2/2006, 3:04:05 PM"}}</p>

  <div style="text-align: center; margin: 30px 0;">
    <div class="score">{{.ComplianceScore}}/100</div>
    <p>Compliance Score</p>
  </div>

  <div class="summary">
    <strong>Executive Summary:</strong><br/>
    {{if .Summary}}{{.Summary}}{{else}}No summary available{{end}}
  </div>

  <h2>Opportunities ({{len .Opportunities}})</h2>
  <div class="section">
    {{range .Opportunities}}
    <div class="item">
      <strong>{{.Title}}</strong>
      <span class="badge {{.Impact}}">{{.Impact}} impact</span>
      <p>{{.Description}}</p>
      {{if .Reference}}<small>{{.Reference}}</small>{{end}}
    </div>
    {{end}}
  </div>

  <h2>Risks ({{len .Risks}})</h2>
  <div class="section">
    {{range .Risks}}
    <div class="item">
      <strong>{{.Title}}</strong>
      <span class="badge {{.Severity}}">{{.Severity}} severity</span>
      <p>{{.Description}}</p>
      {{if .Mitigation}}<small>Mitigation: {{.Mitigation}}</small>{{end}}
    </div>
    {{end}}
  </div>

  <h2>Recommendations ({{len .Recommendations}})</h2>
  <div class="section">
    {{range .Recommendations}}
    <div class="item">
      <strong>#{{.Priority}}: {{.Title}}</strong>
      <p>{{.Action}}</p>
      {{if .Regulation}}<small>{{.Regulation}}</small>{{end}}
    </div>
    {{end}}
  </div>

  <h2>Carbon Impact Assessment</h2>
  <div class="carbon">
    <div class="carbon-box">
      <strong>Scope 1</strong>
      <p>{{if .CarbonImpact.Scope1.Assessment}}{{.CarbonImpact.Scope1.Assessment}}{{else}}Not assessed{{end}}</p>
    </div>
    <div class="carbon-box">
      <strong>Scope 2</strong>
      <p>{{if .CarbonImpact.Scope2.Assessment}}{{.CarbonImpact.Scope2.Assessment}}{{else}}Not assessed{{end}}</p>
    </div>
    <div class="carbon-box">
      <strong>Scope 3</strong>
      <p>{{if .CarbonImpact.Scope3.Assessment}}{{.CarbonImpact.Scope3.Assessment}}{{else}}Not assessed{{end}}</p>
    </div>
  </div>
  {{if .CarbonImpact.OverallRating}}
  <p style="text-align: center; margin-top: 15px;">
    <strong>Overall Rating:</strong> {{.CarbonImpact.OverallRating}}
  </p>
  {{end}}

  {{if .Signature}}
  <div class="signature">
    <h2>Digital Signature</h2>
    <p><strong>Signed by:</strong> {{.Signature.Name}}</p>
    <p><strong>Date:</strong> {{.Signature.Timestamp.Format "1/2/2006, 3:04:05 PM"}}</p>
    <img src="{{dataURL .Signature.Image}}" alt="Signature" style="max-width: 300px;" />
  </div>
  {{end}}

  <script>window.print();</script>
</body>
</html>
`))
