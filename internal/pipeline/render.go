package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/claimsure/internal/model"
)

// Renderer writes reports as JSON, Markdown and a one-line summary
type Renderer struct {
	includeFooter bool
	out           io.Writer // summary lines
	progress      io.Writer // "wrote file" notices, nil when quiet
}

// NewRenderer creates a renderer printing summaries to out. Pass a non-nil
// progress writer to hear about every file written.
func NewRenderer(includeFooter bool, out, progress io.Writer) *Renderer {
	if out == nil {
		out = io.Discard
	}
	return &Renderer{includeFooter: includeFooter, out: out, progress: progress}
}

// Render writes whichever outputs have a path and always prints the summary
func (r *Renderer) Render(report *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := r.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		r.notef("✓ Wrote JSON: %s\n", jsonPath)
	}
	if mdPath != "" {
		if err := r.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		r.notef("✓ Wrote Markdown: %s\n", mdPath)
	}
	r.RenderSummary(report)
	return nil
}

// RenderJSON writes the analyzed claim with report metadata, indented
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes a reviewer-facing report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown formats a report for human reviewers
func (r *Renderer) Markdown(report *model.Report) string {
	claim := report.Claim
	result := report.Result()
	var b strings.Builder

	fmt.Fprintf(&b, "# Claim %s: %s\n\n", claim.ID, result.RecommendedQueue)
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Claimant | %s |\n", mdCell(claim.ClaimantName))
	fmt.Fprintf(&b, "| Policy | %s |\n", mdCell(claim.PolicyNumber))
	fmt.Fprintf(&b, "| Type | %s |\n", claim.Type)
	fmt.Fprintf(&b, "| Incident date | %s |\n", claim.IncidentDate)
	fmt.Fprintf(&b, "| Submitted | %s |\n", claim.SubmittedAt.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "| Location | %s |\n\n", mdCell(claim.Location))

	b.WriteString("## Scores\n\n")
	fmt.Fprintf(&b, "- **Fraud risk:** %d/99 (%s)\n", result.FraudRiskScore, result.RiskLevel)
	fmt.Fprintf(&b, "- **Completeness:** %d/100\n", result.CompletenessScore)
	fmt.Fprintf(&b, "- **Recommended queue:** %s\n", result.RecommendedQueue)
	if report.Cached {
		fmt.Fprintf(&b, "- Served from cache (analyzed %s)\n", report.AnalyzedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	if result.Simulated {
		b.WriteString("- Includes simulated claimant-history signals\n")
	}
	b.WriteString("\n")

	writeList(&b, "Risk factors", result.RiskFactors, "No risk factors detected.")
	writeList(&b, "Completeness issues", result.CompletenessIssues, "No completeness issues.")

	b.WriteString("## Documents\n\n")
	if len(claim.Documents) == 0 {
		b.WriteString("_None uploaded._\n\n")
	} else {
		for _, doc := range claim.Documents {
			ext := doc.Extension()
			if ext == "" {
				ext = "?"
			}
			fmt.Fprintf(&b, "- `%s` (%s, %s)\n", doc.Name, ext, humanBytes(doc.Size))
		}
		b.WriteString("\n")
	}

	if len(result.Contributions) > 0 {
		b.WriteString("## Score breakdown\n\n")
		b.WriteString("| Analyzer | Risk | Completeness | Note |\n|---|---:|---:|---|\n")
		for _, c := range result.Contributions {
			note := ""
			if c.Skipped {
				note = "skipped"
			}
			fmt.Fprintf(&b, "| %s | %+d | %+d | %s |\n", c.Source, c.Risk, c.Completeness, note)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Automated triage by claimsure. Scores are advisory; a human reviewer makes the final decision._\n")
	}
	return b.String()
}

// RenderSummary prints one line per claim
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintln(r.out, Summary(report))
}

// Summary is the one-line form used on stdout and in batch progress
func Summary(report *model.Report) string {
	result := report.Result()
	line := fmt.Sprintf("%s  %-18s risk %2d (%-6s) completeness %3d  factors %d  issues %d",
		report.Claim.ID, result.RecommendedQueue, result.FraudRiskScore, result.RiskLevel,
		result.CompletenessScore, len(result.RiskFactors), len(result.CompletenessIssues))
	if report.Cached {
		line += "  [cached]"
	}
	return line
}

func (r *Renderer) notef(format string, args ...any) {
	if r.progress != nil {
		fmt.Fprintf(r.progress, format, args...)
	}
}

func writeList(b *strings.Builder, title string, items []string, empty string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(items) == 0 {
		fmt.Fprintf(b, "_%s_\n\n", empty)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func mdCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
