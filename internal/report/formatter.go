// Package report renders analysis results and errors for terminal display.
package report

import (
	"errors"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/cli"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/common"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/model"
)

// Formatter renders AnalysisRecords as styled terminal output.
type Formatter struct {
	width int
}

// NewFormatter creates a formatter. Width bounds section boxes; zero means
// a sensible default.
func NewFormatter(width int) *Formatter {
	if width <= 0 {
		width = 76
	}
	return &Formatter{width: width}
}

// Format renders the full analysis report.
func (f *Formatter) Format(record model.AnalysisRecord) string {
	var sb strings.Builder

	sb.WriteString(cli.FormatTitle("Chart Analysis"))
	sb.WriteString("\n\n")

	sections := record.Sections()
	if record.IsEmpty() {
		sb.WriteString(cli.SubtleStyle.Render("The model returned no analysis for any category."))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, section := range sections {
		sb.WriteString(f.renderSection(section.Title, section.Body))
		sb.WriteString("\n")
	}

	if len(record.Extra) > 0 {
		keys := make([]string, 0, len(record.Extra))
		for k := range record.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			sb.WriteString(f.renderSection(titleize(k), record.Extra[k]))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (f *Formatter) renderSection(title, body string) string {
	heading := cli.BoldStyle.Foreground(cli.PrimaryColor).Render(title)
	text := lipgloss.NewStyle().Width(f.width).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, heading, text)
}

// titleize turns a snake_case model key into a display heading.
func titleize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ErrorMessage maps a classified orchestration error to a user-facing
// message, and reports whether the credential-entry affordance should be
// shown again.
func ErrorMessage(err error) (message string, reenterCredential bool) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return "Please enter a valid, non-empty API key.", true
	case errors.Is(err, common.ErrClientConstruction):
		return "The API key could not be used to reach the analysis service. Check the key and try again.", true
	case errors.Is(err, common.ErrNotAuthenticated):
		return "No API key is configured. Run 'chartai auth set' first.", true
	case errors.Is(err, common.ErrRemoteAuthRejected):
		return "The analysis service rejected your API key. Please enter a new one.", true
	case errors.Is(err, common.ErrQuotaExceeded):
		return "Your API quota is exhausted. Try again later or check your plan.", false
	case errors.Is(err, common.ErrEmptyResponse):
		return "The model returned an empty reply. Try again with the same or a clearer image.", false
	case errors.Is(err, common.ErrMalformedAnalysis):
		return "The model reply could not be understood. Try again.", false
	case errors.Is(err, common.ErrAnalysisInFlight):
		return "An analysis is already running. Wait for it to finish.", false
	default:
		return "The analysis request failed. Check your connection and try again.", false
	}
}
