package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/autovault/internal/abs"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	singleLine = "───────────────────────────────────────────────────────────"
	doubleLine = "═══════════════════════════════════════════════════════════"
)

// PrintHeader prints a boxed command header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, singleLine)
}

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, singleLine)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintList prints a bulleted list
func PrintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "   • %s\n", item)
	}
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(w io.Writer, values []string, widths []int) {
	for i, val := range values {
		fmt.Fprintf(w, "%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)
}

// poolColumns is the table layout shared by analyze and reports show
var (
	poolColumns = []string{"Pool", "Loans", "Principal", "Base EL%", "Stress EL%", "Rating", "A/B/C"}
	poolWidths  = []int{24, 6, 16, 9, 10, 7, 10}
)

// poolRow renders one analysis result as a table row
func poolRow(label string, r *abs.AnalysisResult) []string {
	row := []string{label, "-", "-", "-", "-", "-", "-"}
	if r == nil {
		return row
	}

	if r.PoolSummary != nil {
		row[1] = fmt.Sprintf("%d", r.PoolSummary.LoanCount)
		if r.PoolSummary.Valid() {
			row[2] = fmt.Sprintf("%.2f", r.PoolSummary.TotalPrincipalUSD)
		} else {
			row[2] = r.PoolSummary.Error
		}
	}
	if r.CreditRisk != nil {
		row[3] = fmt.Sprintf("%.4f", r.CreditRisk.BaseExpectedLossPct)
		row[4] = fmt.Sprintf("%.4f", r.CreditRisk.StressExpectedLossPct)
	}
	if t := r.RecommendedTrancheStructure; t != nil {
		row[5] = t.RatingImplied
		row[6] = fmt.Sprintf("%d/%d/%d", t.SeniorClassAPct, t.MezzanineClassBPct, t.EquityClassCPct)
	}
	return row
}

// poolLabel names a per-pool result by its source
func poolLabel(r *abs.AnalysisResult) string {
	label := r.DatasetName
	if label == "" {
		label = "request"
	}
	if r.InternalPoolIndex != nil {
		label = fmt.Sprintf("%s#%d", label, *r.InternalPoolIndex)
	}
	if len(label) > poolWidths[0] {
		label = "…" + label[len(label)-poolWidths[0]+1:]
	}
	return label
}
