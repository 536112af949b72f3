// Package report shapes a coverage analysis into the record consumed by
// downstream reporting: a summary, an enumerable gap list, and the full
// matrix as rows.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sw33tLie/formgap/pkg/coverage"
)

// Summary holds the aggregate counts of one analysis run.
type Summary struct {
	Dim1          string  `json:"dim1"`
	Dim2          string  `json:"dim2,omitempty"`
	Total         int     `json:"total"`
	Covered       int     `json:"covered"`
	Gaps          int     `json:"gaps"`
	NotApplicable int     `json:"notApplicable"`
	CoveragePct   float64 `json:"coveragePct"`
	Status        string  `json:"status,omitempty"`
}

// GapEntry is one uncovered, reachable combination.
type GapEntry struct {
	Dim1Value string `json:"dim1Value"`
	Dim2Value string `json:"dim2Value,omitempty"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// MatrixRow is one cell of the full matrix.
type MatrixRow struct {
	Dim1Value string   `json:"dim1Value"`
	Dim2Value string   `json:"dim2Value,omitempty"`
	Workflows []string `json:"workflows,omitempty"`
	Count     int      `json:"count"`
	Class     string   `json:"class"`
}

// Report is the full output artifact of one coverage analysis.
type Report struct {
	Summary Summary     `json:"summary"`
	Gaps    []GapEntry  `json:"gaps"`
	Matrix  []MatrixRow `json:"matrix"`
}

// Build converts an analysis into its report form. A gap is severity high
// when its whole first-dimension row has no coverage at all, medium
// otherwise.
func Build(a *coverage.Analysis) *Report {
	r := &Report{Summary: Summary{
		Total:         a.Total,
		Covered:       a.Covered,
		Gaps:          a.Gaps,
		NotApplicable: a.NotApplicable,
		CoveragePct:   a.CoveragePct,
		Status:        a.Status,
	}}
	if len(a.Dimensions) > 0 {
		r.Summary.Dim1 = a.Dimensions[0].FieldKey
	}
	if len(a.Dimensions) > 1 {
		r.Summary.Dim2 = a.Dimensions[1].FieldKey
	}

	rowCovered := map[string]bool{}
	for _, c := range a.Cells {
		if c.Class == coverage.ClassCovered {
			rowCovered[c.Dim1Value] = true
		}
	}

	for _, c := range a.Cells {
		r.Matrix = append(r.Matrix, MatrixRow{
			Dim1Value: c.Dim1Value,
			Dim2Value: c.Dim2Value,
			Workflows: c.Workflows,
			Count:     len(c.Workflows),
			Class:     string(c.Class),
		})
		if c.Class != coverage.ClassGap {
			continue
		}
		severity := "medium"
		if !rowCovered[c.Dim1Value] {
			severity = "high"
		}
		r.Gaps = append(r.Gaps, GapEntry{
			Dim1Value: c.Dim1Value,
			Dim2Value: c.Dim2Value,
			Severity:  severity,
			Message:   gapMessage(r.Summary, c),
		})
	}
	return r
}

func gapMessage(s Summary, c coverage.Cell) string {
	if c.Dim2Value == "" {
		return fmt.Sprintf("no workflow handles %s=%q", s.Dim1, c.Dim1Value)
	}
	return fmt.Sprintf("no workflow handles %s=%q with %s=%q", s.Dim1, c.Dim1Value, s.Dim2, c.Dim2Value)
}

// Print renders the report as tabwriter tables.
func (r *Report) Print(out io.Writer) {
	if r.Summary.Status != "" {
		fmt.Fprintln(out, r.Summary.Status)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "TOTAL\tCOVERED\tGAPS\tN/A\tCOVERAGE\t")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.1f%%\t\n", r.Summary.Total, r.Summary.Covered, r.Summary.Gaps, r.Summary.NotApplicable, r.Summary.CoveragePct)
	w.Flush()

	if len(r.Gaps) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		header := strings.ToUpper(r.Summary.Dim1) + "\t" + strings.ToUpper(r.Summary.Dim2) + "\tSEVERITY\tMESSAGE\t"
		fmt.Fprintln(w, header)
		for _, g := range r.Gaps {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", g.Dim1Value, g.Dim2Value, g.Severity, g.Message)
		}
		w.Flush()
	}
}

// PrintMatrix renders the full matrix, one row per cell.
func (r *Report) PrintMatrix(out io.Writer) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(r.Summary.Dim1)+"\t"+strings.ToUpper(r.Summary.Dim2)+"\tCLASS\tCOUNT\tWORKFLOWS\t")
	for _, row := range r.Matrix {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t\n", row.Dim1Value, row.Dim2Value, row.Class, row.Count, strings.Join(row.Workflows, ", "))
	}
	w.Flush()
}
