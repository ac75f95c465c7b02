package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/tapeopt/config"
	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

// Check is one named equivalence run.
type Check struct {
	Name   string
	Result Equivalence
}

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Name       string
	Size       int
	LintIssues []Issue
	Stats      optimizer.Stats
	LowerErr   error
	Checks     []Check
	cfg        config.Config
}

// GenerateReport runs lint, the optimizer and an equivalence check on src,
// returns a report
func GenerateReport(name string, src, input []byte, cfg config.Config) *VerificationReport {
	code := program.Sanitize(src)

	report := &VerificationReport{
		Name: name,
		Size: len(code),
		cfg:  cfg,
	}

	report.LintIssues = RunLint(code, cfg.MaxDepth, cfg.TapeSize)

	res, err := optimizer.Lower(code, cfg.Options())
	if err != nil {
		report.LowerErr = err
		return report
	}

	report.Stats = res.Stats
	report.AddCheck(name, code, input)

	return report
}

// AddCheck runs one more equivalence check with the report's settings.
func (r *VerificationReport) AddCheck(name string, code, input []byte) Equivalence {
	res := CheckEquivalence(code, input, r.cfg)
	r.Checks = append(r.Checks, Check{Name: name, Result: res})

	return res
}

// Count returns the number of checks with the given status.
func (r *VerificationReport) Count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Result.Status == s {
			n++
		}
	}

	return n
}

// Passed reports whether the program is well formed and no check found a
// difference.
func (r *VerificationReport) Passed() bool {
	if r.LowerErr != nil || HasErrors(r.LintIssues) {
		return false
	}

	for _, c := range r.Checks {
		if !c.Result.OK() {
			return false
		}
	}

	return true
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s (%d symbols)\n", r.Name, r.Size)
	fmt.Fprintln(w, separator)

	fmt.Fprintln(w, "\nSTAGE 1: STATIC LINT CHECKS")

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Type", "Pos", "Message"})

		for _, issue := range r.LintIssues {
			t.AppendRow(table.Row{issue.Type, issue.Pos, issue.Message})
		}

		t.Render()
	}

	fmt.Fprintln(w, "\nSTAGE 2: OPTIMIZER")

	if r.LowerErr != nil {
		fmt.Fprintf(w, "Lowering failed: %v\n", r.LowerErr)
	} else {
		fmt.Fprintln(w, r.Stats.Table())
	}

	fmt.Fprintln(w, "\nSTAGE 3: EQUIVALENCE")

	if len(r.Checks) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Program", "Status", "Ref steps", "Opt steps", "Folded", "Reason"})

		for _, c := range r.Checks {
			t.AppendRow(table.Row{
				c.Name, c.Result.Status, c.Result.RefSteps, c.Result.OptSteps,
				c.Result.Folded, c.Result.Reason,
			})
		}

		t.AppendFooter(table.Row{
			"total", len(r.Checks),
			fmt.Sprintf("%d equal", r.Count(StatusEqual)),
			fmt.Sprintf("%d inconclusive", r.Count(StatusInconclusive)),
			fmt.Sprintf("%d mismatch", r.Count(StatusMismatch)),
			fmt.Sprintf("%d error", r.Count(StatusError)),
		})
		t.Render()
	}

	fmt.Fprintln(w, "\n"+separator)

	if r.Passed() {
		fmt.Fprintln(w, "PASSED")
	} else {
		fmt.Fprintln(w, "FAILED")
	}

	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
