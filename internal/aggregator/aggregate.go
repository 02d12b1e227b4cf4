// Package aggregator merges the outputs of the detectors into one report.
package aggregator

import (
	"github.com/ludo-technologies/pysmell/domain"
)

// Aggregate builds the report for one file.
//
// The file is clean only when both structural detectors found nothing, the
// classifier did not fail and the linter emitted its clean marker. A structural
// detector that failed is reported as a single error entry in its list, so it
// counts as a structural hit.
func Aggregate(
	ml domain.MLResult,
	longMethods domain.DetectionResult[domain.LongMethodFinding],
	largeClasses domain.DetectionResult[domain.LargeClassFinding],
	rules []domain.RuleFinding,
) domain.AnalysisReport {
	lm := longMethodEntries(longMethods)
	lc := largeClassEntries(largeClasses)

	if isClean(ml, lm, lc, rules) {
		clean := ReasonFor(domain.SmellCleanCode)
		return domain.AnalysisReport{
			MLResult:     domain.NewMLStatus(domain.StatusCleanCode),
			LongMethods:  []domain.LongMethodFinding{},
			LargeClasses: []domain.LargeClassFinding{},
			RuleBased: []domain.RuleFinding{{
				Category: domain.RuleCategoryClean,
				Type:     domain.RuleTypeCleanCode,
				Details:  "No issues found.",
				Line:     domain.NoLine,
			}},
			Summary: domain.ReportSummary{Reason: clean.Reason, Fix: clean.Fix},
		}
	}

	if rules == nil {
		rules = []domain.RuleFinding{}
	}

	count := len(lm) + len(lc) + len(rules)
	status := domain.StatusMinorIssues
	if len(lm) > 0 || len(lc) > 0 {
		status = domain.StatusSmellsDetected
	}

	return domain.AnalysisReport{
		MLResult:     ml,
		LongMethods:  lm,
		LargeClasses: lc,
		RuleBased:    rules,
		Summary:      domain.ReportSummary{SmellCount: &count, Status: status},
	}
}

func isClean(ml domain.MLResult, lm []domain.LongMethodFinding, lc []domain.LargeClassFinding, rules []domain.RuleFinding) bool {
	if len(lm) > 0 || len(lc) > 0 || ml.HasError() {
		return false
	}
	for _, r := range rules {
		if r.IsCleanMarker() {
			return true
		}
	}
	return false
}

// longMethodEntries attaches reasons to the findings, or turns a failed
// detection into its single error entry.
func longMethodEntries(r domain.DetectionResult[domain.LongMethodFinding]) []domain.LongMethodFinding {
	if r.Err != nil {
		return []domain.LongMethodFinding{{Error: r.Err.Error()}}
	}
	findings := r.Findings
	out := make([]domain.LongMethodFinding, len(findings))
	reason := ReasonFor(domain.SmellLongMethod)
	for i, f := range findings {
		f.Reason = &reason
		out[i] = f
	}
	return out
}

func largeClassEntries(r domain.DetectionResult[domain.LargeClassFinding]) []domain.LargeClassFinding {
	if r.Err != nil {
		return []domain.LargeClassFinding{{Error: r.Err.Error()}}
	}
	findings := r.Findings
	out := make([]domain.LargeClassFinding, len(findings))
	reason := ReasonFor(domain.SmellLargeClass)
	for i, f := range findings {
		f.Reason = &reason
		out[i] = f
	}
	return out
}
