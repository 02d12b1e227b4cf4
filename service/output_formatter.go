package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/pysmell/domain"
)

// OutputFormatterImpl renders detection, location and stored reports.
type OutputFormatterImpl struct {
	noColor bool
}

// NewOutputFormatter creates a new output formatter service
func NewOutputFormatter(noColor bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{noColor: noColor}
}

// Format formats the detection response according to the specified format
func (f *OutputFormatterImpl) Format(response *domain.DetectResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(response), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// Write writes the formatted output to the writer
func (f *OutputFormatterImpl) Write(response *domain.DetectResponse, format domain.OutputFormat, writer io.Writer) error {
	output, err := f.Format(response, format)
	if err != nil {
		return err
	}
	return writeString(writer, output)
}

// FormatLocate formats a structural-only response.
func (f *OutputFormatterImpl) FormatLocate(response *domain.LocateResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatLocateText(response), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteLocate writes a structural-only response.
func (f *OutputFormatterImpl) WriteLocate(response *domain.LocateResponse, format domain.OutputFormat, writer io.Writer) error {
	output, err := f.FormatLocate(response, format)
	if err != nil {
		return err
	}
	return writeString(writer, output)
}

// FormatStored formats a report read back from the results directory.
func (f *OutputFormatterImpl) FormatStored(stored *domain.StoredReport, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		var builder strings.Builder
		utils := NewFormatUtils(f.noColor)
		builder.WriteString(utils.FormatMainHeader("Stored Smell Report"))
		builder.WriteString(utils.FormatLabel("File", stored.File))
		builder.WriteString(utils.FormatLabel("Report ID", stored.ID))
		builder.WriteString(utils.FormatLabel("Generated", stored.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
		builder.WriteString(utils.FormatLabel("Version", stored.Version))
		if stored.Stale {
			builder.WriteString(utils.Warning("\nThe source file changed since this report was generated.\n"))
		}
		builder.WriteString("\n")
		builder.WriteString(f.formatReport(utils, stored.File, stored.Report))
		return builder.String(), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(storedView(stored))
	case domain.OutputFormatYAML:
		return EncodeYAML(storedView(stored))
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// storedView exposes the load-time fields that the envelope itself omits.
func storedView(stored *domain.StoredReport) interface{} {
	return struct {
		domain.StoredReport `yaml:",inline"`
		Stale               bool   `json:"stale" yaml:"stale"`
		Path                string `json:"path" yaml:"path"`
	}{*stored, stored.Stale, stored.Path}
}

// FormatAccuracies formats the training accuracy table. JSON and YAML keep
// the summary's order as an object keyed by model name.
func (f *OutputFormatterImpl) FormatAccuracies(table domain.AccuracyTable, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		utils := NewFormatUtils(f.noColor)
		var builder strings.Builder
		builder.WriteString(utils.FormatMainHeader("Model Accuracies"))
		if len(table) == 0 {
			builder.WriteString(utils.Warning("No accuracies recorded. Train the models first.") + "\n")
			return builder.String(), nil
		}
		best, _ := table.Best()
		for _, row := range table {
			line := fmt.Sprintf("%-20s: %6.2f%%", row.Model, row.Accuracy)
			if row.Model == best.Model {
				line += "  (best)"
			}
			builder.WriteString(line + "\n")
		}
		return builder.String(), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(table)
	case domain.OutputFormatYAML:
		return EncodeYAML([]domain.ModelAccuracy(table))
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *OutputFormatterImpl) formatText(response *domain.DetectResponse) string {
	var builder strings.Builder
	utils := NewFormatUtils(f.noColor)

	builder.WriteString(utils.FormatMainHeader("Code Smell Report"))

	for _, file := range response.Files {
		if file.Error != "" {
			builder.WriteString(fmt.Sprintf("%s: %s\n", file.File, utils.Error("failed")))
			builder.WriteString(utils.Indent(file.Error, ItemPadding))
			builder.WriteString("\n")
			continue
		}
		builder.WriteString(f.formatReport(utils, file.File, file.Report))
		if file.ReportPath != "" {
			builder.WriteString(utils.Indent("Saved: "+file.ReportPath, ItemPadding))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(utils.FormatSectionHeader("Summary"))
	builder.WriteString(utils.FormatLabel("Files", response.Summary.TotalFiles))
	builder.WriteString(utils.FormatLabel("Clean", response.Summary.CleanFiles))
	builder.WriteString(utils.FormatLabel("With smells", response.Summary.SmellyFiles))
	if response.Summary.FailedFiles > 0 {
		builder.WriteString(utils.FormatLabel("Failed", response.Summary.FailedFiles))
	}
	builder.WriteString(utils.FormatLabel("Total smells", response.Summary.TotalSmells))
	return builder.String()
}

// formatReport renders one file's verdict.
func (f *OutputFormatterImpl) formatReport(utils *FormatUtils, file string, report domain.AnalysisReport) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s: %s\n", file, utils.FormatStatus(report.Status())))

	pad := strings.Repeat(" ", ItemPadding)
	if report.IsClean() {
		builder.WriteString(pad + report.Summary.Reason + "\n")
		builder.WriteString(pad + "Fix: " + report.Summary.Fix + "\n")
		builder.WriteString(utils.FormatWarningsSection(report.Warnings))
		return builder.String()
	}

	builder.WriteString(pad + "Model: " + formatML(report.MLResult) + "\n")

	if len(report.LongMethods) > 0 {
		builder.WriteString(pad + "Long methods:\n")
		for _, m := range report.LongMethods {
			if m.IsError() {
				builder.WriteString(fmt.Sprintf("%s  - error: %s\n", pad, m.Error))
				continue
			}
			builder.WriteString(fmt.Sprintf("%s  - %s (lines %d-%d, %d lines)\n", pad, m.Function, m.Start, m.End, m.Length))
		}
	}
	if len(report.LargeClasses) > 0 {
		builder.WriteString(pad + "Large classes:\n")
		for _, c := range report.LargeClasses {
			if c.IsError() {
				builder.WriteString(fmt.Sprintf("%s  - error: %s\n", pad, c.Error))
				continue
			}
			builder.WriteString(fmt.Sprintf("%s  - %s (lines %d-%d, %d lines, %d methods)\n", pad, c.Class, c.Start, c.End, c.Lines, c.NumMethods))
		}
	}
	if len(report.RuleBased) > 0 {
		builder.WriteString(pad + "Linter:\n")
		for _, r := range report.RuleBased {
			builder.WriteString(fmt.Sprintf("%s  - line %s [%s] %s: %s\n", pad, r.Line, r.Category, r.Type, r.Details))
		}
	}
	if report.Summary.SmellCount != nil {
		builder.WriteString(fmt.Sprintf("%sSmells: %d\n", pad, *report.Summary.SmellCount))
	}
	builder.WriteString(utils.FormatWarningsSection(report.Warnings))
	return builder.String()
}

func formatML(ml domain.MLResult) string {
	switch {
	case ml.Err != nil:
		return fmt.Sprintf("%s (%s). %s", ml.Err.Explanation.Title, ml.Err.Explanation.Reason, ml.Err.Explanation.Fix)
	case ml.Prediction != nil:
		return fmt.Sprintf("%s predicts %s (%.2f%% accuracy)", ml.Model, ml.Prediction.Prediction, ml.Prediction.Accuracy)
	case ml.Status != "":
		return ml.Status
	default:
		return "no prediction"
	}
}

func (f *OutputFormatterImpl) formatLocateText(response *domain.LocateResponse) string {
	var builder strings.Builder
	utils := NewFormatUtils(f.noColor)
	pad := strings.Repeat(" ", ItemPadding)

	builder.WriteString(utils.FormatMainHeader("Structural Smell Report"))
	builder.WriteString(utils.FormatLabel("Method lines", response.Thresholds.LongMethodLines))
	builder.WriteString(utils.FormatLabel("Class methods", response.Thresholds.ClassMethods))
	builder.WriteString(utils.FormatLabel("Class lines", response.Thresholds.ClassLines))
	builder.WriteString("\n")

	total := 0
	for _, file := range response.Files {
		found := len(file.LongMethods) + len(file.LargeClasses)
		total += found
		status := domain.StatusCleanCode
		if found > 0 {
			status = domain.StatusSmellsDetected
		}
		builder.WriteString(fmt.Sprintf("%s: %s\n", file.File, utils.FormatStatus(status)))
		for _, m := range file.LongMethods {
			builder.WriteString(fmt.Sprintf("%sLong method %s (lines %d-%d, %d lines)\n", pad, m.Function, m.Start, m.End, m.Length))
		}
		for _, c := range file.LargeClasses {
			builder.WriteString(fmt.Sprintf("%sLarge class %s (lines %d-%d, %d lines, %d methods)\n", pad, c.Class, c.Start, c.End, c.Lines, c.NumMethods))
		}
		for _, e := range file.Errors {
			builder.WriteString(pad + utils.Error(e) + "\n")
		}
	}

	builder.WriteString(utils.FormatSectionHeader("Summary"))
	builder.WriteString(utils.FormatLabel("Files", len(response.Files)))
	builder.WriteString(utils.FormatLabel("Findings", total))
	return builder.String()
}

func writeString(writer io.Writer, output string) error {
	if _, err := io.WriteString(writer, output); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

var _ domain.DetectFormatter = (*OutputFormatterImpl)(nil)
