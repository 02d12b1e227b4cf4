package app

import (
	"context"
	"io"

	"github.com/ludo-technologies/pysmell/domain"
)

// StoredReportFormatter renders saved reports and the accuracy table.
type StoredReportFormatter interface {
	FormatStored(stored *domain.StoredReport, format domain.OutputFormat) (string, error)
	FormatAccuracies(table domain.AccuracyTable, format domain.OutputFormat) (string, error)
}

// ReportUseCase reads back saved reports and training accuracies.
type ReportUseCase struct {
	store      domain.ReportStore
	classifier domain.SmellClassifier
	formatter  StoredReportFormatter
	output     domain.ReportWriter
}

// NewReportUseCase creates a new report use case
func NewReportUseCase(
	store domain.ReportStore,
	classifier domain.SmellClassifier,
	formatter StoredReportFormatter,
	output domain.ReportWriter,
) *ReportUseCase {
	return &ReportUseCase{store: store, classifier: classifier, formatter: formatter, output: output}
}

// Show writes the saved report for name, the analyzed file's path or base name.
func (uc *ReportUseCase) Show(name string, format domain.OutputFormat, writer io.Writer, outputPath string) (*domain.StoredReport, error) {
	if name == "" {
		return nil, domain.NewInvalidInputError("report name is required", nil)
	}
	stored, err := uc.store.Load(name)
	if err != nil {
		return nil, err
	}
	text, err := uc.formatter.FormatStored(stored, format)
	if err != nil {
		return nil, err
	}
	return stored, uc.output.Write(writer, outputPath, format, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

// Accuracies writes the accuracy of every trained model.
func (uc *ReportUseCase) Accuracies(ctx context.Context, format domain.OutputFormat, writer io.Writer, outputPath string) (domain.AccuracyTable, error) {
	table, err := uc.classifier.Accuracies(ctx)
	if err != nil {
		return nil, err
	}
	text, err := uc.formatter.FormatAccuracies(table, format)
	if err != nil {
		return nil, err
	}
	return table, uc.output.Write(writer, outputPath, format, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}
