// Package classifier runs the trained smell-classification models against a file.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/pysmell/domain"
	"go.uber.org/zap"
)

// Runtime selects the most accurate trained model and predicts with it.
// Artifacts are reloaded on every call, so retraining takes effect without restart.
type Runtime struct {
	modelsDir   string
	summaryPath string
	extractor   domain.MetricExtractor
	logger      *zap.Logger
}

// NewRuntime creates a runtime reading models from modelsDir and the training
// summary from resultsDir.
func NewRuntime(modelsDir, resultsDir string, extractor domain.MetricExtractor, logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runtime{
		modelsDir:   modelsDir,
		summaryPath: filepath.Join(resultsDir, TrainingSummary),
		extractor:   extractor,
		logger:      logger,
	}
}

// Accuracies returns the accuracy table from the training summary.
func (r *Runtime) Accuracies(ctx context.Context) (domain.AccuracyTable, error) {
	table, err := LoadAccuracyTable(r.summaryPath)
	if err != nil {
		return nil, domain.NewModelNotConfiguredError("failed to read training summary", err)
	}
	if len(table) == 0 {
		r.logger.Warn("no model accuracies recorded", zap.String("summary", r.summaryPath))
	}
	return table, nil
}

// Predict classifies the file at filePath with the best model. It never panics;
// every failure is returned as an MLResult carrying an explanation.
func (r *Runtime) Predict(ctx context.Context, filePath string) (result domain.MLResult) {
	table, err := LoadAccuracyTable(r.summaryPath)
	if err != nil {
		r.logger.Warn("training summary unreadable", zap.String("summary", r.summaryPath), zap.Error(err))
	}
	best, ok := table.Best()
	if !ok {
		return accuracyMissing()
	}

	kind, ok := domain.ModelKindFromName(best.Model)
	if !ok {
		return bestModelMissing(best.Model)
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("prediction panicked", zap.String("file", filePath), zap.String("panic", fmt.Sprint(p)))
			result = predictionFailed(fmt.Errorf("%v", p))
		}
	}()

	pred, err := r.predict(ctx, filePath, kind)
	if err != nil {
		r.logger.Warn("prediction failed",
			zap.String("file", filePath),
			zap.String("model", best.Model),
			zap.Error(err))
		if domain.ErrorCode(err) == domain.ErrCodeModelNotConfigured {
			return modelNotFound()
		}
		return predictionFailed(err)
	}

	r.logger.Debug("prediction complete",
		zap.String("file", filePath),
		zap.String("model", best.Model),
		zap.String("prediction", pred))
	return domain.NewMLPrediction(best.Model, pred, best.Accuracy)
}

func (r *Runtime) predict(ctx context.Context, filePath string, kind domain.ModelKind) (string, error) {
	columns, err := LoadFeatureColumns(r.modelsDir)
	if err != nil {
		return "", artifactError(err)
	}
	model, err := LoadModel(filepath.Join(r.modelsDir, kind.ArtifactFile()), kind, len(columns))
	if err != nil {
		return "", artifactError(err)
	}
	labels, err := LoadLabelEncoder(r.modelsDir)
	if err != nil {
		return "", artifactError(err)
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	features, err := r.extractor.Extract(ctx, source)
	if err != nil {
		return "", err
	}

	label, err := model.Predict(features.Align(columns))
	if err != nil {
		return "", err
	}
	return labels.Decode(label), nil
}

// artifactError marks missing artifacts as MODEL_NOT_CONFIGURED; other
// artifact faults pass through as prediction failures.
func artifactError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewModelNotConfiguredError("model artifact not found", err)
	}
	return err
}

func accuracyMissing() domain.MLResult {
	return domain.NewMLError(domain.ErrCodeModelNotConfigured, domain.MLExplanation{
		Title:  "Accuracy information not found",
		Reason: "The `training_summary.txt` file is missing or empty.",
		Fix:    "Please train the models first and write the training summary to the results directory.",
	})
}

func bestModelMissing(name string) domain.MLResult {
	return domain.NewMLError(domain.ErrCodeModelArtifactMissing, domain.MLExplanation{
		Title:  "Best model not found",
		Reason: fmt.Sprintf("The best model '%s' does not have a corresponding model file.", name),
		Fix: fmt.Sprintf("Ensure the model names in `training_summary.txt` are one of: %s.",
			strings.Join(domain.KnownModelNames(), ", ")),
	})
}

func modelNotFound() domain.MLResult {
	return domain.NewMLError(domain.ErrCodeModelNotConfigured, domain.MLExplanation{
		Title:  "ML Model Not Found",
		Reason: "One or more of the required model files are missing from the models directory.",
		Fix:    "Please train the models first. Training generates the model, feature column and label encoder files.",
	})
}

func predictionFailed(err error) domain.MLResult {
	return domain.NewMLError(domain.ErrCodePredictionFailed, domain.MLExplanation{
		Title:  "Prediction Failed",
		Reason: err.Error(),
		Fix:    "This could be due to an issue with the input file or a problem with the trained model. Check the file for syntax errors and consider retraining the models.",
	})
}

var _ domain.SmellClassifier = (*Runtime)(nil)
