package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a user-supplied format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return OutputFormat(s), nil
	default:
		return "", NewUnsupportedFormatError(s)
	}
}

// Thresholds drives the structural detectors.
type Thresholds struct {
	LongMethodLines int `json:"long_method_lines" yaml:"long_method_lines"`
	ClassMethods    int `json:"class_methods" yaml:"class_methods"`
	ClassLines      int `json:"class_lines" yaml:"class_lines"`
}

// DetectRequest represents a request for smell detection
type DetectRequest struct {
	// Input files or directories
	Paths           []string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Output
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	NoColor      bool

	Thresholds Thresholds

	// Concurrency is the number of files analyzed at once; values below 1 mean the CPU count.
	Concurrency int
}

// FileAnalysis is the outcome for one analyzed file.
type FileAnalysis struct {
	File       string         `json:"file" yaml:"file"`
	ReportID   string         `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	ReportPath string         `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	Features   FeatureVector  `json:"features,omitempty" yaml:"features,omitempty"`
	Report     AnalysisReport `json:"report" yaml:"report"`
	// Error is set when the file could not be analyzed at all (for example, unreadable).
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DetectSummary aggregates outcomes across files.
type DetectSummary struct {
	TotalFiles  int `json:"total_files" yaml:"total_files"`
	CleanFiles  int `json:"clean_files" yaml:"clean_files"`
	SmellyFiles int `json:"smelly_files" yaml:"smelly_files"`
	FailedFiles int `json:"failed_files" yaml:"failed_files"`
	TotalSmells int `json:"total_smells" yaml:"total_smells"`
}

// DetectResponse represents the complete detection result
type DetectResponse struct {
	Files       []FileAnalysis `json:"files" yaml:"files"`
	Summary     DetectSummary  `json:"summary" yaml:"summary"`
	GeneratedAt string         `json:"generated_at" yaml:"generated_at"`
	Version     string         `json:"version" yaml:"version"`
}

// MetricExtractor computes the training-schema features of Python source.
type MetricExtractor interface {
	Extract(ctx context.Context, source []byte) (FeatureVector, error)
}

// SmellLocator finds structural smells in Python source.
type SmellLocator interface {
	FindLongMethods(ctx context.Context, source []byte, threshold int) DetectionResult[LongMethodFinding]
	FindLargeClasses(ctx context.Context, source []byte, methodThreshold, lineThreshold int) DetectionResult[LargeClassFinding]
}

// RuleChecker runs an external linter over a file. It never fails; faults become records.
type RuleChecker interface {
	Check(ctx context.Context, filePath string) []RuleFinding
}

// SmellService analyzes one file end to end.
type SmellService interface {
	AnalyzeFile(ctx context.Context, filePath string, thresholds Thresholds) (*FileAnalysis, error)
}

// StoredReport is the persisted envelope around an AnalysisReport.
type StoredReport struct {
	ID           string         `json:"id" yaml:"id"`
	File         string         `json:"file" yaml:"file"`
	SourceDigest string         `json:"source_digest" yaml:"source_digest"`
	GeneratedAt  time.Time      `json:"generated_at" yaml:"generated_at"`
	Version      string         `json:"version" yaml:"version"`
	Report       AnalysisReport `json:"report" yaml:"report"`

	// Set on load when the source file changed since the report was written.
	Stale bool `json:"-" yaml:"-"`
	// Path of the report file.
	Path string `json:"-" yaml:"-"`
}

// ReportStore persists one report per analyzed file.
type ReportStore interface {
	Save(file string, source []byte, report AnalysisReport) (*StoredReport, error)
	Load(name string) (*StoredReport, error)
}

// FileReader defines the interface for reading and collecting Python files
type FileReader interface {
	// CollectPythonFiles recursively finds all Python files in the given paths
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsValidPythonFile checks if a file is a valid Python file
	IsValidPythonFile(path string) bool
}

// DetectFormatter renders detection results.
type DetectFormatter interface {
	Format(response *DetectResponse, format OutputFormat) (string, error)
	Write(response *DetectResponse, format OutputFormat, writer io.Writer) error
}

// LocateRequest asks for the structural detectors only.
type LocateRequest struct {
	Paths           []string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	NoColor      bool

	Thresholds Thresholds
}

// LocateFile holds the structural findings for one file.
type LocateFile struct {
	File         string              `json:"file" yaml:"file"`
	LongMethods  []LongMethodFinding `json:"long_methods" yaml:"long_methods"`
	LargeClasses []LargeClassFinding `json:"large_classes" yaml:"large_classes"`
	Errors       []string            `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// LocateResponse is the structural report across files.
type LocateResponse struct {
	Files       []LocateFile `json:"files" yaml:"files"`
	Thresholds  Thresholds   `json:"thresholds" yaml:"thresholds"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	Version     string       `json:"version" yaml:"version"`
}

// ExplainMode selects the AI assistance requested.
type ExplainMode string

const (
	ExplainModeExplain  ExplainMode = "explain"
	ExplainModeOptimize ExplainMode = "optimize"
	ExplainModeRefactor ExplainMode = "refactor"
)

// ExplainRequest is a snippet sent to the AI assistant.
type ExplainRequest struct {
	Code  string
	Mode  ExplainMode
	Smell string
}

// Explainer asks a generative model about code. It never fails; errors are folded into the text.
type Explainer interface {
	Explain(ctx context.Context, req ExplainRequest) string
}
