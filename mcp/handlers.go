package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ludo-technologies/pysmell/app"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/service"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = &Dependencies{config: config.DefaultConfig(), logger: zap.NewNop()}
	}
	return &HandlerSet{deps: deps}
}

// HandleDetectSmells handles the detect_smells tool
func (h *HandlerSet) HandleDetectSmells(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}

	cfg := h.snapshot()
	thresholds, err := thresholdsFrom(args, cfg.Analysis)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	save := boolArg(args, "save", false)

	components := h.deps.components(cfg, save)
	useCase, err := components.DetectUseCase(nil, h.deps.logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create detector: %v", err)), nil
	}

	result, err := useCase.Execute(ctx, domain.DetectRequest{
		Paths:           []string{path},
		Recursive:       boolArg(args, "recursive", cfg.Input.Recursive),
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
		OutputFormat:    domain.OutputFormatJSON,
		OutputWriter:    io.Discard,
		Thresholds:      thresholds,
		Concurrency:     cfg.Output.Concurrency,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("detection failed: %v", err)), nil
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok && om != "" {
		outputMode = om
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = result
	case "summary":
		responseData = summarizeDetect(result)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown output_mode %q (use summary or full)", outputMode)), nil
	}
	return jsonResult(responseData)
}

// HandleLocateSmells handles the locate_smells tool
func (h *HandlerSet) HandleLocateSmells(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}

	cfg := h.snapshot()
	thresholds, err := thresholdsFrom(args, cfg.Locator)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	useCase := h.deps.components(cfg, false).LocateUseCase(h.deps.logger)
	result, err := useCase.Execute(ctx, domain.LocateRequest{
		Paths:           []string{path},
		Recursive:       cfg.Input.Recursive,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,
		OutputFormat:    domain.OutputFormatJSON,
		OutputWriter:    io.Discard,
		Thresholds:      thresholds,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("location failed: %v", err)), nil
	}
	return jsonResult(result)
}

// HandleModelAccuracies handles the model_accuracies tool
func (h *HandlerSet) HandleModelAccuracies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	components := h.deps.components(h.snapshot(), false)
	table, err := components.Classifier.Accuracies(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := map[string]interface{}{"accuracies": table}
	if best, ok := table.Best(); ok {
		response["best_model"] = best.Model
	}
	return jsonResult(response)
}

// HandleGetReport handles the get_report tool
func (h *HandlerSet) HandleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	file, ok := args["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file parameter is required and must be a string"), nil
	}

	store := service.NewFileReportStore(h.deps.config.Model.ResultsDir, "")
	stored, err := store.Load(file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"id":           stored.ID,
		"file":         stored.File,
		"generated_at": stored.GeneratedAt,
		"version":      stored.Version,
		"stale":        stored.Stale,
		"report":       stored.Report,
	})
}

// HandleExplainCode handles the explain_code tool
func (h *HandlerSet) HandleExplainCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	code, _ := args["code"].(string)
	mode, _ := args["mode"].(string)
	smell, _ := args["smell"].(string)
	if h.deps.explainer == nil {
		return mcp.NewToolResultError("AI explanation is not configured"), nil
	}

	answer, err := app.NewExplainUseCase(h.deps.explainer, service.NewFileReader()).Execute(ctx, app.ExplainInput{
		Code:  code,
		Mode:  domain.ExplainMode(strings.ToLower(mode)),
		Smell: smell,
	})
	if err != nil {
		if domain.ErrorCode(err) == domain.ErrCodeInvalidInput && strings.TrimSpace(code) == "" {
			return mcp.NewToolResultError(app.NoCodeMessage), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(answer), nil
}

// snapshot copies the configuration so per-call overrides do not leak.
func (h *HandlerSet) snapshot() *config.Config {
	cfg := *h.deps.config
	return &cfg
}

func requirePath(args map[string]interface{}) (string, *mcp.CallToolResult) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", mcp.NewToolResultError("path parameter is required and must be a string")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}
	return path, nil
}

// thresholdsFrom applies numeric arguments over the configured thresholds.
func thresholdsFrom(args map[string]interface{}, base config.ThresholdConfig) (domain.Thresholds, error) {
	t := base.Thresholds()
	for name, dst := range map[string]*int{
		"long_method_lines": &t.LongMethodLines,
		"class_methods":     &t.ClassMethods,
		"class_lines":       &t.ClassLines,
	} {
		raw, ok := args[name]
		if !ok {
			continue
		}
		f, ok := raw.(float64)
		if !ok {
			return t, fmt.Errorf("%s must be a number", name)
		}
		if f < 1 {
			return t, fmt.Errorf("%s must be at least 1", name)
		}
		*dst = int(f)
	}
	return t, nil
}

func boolArg(args map[string]interface{}, name string, def bool) bool {
	if b, ok := args[name].(bool); ok {
		return b
	}
	return def
}

// summarizeDetect keeps the status and counts of each file.
func summarizeDetect(result *domain.DetectResponse) map[string]interface{} {
	type fileSummary struct {
		File         string   `json:"file"`
		Status       string   `json:"status,omitempty"`
		SmellCount   int      `json:"smell_count"`
		LongMethods  []string `json:"long_methods,omitempty"`
		LargeClasses []string `json:"large_classes,omitempty"`
		Prediction   string   `json:"prediction,omitempty"`
		ReportPath   string   `json:"report_path,omitempty"`
		Error        string   `json:"error,omitempty"`
	}

	files := make([]fileSummary, 0, len(result.Files))
	for _, f := range result.Files {
		s := fileSummary{File: f.File, ReportPath: f.ReportPath, Error: f.Error}
		if f.Error == "" {
			s.Status = f.Report.Status()
			if f.Report.Summary.SmellCount != nil {
				s.SmellCount = *f.Report.Summary.SmellCount
			}
			for _, m := range f.Report.LongMethods {
				if m.IsError() {
					s.LongMethods = append(s.LongMethods, "error: "+m.Error)
					continue
				}
				s.LongMethods = append(s.LongMethods, fmt.Sprintf("%s (lines %d-%d)", m.Function, m.Start, m.End))
			}
			for _, c := range f.Report.LargeClasses {
				if c.IsError() {
					s.LargeClasses = append(s.LargeClasses, "error: "+c.Error)
					continue
				}
				s.LargeClasses = append(s.LargeClasses, fmt.Sprintf("%s (lines %d-%d)", c.Class, c.Start, c.End))
			}
			if ml := f.Report.MLResult; ml.Prediction != nil {
				s.Prediction = ml.Prediction.Prediction
			} else if ml.Err != nil {
				s.Prediction = ml.Err.Explanation.Title
			}
		}
		files = append(files, s)
	}
	return map[string]interface{}{
		"files":   files,
		"summary": result.Summary,
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
