package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/mcp"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type args struct {
	arguments interface{}
	setupFS   func(t *testing.T) string
}

type want struct {
	isError      bool
	expectPrefix string
	check        func(t *testing.T, text string)
}

type fakeExplainer struct{}

func (fakeExplainer) Explain(ctx context.Context, req domain.ExplainRequest) string {
	return "mode=" + string(req.Mode) + " smell=" + req.Smell + " code=" + req.Code
}

const longSource = `def long_one():
    a = 1
    b = 2
    c = 3
    d = 4
    e = 5
    f = 6
    g = 7
    h = 8
    i = 9
    j = 10
    k = 11
    return a


class Small:
    def one(self):
        pass
`

// testConfig keeps every artifact inside the test's temp dirs and points the
// linter at a command that does not exist.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Model.ModelsDir = filepath.Join(t.TempDir(), "models")
	cfg.Model.ResultsDir = filepath.Join(t.TempDir(), "results")
	cfg.Linter.Command = "pysmell-test-missing-linter"
	return cfg
}

func setupTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.py")
	require.NoError(t, os.WriteFile(path, []byte(longSource), 0o644))
	return path
}

func runToolTest(
	t *testing.T,
	cfg *config.Config,
	a args,
	handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error),
) *mcplib.CallToolResult {
	t.Helper()
	h := mcp.NewHandlerSet(mcp.NewTestDependencies(cfg, fakeExplainer{}))

	if a.setupFS != nil {
		if m, ok := a.arguments.(map[string]interface{}); ok {
			m["path"] = a.setupFS(t)
		}
	}

	res, err := handlerFunc(h, context.Background(), mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{Arguments: a.arguments},
	})
	require.NoError(t, err)
	return res
}

func assertResult(t *testing.T, res *mcplib.CallToolResult, w want) {
	t.Helper()
	assert.Equal(t, w.isError, res.IsError)
	require.NotEmpty(t, res.Content)
	text := mcplib.GetTextFromContent(res.Content[0])
	if w.expectPrefix != "" {
		assert.True(t, strings.HasPrefix(text, w.expectPrefix), "text %q does not start with %q", text, w.expectPrefix)
	}
	if w.check != nil {
		w.check(t, text)
	}
}

func commonPathCases() map[string]struct {
	args args
	want want
} {
	return map[string]struct {
		args args
		want want
	}{
		"invalid_arguments_format": {
			args: args{arguments: "not-a-map"},
			want: want{isError: true, expectPrefix: "invalid arguments format"},
		},
		"path_missing": {
			args: args{arguments: map[string]interface{}{}},
			want: want{isError: true, expectPrefix: "path parameter is required"},
		},
		"path_not_exist": {
			args: args{arguments: map[string]interface{}{"path": "/non/existing/path"}},
			want: want{isError: true, expectPrefix: "path does not exist"},
		},
		"bad_threshold": {
			args: args{
				setupFS:   setupTestFile,
				arguments: map[string]interface{}{"class_methods": 0.0},
			},
			want: want{isError: true, expectPrefix: "class_methods must be at least 1"},
		},
		"threshold_not_number": {
			args: args{
				setupFS:   setupTestFile,
				arguments: map[string]interface{}{"class_lines": "many"},
			},
			want: want{isError: true, expectPrefix: "class_lines must be a number"},
		},
	}
}

func TestHandleDetectSmells(t *testing.T) {
	tests := commonPathCases()
	tests["summary"] = struct {
		args args
		want want
	}{
		args: args{setupFS: setupTestFile, arguments: map[string]interface{}{}},
		want: want{check: func(t *testing.T, text string) {
			var result struct {
				Files []struct {
					Status      string   `json:"status"`
					SmellCount  int      `json:"smell_count"`
					LongMethods []string `json:"long_methods"`
					Prediction  string   `json:"prediction"`
					ReportPath  string   `json:"report_path"`
				} `json:"files"`
				Summary domain.DetectSummary `json:"summary"`
			}
			require.NoError(t, json.Unmarshal([]byte(text), &result))
			require.Len(t, result.Files, 1)
			f := result.Files[0]
			assert.Equal(t, domain.StatusSmellsDetected, f.Status)
			assert.Equal(t, []string{"long_one (lines 1-13)"}, f.LongMethods)
			assert.Equal(t, 2, f.SmellCount, "one long method plus the linter failure record")
			assert.Equal(t, "Accuracy information not found", f.Prediction)
			assert.Empty(t, f.ReportPath, "reports are not saved by default")
			assert.Equal(t, 1, result.Summary.SmellyFiles)
		}},
	}
	tests["full_with_threshold"] = struct {
		args args
		want want
	}{
		args: args{
			setupFS:   setupTestFile,
			arguments: map[string]interface{}{"output_mode": "full", "long_method_lines": 20.0},
		},
		want: want{check: func(t *testing.T, text string) {
			var result domain.DetectResponse
			require.NoError(t, json.Unmarshal([]byte(text), &result))
			require.Len(t, result.Files, 1)
			assert.Empty(t, result.Files[0].Report.LongMethods)
			assert.Equal(t, domain.StatusMinorIssues, result.Files[0].Report.Summary.Status)
		}},
	}
	tests["unparsable_source"] = struct {
		args args
		want want
	}{
		args: args{
			setupFS: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "legacy.py")
				require.NoError(t, os.WriteFile(path, []byte("print \"hi\"\n"), 0o644))
				return path
			},
			arguments: map[string]interface{}{},
		},
		want: want{check: func(t *testing.T, text string) {
			var result struct {
				Files []struct {
					Status       string   `json:"status"`
					SmellCount   int      `json:"smell_count"`
					LongMethods  []string `json:"long_methods"`
					LargeClasses []string `json:"large_classes"`
				} `json:"files"`
			}
			require.NoError(t, json.Unmarshal([]byte(text), &result))
			require.Len(t, result.Files, 1)
			f := result.Files[0]
			assert.Equal(t, domain.StatusSmellsDetected, f.Status)
			assert.Equal(t, 3, f.SmellCount, "two failed structural passes plus the linter failure record")
			require.Len(t, f.LongMethods, 1)
			assert.True(t, strings.HasPrefix(f.LongMethods[0], "error: [PARSE_ERROR] failed to parse source"))
			require.Len(t, f.LargeClasses, 1)
			assert.True(t, strings.HasPrefix(f.LargeClasses[0], "error: "))
		}},
	}
	tests["unknown_output_mode"] = struct {
		args args
		want want
	}{
		args: args{setupFS: setupTestFile, arguments: map[string]interface{}{"output_mode": "html"}},
		want: want{isError: true, expectPrefix: "unknown output_mode"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res := runToolTest(t, testConfig(t), tc.args, (*mcp.HandlerSet).HandleDetectSmells)
			assertResult(t, res, tc.want)
		})
	}
}

func TestHandleDetectSmellsSavesReports(t *testing.T) {
	cfg := testConfig(t)
	res := runToolTest(t, cfg, args{
		setupFS:   setupTestFile,
		arguments: map[string]interface{}{"save": true},
	}, (*mcp.HandlerSet).HandleDetectSmells)
	require.False(t, res.IsError)
	assert.FileExists(t, filepath.Join(cfg.Model.ResultsDir, "sample.py.json"))

	report := runToolTest(t, cfg, args{arguments: map[string]interface{}{"file": "sample.py"}},
		(*mcp.HandlerSet).HandleGetReport)
	assertResult(t, report, want{check: func(t *testing.T, text string) {
		var stored map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(text), &stored))
		assert.Equal(t, false, stored["stale"])
		assert.NotEmpty(t, stored["id"])
	}})
}

func TestHandleLocateSmells(t *testing.T) {
	tests := commonPathCases()
	tests["defaults"] = struct {
		args args
		want want
	}{
		args: args{setupFS: setupTestFile, arguments: map[string]interface{}{}},
		want: want{check: func(t *testing.T, text string) {
			var result domain.LocateResponse
			require.NoError(t, json.Unmarshal([]byte(text), &result))
			assert.Equal(t, config.DefaultLocatorClassMethods, result.Thresholds.ClassMethods)
			require.Len(t, result.Files, 1)
			require.Len(t, result.Files[0].LongMethods, 1)
			assert.Equal(t, 13, result.Files[0].LongMethods[0].Length)
			assert.Empty(t, result.Files[0].LargeClasses)
		}},
	}
	tests["small_class_threshold"] = struct {
		args args
		want want
	}{
		args: args{setupFS: setupTestFile, arguments: map[string]interface{}{"class_lines": 1.0}},
		want: want{check: func(t *testing.T, text string) {
			var result domain.LocateResponse
			require.NoError(t, json.Unmarshal([]byte(text), &result))
			require.Len(t, result.Files[0].LargeClasses, 1)
			assert.Equal(t, "Small", result.Files[0].LargeClasses[0].Class)
		}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res := runToolTest(t, testConfig(t), tc.args, (*mcp.HandlerSet).HandleLocateSmells)
			assertResult(t, res, tc.want)
		})
	}
}

func TestHandleModelAccuracies(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Model.ResultsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Model.ResultsDir, "training_summary.txt"),
		[]byte("Random Forest      : 91.50%\nDecision Tree: 93%\n"), 0o644))

	res := runToolTest(t, cfg, args{arguments: map[string]interface{}{}}, (*mcp.HandlerSet).HandleModelAccuracies)
	assertResult(t, res, want{check: func(t *testing.T, text string) {
		var result map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(text), &result))
		assert.Equal(t, "Decision Tree", result["best_model"])
		assert.Equal(t, map[string]interface{}{"Random Forest": 91.5, "Decision Tree": 93.0}, result["accuracies"])
	}})

	empty := runToolTest(t, testConfig(t), args{arguments: map[string]interface{}{}}, (*mcp.HandlerSet).HandleModelAccuracies)
	assertResult(t, empty, want{check: func(t *testing.T, text string) {
		assert.JSONEq(t, `{"accuracies": {}}`, text)
	}})
}

func TestHandleGetReport(t *testing.T) {
	tests := map[string]struct {
		args args
		want want
	}{
		"invalid_arguments_format": {
			args: args{arguments: 42},
			want: want{isError: true, expectPrefix: "invalid arguments format"},
		},
		"file_missing": {
			args: args{arguments: map[string]interface{}{}},
			want: want{isError: true, expectPrefix: "file parameter is required"},
		},
		"not_saved": {
			args: args{arguments: map[string]interface{}{"file": "never.py"}},
			want: want{isError: true, expectPrefix: "[FILE_NOT_FOUND]"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := runToolTest(t, testConfig(t), tc.args, (*mcp.HandlerSet).HandleGetReport)
			assertResult(t, res, tc.want)
		})
	}
}

func TestHandleExplainCode(t *testing.T) {
	tests := map[string]struct {
		args args
		want want
	}{
		"invalid_arguments_format": {
			args: args{arguments: []string{"x"}},
			want: want{isError: true, expectPrefix: "invalid arguments format"},
		},
		"no_code": {
			args: args{arguments: map[string]interface{}{"code": "  "}},
			want: want{isError: true, expectPrefix: "No code provided"},
		},
		"bad_mode": {
			args: args{arguments: map[string]interface{}{"code": "x = 1", "mode": "translate"}},
			want: want{isError: true, expectPrefix: "[INVALID_INPUT]"},
		},
		"refactor": {
			args: args{arguments: map[string]interface{}{"code": "x = 1", "mode": "Refactor", "smell": "LongMethod"}},
			want: want{expectPrefix: "mode=refactor smell=LongMethod code=x = 1"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := runToolTest(t, testConfig(t), tc.args, (*mcp.HandlerSet).HandleExplainCode)
			assertResult(t, res, tc.want)
		})
	}
}
