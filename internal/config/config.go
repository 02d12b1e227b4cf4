package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/spf13/viper"
)

// Default thresholds of the combined analysis pass.
const (
	DefaultAnalysisLongMethodLines = 12
	DefaultAnalysisClassMethods    = 4
	DefaultAnalysisClassLines      = 25
)

// Default thresholds of the localization pass.
const (
	DefaultLocatorLongMethodLines = 10
	DefaultLocatorClassMethods    = 8
	DefaultLocatorClassLines      = 50
)

// Default locations and tool settings.
const (
	DefaultModelsDir      = "models"
	DefaultResultsDir     = "results"
	DefaultLinterCommand  = "pylint"
	DefaultLinterTimeout  = 30
	DefaultAIProvider     = "openai"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	EnvPrefix             = "PYSMELL"
)

// Supported AI providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config represents the main configuration structure
type Config struct {
	// Analysis holds the thresholds of the combined analysis pass used by detect
	Analysis ThresholdConfig `mapstructure:"analysis" toml:"analysis" yaml:"analysis"`

	// Locator holds the thresholds of the structural-only localization pass
	Locator ThresholdConfig `mapstructure:"locator" toml:"locator" yaml:"locator"`

	Input  InputConfig  `mapstructure:"input" toml:"input" yaml:"input"`
	Model  ModelConfig  `mapstructure:"model" toml:"model" yaml:"model"`
	Linter LinterConfig `mapstructure:"linter" toml:"linter" yaml:"linter"`
	AI     AIConfig     `mapstructure:"ai" toml:"ai" yaml:"ai"`
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `mapstructure:"-" toml:"-" yaml:"-"`
}

// ThresholdConfig holds the structural detector thresholds
type ThresholdConfig struct {
	LongMethodLines int `mapstructure:"long_method_lines" toml:"long_method_lines" yaml:"long_method_lines"`
	ClassMethods    int `mapstructure:"class_methods" toml:"class_methods" yaml:"class_methods"`
	ClassLines      int `mapstructure:"class_lines" toml:"class_lines" yaml:"class_lines"`
}

// Thresholds converts to the domain type.
func (t ThresholdConfig) Thresholds() domain.Thresholds {
	return domain.Thresholds{
		LongMethodLines: t.LongMethodLines,
		ClassMethods:    t.ClassMethods,
		ClassLines:      t.ClassLines,
	}
}

// InputConfig controls file collection
type InputConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" toml:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns" yaml:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" toml:"recursive" yaml:"recursive"`
}

// ModelConfig locates the training artifacts
type ModelConfig struct {
	// ModelsDir holds the model files, feature_columns.json and label_encoder.json
	ModelsDir string `mapstructure:"models_dir" toml:"models_dir" yaml:"models_dir"`

	// ResultsDir holds training_summary.txt and the per-file reports
	ResultsDir string `mapstructure:"results_dir" toml:"results_dir" yaml:"results_dir"`
}

// LinterConfig controls the external rule checker
type LinterConfig struct {
	Command        string   `mapstructure:"command" toml:"command" yaml:"command"`
	Args           []string `mapstructure:"args" toml:"args" yaml:"args"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// AIConfig selects the generative model used by explain
type AIConfig struct {
	Provider string `mapstructure:"provider" toml:"provider" yaml:"provider"`
	Model    string `mapstructure:"model" toml:"model" yaml:"model"`

	// APIKeyEnv names the environment variable holding the key.
	// Empty means the provider's conventional variable.
	APIKeyEnv string `mapstructure:"api_key_env" toml:"api_key_env" yaml:"api_key_env"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers).
	BaseURL string `mapstructure:"base_url" toml:"base_url" yaml:"base_url"`
}

// KeyEnv returns the environment variable the API key is read from.
func (a AIConfig) KeyEnv() string {
	if a.APIKeyEnv != "" {
		return a.APIKeyEnv
	}
	if a.Provider == ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// APIKey reads the key from the environment.
func (a AIConfig) APIKey() string {
	return os.Getenv(a.KeyEnv())
}

// ModelName returns the configured model or the provider default.
func (a AIConfig) ModelName() string {
	if a.Model != "" {
		return a.Model
	}
	if a.Provider == ProviderAnthropic {
		return DefaultAnthropicModel
	}
	return DefaultOpenAIModel
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `mapstructure:"format" toml:"format" yaml:"format"`

	// NoColor disables colored text output
	NoColor bool `mapstructure:"no_color" toml:"no_color" yaml:"no_color"`

	// Concurrency is the number of files analyzed at once, 0 for the CPU count
	Concurrency int `mapstructure:"concurrency" toml:"concurrency" yaml:"concurrency"`

	// SaveReports writes one report per analyzed file to the results directory
	SaveReports bool `mapstructure:"save_reports" toml:"save_reports" yaml:"save_reports"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: ThresholdConfig{
			LongMethodLines: DefaultAnalysisLongMethodLines,
			ClassMethods:    DefaultAnalysisClassMethods,
			ClassLines:      DefaultAnalysisClassLines,
		},
		Locator: ThresholdConfig{
			LongMethodLines: DefaultLocatorLongMethodLines,
			ClassMethods:    DefaultLocatorClassMethods,
			ClassLines:      DefaultLocatorClassLines,
		},
		Input: InputConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{"**/.venv/**", "**/venv/**", "**/__pycache__/**", "**/site-packages/**"},
			Recursive:       true,
		},
		Model: ModelConfig{
			ModelsDir:  DefaultModelsDir,
			ResultsDir: DefaultResultsDir,
		},
		Linter: LinterConfig{
			Command:        DefaultLinterCommand,
			Args:           []string{"--output-format=json", "--score=n"},
			TimeoutSeconds: DefaultLinterTimeout,
		},
		AI: AIConfig{
			Provider: DefaultAIProvider,
		},
		Output: OutputConfig{
			Format:      string(domain.OutputFormatText),
			SaveReports: true,
		},
	}
}

// LoadConfig loads configuration with ruff-like priority:
//  1. configPath, when given (toml, yaml or json)
//  2. .pysmell.toml in startDir or any parent
//  3. [tool.pysmell] in the nearest pyproject.toml
//  4. defaults
//
// PYSMELL_* environment variables override file values, for example
// PYSMELL_ANALYSIS_LONG_METHOD_LINES or PYSMELL_MODEL_MODELS_DIR.
func LoadConfig(configPath, startDir string) (*Config, error) {
	v := newViper()

	switch {
	case configPath != "":
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
		}
	default:
		if path, ok := findUpward(startDir, ConfigFileName); ok {
			configPath = path
			v.SetConfigFile(path)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
			}
		} else if path, ok := findUpward(startDir, PyprojectFileName); ok {
			section, err := loadPyprojectSection(path)
			if err != nil {
				return nil, domain.NewConfigError(fmt.Sprintf("failed to read %s", path), err)
			}
			if section != nil {
				configPath = path
				if err := v.MergeConfigMap(section); err != nil {
					return nil, domain.NewConfigError("failed to merge [tool.pysmell]", err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}
	cfg.Path = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns an isolated viper instance seeded with every default so
// that environment overrides apply to all keys.
func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()

	for prefix, t := range map[string]ThresholdConfig{"analysis": d.Analysis, "locator": d.Locator} {
		v.SetDefault(prefix+".long_method_lines", t.LongMethodLines)
		v.SetDefault(prefix+".class_methods", t.ClassMethods)
		v.SetDefault(prefix+".class_lines", t.ClassLines)
	}
	v.SetDefault("input.include_patterns", d.Input.IncludePatterns)
	v.SetDefault("input.exclude_patterns", d.Input.ExcludePatterns)
	v.SetDefault("input.recursive", d.Input.Recursive)
	v.SetDefault("model.models_dir", d.Model.ModelsDir)
	v.SetDefault("model.results_dir", d.Model.ResultsDir)
	v.SetDefault("linter.command", d.Linter.Command)
	v.SetDefault("linter.args", d.Linter.Args)
	v.SetDefault("linter.timeout_seconds", d.Linter.TimeoutSeconds)
	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key_env", d.AI.APIKeyEnv)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("output.concurrency", d.Output.Concurrency)
	v.SetDefault("output.save_reports", d.Output.SaveReports)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	for name, t := range map[string]ThresholdConfig{"analysis": c.Analysis, "locator": c.Locator} {
		if t.LongMethodLines < 1 {
			return domain.NewConfigError(fmt.Sprintf("%s.long_method_lines must be >= 1, got %d", name, t.LongMethodLines), nil)
		}
		if t.ClassMethods < 1 {
			return domain.NewConfigError(fmt.Sprintf("%s.class_methods must be >= 1, got %d", name, t.ClassMethods), nil)
		}
		if t.ClassLines < 1 {
			return domain.NewConfigError(fmt.Sprintf("%s.class_lines must be >= 1, got %d", name, t.ClassLines), nil)
		}
	}

	if c.Linter.Command == "" {
		return domain.NewConfigError("linter.command cannot be empty", nil)
	}
	if c.Linter.TimeoutSeconds <= 0 {
		return domain.NewConfigError(fmt.Sprintf("linter.timeout_seconds must be > 0, got %d", c.Linter.TimeoutSeconds), nil)
	}

	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return domain.NewConfigError(fmt.Sprintf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format), err)
	}
	if c.Output.Concurrency < 0 {
		return domain.NewConfigError(fmt.Sprintf("output.concurrency must be >= 0, got %d", c.Output.Concurrency), nil)
	}

	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return domain.NewConfigError(fmt.Sprintf("invalid ai.provider '%s', must be one of: openai, anthropic", c.AI.Provider), nil)
	}

	if c.Model.ModelsDir == "" || c.Model.ResultsDir == "" {
		return domain.NewConfigError("model.models_dir and model.results_dir cannot be empty", nil)
	}
	return nil
}
