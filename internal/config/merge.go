package config

// WasExplicitlySet checks if a flag was explicitly set by the user
func WasExplicitlySet(flags map[string]bool, flagName string) bool {
	if flags == nil {
		return false
	}
	return flags[flagName]
}

// Overrides carries CLI flag values; each applies only when its flag was set.
type Overrides struct {
	LongMethodLines int
	ClassMethods    int
	ClassLines      int
	ModelsDir       string
	ResultsDir      string
	LinterCommand   string
	LinterTimeout   int
	Format          string
	NoColor         bool
	Concurrency     int
	IncludePatterns []string
	ExcludePatterns []string
	Recursive       bool
	AIProvider      string
	AIModel         string
}

// Flag names recognized by Merge.
const (
	FlagLongMethodLines = "long-method-lines"
	FlagClassMethods    = "class-methods"
	FlagClassLines      = "class-lines"
	FlagModelsDir       = "models-dir"
	FlagResultsDir      = "results-dir"
	FlagLinter          = "linter"
	FlagLinterTimeout   = "linter-timeout"
	FlagFormat          = "format"
	FlagNoColor         = "no-color"
	FlagConcurrency     = "concurrency"
	FlagInclude         = "include"
	FlagExclude         = "exclude"
	FlagRecursive       = "recursive"
	FlagProvider        = "provider"
	FlagModel           = "model"
)

// Merge applies explicitly set overrides onto the configuration. Threshold
// flags target the analysis pass unless locator is true.
func (c *Config) Merge(o Overrides, flags map[string]bool, locator bool) {
	t := &c.Analysis
	if locator {
		t = &c.Locator
	}
	t.LongMethodLines = MergeInt(t.LongMethodLines, o.LongMethodLines, FlagLongMethodLines, flags)
	t.ClassMethods = MergeInt(t.ClassMethods, o.ClassMethods, FlagClassMethods, flags)
	t.ClassLines = MergeInt(t.ClassLines, o.ClassLines, FlagClassLines, flags)

	c.Model.ModelsDir = MergeString(c.Model.ModelsDir, o.ModelsDir, FlagModelsDir, flags)
	c.Model.ResultsDir = MergeString(c.Model.ResultsDir, o.ResultsDir, FlagResultsDir, flags)
	c.Linter.Command = MergeString(c.Linter.Command, o.LinterCommand, FlagLinter, flags)
	c.Linter.TimeoutSeconds = MergeInt(c.Linter.TimeoutSeconds, o.LinterTimeout, FlagLinterTimeout, flags)

	c.Output.Format = MergeString(c.Output.Format, o.Format, FlagFormat, flags)
	c.Output.NoColor = MergeBool(c.Output.NoColor, o.NoColor, FlagNoColor, flags)
	c.Output.Concurrency = MergeInt(c.Output.Concurrency, o.Concurrency, FlagConcurrency, flags)

	c.Input.IncludePatterns = MergeStringSlice(c.Input.IncludePatterns, o.IncludePatterns, FlagInclude, flags)
	c.Input.ExcludePatterns = MergeStringSlice(c.Input.ExcludePatterns, o.ExcludePatterns, FlagExclude, flags)
	c.Input.Recursive = MergeBool(c.Input.Recursive, o.Recursive, FlagRecursive, flags)

	c.AI.Provider = MergeString(c.AI.Provider, o.AIProvider, FlagProvider, flags)
	c.AI.Model = MergeString(c.AI.Model, o.AIModel, FlagModel, flags)
}

// MergeString merges a string value, using override only if explicitly set
func MergeString(base, override, flagName string, flags map[string]bool) string {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeInt merges an int value, using override only if explicitly set
func MergeInt(base, override int, flagName string, flags map[string]bool) int {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeBool merges a bool value, using override only if explicitly set
func MergeBool(base, override bool, flagName string, flags map[string]bool) bool {
	if WasExplicitlySet(flags, flagName) {
		return override
	}
	return base
}

// MergeStringSlice merges a string slice, using override only if explicitly set
func MergeStringSlice(base, override []string, flagName string, flags map[string]bool) []string {
	if WasExplicitlySet(flags, flagName) && len(override) > 0 {
		return override
	}
	return base
}
