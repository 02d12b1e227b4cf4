package explain

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/pysmell/domain"
)

// DefaultSmell is used by refactor requests that name no smell.
const DefaultSmell = "a general smell"

// Prompt renders the instruction sent to the model for req.
func Prompt(req domain.ExplainRequest) (string, error) {
	code := fence(req.Code)
	switch req.Mode {
	case domain.ExplainModeExplain, "":
		return "Explain clearly and concisely what this Python code does, highlighting potential issues or improvements:\n\n" + code, nil
	case domain.ExplainModeOptimize:
		return "Please refactor the following Python code to make it more efficient, clean, and Pythonic. " +
			"Return only the optimized code block without any explanations or comments:\n\n" + code, nil
	case domain.ExplainModeRefactor:
		smell := strings.TrimSpace(req.Smell)
		if smell == "" {
			smell = DefaultSmell
		}
		return fmt.Sprintf("The following Python code is identified as having a '%s' code smell. "+
			"Please refactor it to fix the issue while preserving its original functionality. "+
			"Return only the refactored code block:\n\n%s", smell, code), nil
	default:
		return "", domain.NewInvalidInputError(fmt.Sprintf("unsupported explain mode %q", req.Mode), nil)
	}
}

// ParseMode validates a mode name.
func ParseMode(s string) (domain.ExplainMode, error) {
	switch mode := domain.ExplainMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case domain.ExplainModeExplain, domain.ExplainModeOptimize, domain.ExplainModeRefactor:
		return mode, nil
	default:
		return "", domain.NewInvalidInputError(fmt.Sprintf("unsupported explain mode %q, must be one of: explain, optimize, refactor", s), nil)
	}
}

func fence(code string) string {
	return "```python\n" + code + "\n```"
}
