package aggregator

import "github.com/ludo-technologies/pysmell/domain"

var reasons = map[domain.SmellKind]domain.SmellReason{
	domain.SmellLongMethod: {
		Reason: "This method is too long, making it hard to read, understand, and maintain.",
		Fix:    "Break it into smaller, focused functions to improve clarity.",
	},
	domain.SmellLargeClass: {
		Reason: "This class has too many responsibilities or lines of code, violating the Single Responsibility Principle.",
		Fix:    "Split it into smaller, more cohesive classes.",
	},
	domain.SmellCleanCode: {
		Reason: "No code smells were detected. The file follows good design and coding practices.",
		Fix:    "No action needed.",
	},
}

var defaultReason = domain.SmellReason{
	Reason: "No specific reason available.",
	Fix:    "General refactoring principles may apply.",
}

// ReasonFor returns the static explanation for kind, or a generic one.
func ReasonFor(kind domain.SmellKind) domain.SmellReason {
	if r, ok := reasons[kind]; ok {
		return r
	}
	return defaultReason
}
