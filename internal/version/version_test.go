package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/ludo-technologies/pysmell/internal/version"
)

func TestShort(t *testing.T) {
	if version.Short() == "" {
		t.Error("Short() should return non-empty string")
	}
}

func TestInfoFormat(t *testing.T) {
	lines := strings.Split(version.Info(), "\n")

	// Verify the number of lines in the returned output
	if len(lines) != 5 {
		t.Fatalf("Info() should contain 5 lines, got %d", len(lines))
	}

	expectedPrefixes := []string{"pysmell " + version.Version, "Commit: ", "Built: ", "Go: " + runtime.Version(), "OS/Arch: "}
	for i, prefix := range expectedPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d should start with %q, got %q", i+1, prefix, lines[i])
		}
	}
}

func TestUserAgent(t *testing.T) {
	ua := version.UserAgent()
	if !strings.HasPrefix(ua, "pysmell/"+version.Version) {
		t.Errorf("UserAgent() = %q", ua)
	}
	if !strings.Contains(ua, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("UserAgent() should contain the platform, got %q", ua)
	}
}
