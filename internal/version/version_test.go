package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	defer func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	}()

	Version = "1.0.0"
	Commit = "abc123def456"
	Date = "2025-01-01T12:00:00Z"

	info := GetInfo()

	if info.Version != "1.0.0" {
		t.Errorf("GetInfo().Version = %v, want 1.0.0", info.Version)
	}
	if info.Commit != "abc123def456" {
		t.Errorf("GetInfo().Commit = %v, want abc123def456", info.Commit)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GetInfo().GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("GetInfo().Platform = %v, want %v", info.Platform, want)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "0123456789abcdef",
		Date:      "2025-02-03",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	got := info.String()
	for _, want := range []string{"placesadmin 1.2.3", "(01234567)", "2025-02-03", "go1.24.6", "linux/amd64"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "89abcdef") {
		t.Errorf("String() should shorten the commit, got %q", got)
	}
}

func TestShortAndUserAgent(t *testing.T) {
	info := Info{Version: "0.4.0", Platform: "darwin/arm64"}

	if info.Short() != "0.4.0" {
		t.Errorf("Short() = %q, want 0.4.0", info.Short())
	}
	if got := info.UserAgent(); got != "placesadmin/0.4.0 (darwin/arm64)" {
		t.Errorf("UserAgent() = %q", got)
	}
}
