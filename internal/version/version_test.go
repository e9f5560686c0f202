package version

import (
	"runtime"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, Commit, Date
	t.Cleanup(func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	})
	Version, Commit, Date = v, commit, date
}

func TestGetInfo(t *testing.T) {
	withBuildInfo(t, "1.4.0", "0123456789abcdef", "2026-01-02")

	info := GetInfo()
	if info.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %q", info.Platform)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
	}{
		{"long commit is shortened", "0123456789abcdef", "(01234567)"},
		{"short commit kept", "abc", "(abc)"},
		{"unknown commit", "unknown", "(unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, "dev", tt.commit, "unknown")
			got := GetInfo().String()
			if !strings.HasPrefix(got, "Painel dev ") {
				t.Errorf("String() = %q, want Painel prefix", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("String() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	withBuildInfo(t, "2.0.0", "x", "y")
	ua := GetInfo().UserAgent()
	if !strings.HasPrefix(ua, "painel/2.0.0 (") {
		t.Errorf("UserAgent() = %q", ua)
	}
}
