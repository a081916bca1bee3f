package main

import (
	rdebug "runtime/debug"
	"strings"
	"testing"
)

func buildInfo(settings ...rdebug.BuildSetting) func() (*rdebug.BuildInfo, bool) {
	return func() (*rdebug.BuildInfo, bool) {
		return &rdebug.BuildInfo{Settings: settings}, true
	}
}

func noBuildInfo() (*rdebug.BuildInfo, bool) { return nil, false }

func TestVersionString(t *testing.T) {
	tests := []struct {
		name           string
		ver, rev, date string
		info           func() (*rdebug.BuildInfo, bool)
		want           string
	}{
		{"ldflags win", "v1.2.0", "abc1234", "2026-10-15", buildInfo(rdebug.BuildSetting{Key: "vcs.revision", Value: "ffffffffffffffff"}), "v1.2.0 (commit abc1234, built 2026-10-15,"},
		{"vcs fallback", "dev", "", "", buildInfo(
			rdebug.BuildSetting{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			rdebug.BuildSetting{Key: "vcs.time", Value: "2026-10-14T08:00:00Z"},
		), "dev (commit 0123456789ab, built 2026-10-14T08:00:00Z,"},
		{"dirty tree", "dev", "", "", buildInfo(
			rdebug.BuildSetting{Key: "vcs.revision", Value: "abc"},
			rdebug.BuildSetting{Key: "vcs.modified", Value: "true"},
		), "dev (commit abc-dirty, built unknown,"},
		{"no build info", "dev", "", "", noBuildInfo, "dev (commit unknown, built unknown,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := versionString(tt.ver, tt.rev, tt.date, tt.info)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("versionString = %q, want prefix %q", got, tt.want)
			}
		})
	}
}
