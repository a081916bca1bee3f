package main

import (
	"fmt"
	"runtime"
	rdebug "runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time:
//
//	go build -ldflags "-X main.version=v1.2.0 -X main.commit=abc1234 -X main.buildDate=2026-10-15"
var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString(version, commit, buildDate, readBuildInfo))
	},
}

func init() {
	rootCmd.Version = versionString(version, commit, buildDate, readBuildInfo)
	rootCmd.SetVersionTemplate("jobpulse {{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}

func readBuildInfo() (*rdebug.BuildInfo, bool) { return rdebug.ReadBuildInfo() }

// versionString formats the release, the VCS revision and the toolchain.
// Missing ldflags fall back to the revision the Go toolchain embedded.
func versionString(ver, rev, date string, info func() (*rdebug.BuildInfo, bool)) string {
	dirty := false
	if bi, ok := info(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if rev == "" {
					rev = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev == "" {
		rev = "unknown"
	}
	if dirty {
		rev += "-dirty"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)", ver, rev, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
