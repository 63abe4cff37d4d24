// Package version reports build metadata for flowfairy binaries.
package version

import (
	"cmp"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/samcharles93/flowfairy/internal/version.Version=...".
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	// Dirty is set when the toolchain recorded uncommitted changes.
	Dirty bool
}

// Resolve fills gaps in the -ldflags values from the build info the Go
// toolchain embeds. Values given with -ldflags win.
func Resolve() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Version == "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = cmp.Or(info.Commit, s.Value)
			case "vcs.time":
				info.BuildTime = cmp.Or(info.BuildTime, s.Value)
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			}
		}
	}

	info.Version = cmp.Or(info.Version, "dev")
	return info
}

// String is the one-line form: "v1.2.0 (0123456789ab-dirty)".
func String() string {
	info := Resolve()
	if info.Commit == "" {
		return info.Version
	}
	commit := shortCommit(info.Commit)
	if info.Dirty {
		commit += "-dirty"
	}
	return info.Version + " (" + commit + ")"
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
