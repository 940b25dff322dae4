package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the build metadata reported by the /version endpoint.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get resolves the current build metadata.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// IsRelease reports whether the build carries a real version tag.
func (i Info) IsRelease() bool {
	return i.Version != "" && i.Version != "dev" && !i.Dirty
}

// String renders "version-commit[-dirty]".
func (i Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	s := strings.Join(parts, "-")
	if i.BuildTime != "" {
		s += fmt.Sprintf(" (built %s)", i.BuildTime)
	}
	return s
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
