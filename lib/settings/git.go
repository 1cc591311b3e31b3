package settings

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// GetGitCommit returns the short commit of the checkout in development mode
// and the build version otherwise.
func GetGitCommit() string {
	if os.Getenv("DEVELOPMENT_MODE") != "true" {
		return GitVersion()
	}
	gitPath := ".git"
	info, err := os.Stat(gitPath)
	if err != nil {
		return ""
	}
	if info.Mode().IsRegular() {
		data, err := os.ReadFile(gitPath)
		if err != nil {
			return ""
		}
		_, dir, ok := strings.Cut(string(data), ":")
		if !ok {
			return ""
		}
		gitPath = strings.TrimSpace(dir)
	}

	headData, err := os.ReadFile(filepath.Join(gitPath, "HEAD"))
	if err != nil {
		return ""
	}
	commit := strings.TrimSpace(string(headData))
	if ref, ok := strings.CutPrefix(commit, "ref: "); ok {
		refData, err := os.ReadFile(filepath.Join(gitPath, strings.TrimSpace(ref)))
		if err != nil {
			return ""
		}
		commit = strings.TrimSpace(string(refData))
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return commit
}

func GitVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return ""
	}

	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	var rev, modified string
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			rev = s.Value
		}
		if s.Key == "vcs.modified" {
			modified = s.Value
		}
	}
	if rev != "" {
		if modified == "true" {
			return rev + "-dirty"
		}
		return rev
	}

	return ""
}

// BuildInfo returns the module version and the vcs revision of the binary.
func BuildInfo() (version string, releaseID string) {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return "", ""
	}
	version = bi.Main.Version
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			releaseID = s.Value
		}
	}
	return version, releaseID
}
