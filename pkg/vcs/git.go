package vcs

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/quiverhq/quiver/pkg/registry"
)

// Collect gathers git metadata from dir on a best-effort basis. It never
// returns an error: a missing git binary, a non-repository directory, or any
// failing git command just leaves fields empty (or returns nil when dir is
// not a repository at all). A failed collection must not abort a schema
// check.
func Collect(dir string) *registry.GitContext {
	if !insideRepository(dir) {
		return nil
	}

	ctx := &registry.GitContext{
		Branch:    gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD"),
		Commit:    gitOutput(dir, "rev-parse", "HEAD"),
		Committer: gitOutput(dir, "log", "-1", "--pretty=format:%an <%ae>"),
		Message:   gitOutput(dir, "log", "-1", "--pretty=format:%s"),
	}

	if remote := gitOutput(dir, "config", "--get", "remote.origin.url"); remote != "" {
		ctx.RemoteURL = normalizeRemote(remote)
	}
	return ctx
}

// insideRepository checks for a .git entry in dir or any parent.
func insideRepository(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	for {
		if _, err := os.Stat(filepath.Join(abs, ".git")); err == nil {
			return true
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return false
		}
		abs = parent
	}
}

// gitOutput runs a git command in dir and returns its trimmed stdout, or ""
// on any failure.
func gitOutput(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// normalizeRemote converts scp-style remotes (git@github.com:user/repo.git)
// to https URLs so the registry links back to a browsable page.
func normalizeRemote(remote string) string {
	if strings.HasPrefix(remote, "git@") {
		remote = strings.TrimPrefix(remote, "git@")
		remote = strings.Replace(remote, ":", "/", 1)
		remote = "https://" + remote
	}
	return strings.TrimSuffix(remote, ".git")
}
