package vcs

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectOutsideRepository(t *testing.T) {
	ctx := Collect(t.TempDir())
	assert.Nil(t, ctx)
}

func TestCollectInsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		require.NoError(t, cmd.Run(), "git %v", args)
	}
	run("init", "-b", "main")
	run("config", "user.email", "dev@example.com")
	run("config", "user.name", "Dev Example")
	run("commit", "--allow-empty", "-m", "initial schema")

	ctx := Collect(dir)
	require.NotNil(t, ctx)
	assert.Equal(t, "main", ctx.Branch)
	assert.Len(t, ctx.Commit, 40)
	assert.Equal(t, "Dev Example <dev@example.com>", ctx.Committer)
	assert.Equal(t, "initial schema", ctx.Message)
	assert.Empty(t, ctx.RemoteURL, "no remote configured")
}

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"git@github.com:acme/products.git", "https://github.com/acme/products"},
		{"https://github.com/acme/products.git", "https://github.com/acme/products"},
		{"https://github.com/acme/products", "https://github.com/acme/products"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeRemote(tt.remote), "remote %q", tt.remote)
	}
}
