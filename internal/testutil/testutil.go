// Package testutil provides common test helpers for the fzi project.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TempGitRepo creates a temporary git repository and returns its path.
// The repository is automatically cleaned up when the test finishes.
func TempGitRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.name", "test-user"},
		{"git", "config", "user.email", "test@example.com"},
	}

	for _, args := range cmds {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("TempGitRepo: %s failed: %v\n%s", args[0], err, out)
		}
	}

	return dir
}

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// TempCompanionScript writes a companion integration script into dir
// and returns its path.
func TempCompanionScript(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "fzf-git.sh")
	content := "# fzf-git companion\n_fzf_git_loaded=1\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempCompanionScript: write failed: %v", err)
	}

	return path
}

// SetupTestConfig creates a temporary config.toml with every tool and an alias
// configured. Returns the config file path.
func SetupTestConfig(t *testing.T) string {
	t.Helper()

	content := `version = 1
shell = "bash"
env_prefix = "FZF_"

[tools]
finder = "fd"
tree = "eza"
pager = "bat"
selector = "fzf"
resolver = "dig"
exclude = [".git"]
tree_lines = 200
pager_lines = 500

[aliases]
fe = "fzf --multi"
`
	return TempConfigFile(t, content)
}
