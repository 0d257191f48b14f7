package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/fzi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_WritesValidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := config.Default()
	cfg.Shell = "zsh"
	cfg.RestoreOpts = true
	cfg.Aliases["fe"] = "fzf --multi"

	err := config.Save(path, cfg)
	require.NoError(t, err)

	// 파일 권한 0600 확인
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Load로 round-trip 검증
	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "zsh", loaded.Shell)
	assert.True(t, loaded.RestoreOpts)
	assert.Equal(t, "fzf --multi", loaded.Aliases["fe"])
	assert.Equal(t, cfg.Tools, loaded.Tools)
}

func TestSave_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	err := config.Save(filepath.Join(blocker, "config.toml"), config.Default())
	assert.Error(t, err)
}
