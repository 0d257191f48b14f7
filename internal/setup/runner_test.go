package setup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/hbjs97/fzi/internal/config"
	"github.com/hbjs97/fzi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFormRunner는 테스트용 FormRunner다.
type mockFormRunner struct {
	input      *ToolsInput
	action     Action
	confirms   []bool
	confirmIdx int

	gotDefaults  *ToolsInput
	gotFinders   []string
	gotSelectors []string
}

func (m *mockFormRunner) RunToolsForm(defaults *ToolsInput, finders, selectors []string) (*ToolsInput, error) {
	m.gotDefaults = defaults
	m.gotFinders = finders
	m.gotSelectors = selectors
	if m.input == nil {
		return nil, fmt.Errorf("user aborted")
	}
	return m.input, nil
}

func (m *mockFormRunner) RunActionSelect() (Action, error) {
	return m.action, nil
}

func (m *mockFormRunner) RunConfirm(string) (bool, error) {
	if m.confirmIdx >= len(m.confirms) {
		return false, nil
	}
	c := m.confirms[m.confirmIdx]
	m.confirmIdx++
	return c, nil
}

func newFake() *testutil.FakeCommander {
	fc := testutil.NewFakeCommander()
	fc.DefaultResponse = &testutil.Response{Err: fmt.Errorf("not found")}
	fc.Register("fdfind --version", "fdfind 9.0.0", nil)
	fc.Register("fzf --version", "0.56.3", nil)
	return fc
}

func TestRunner_FirstRun(t *testing.T) {
	dir := t.TempDir()
	cfgPath := dir + "/config.toml"
	rcPath := dir + "/.zshrc"

	mock := &mockFormRunner{
		input:    &ToolsInput{Shell: "zsh", Finder: "fdfind", Selector: "fzf", RestoreOpts: true, Companion: false},
		confirms: []bool{true},
	}
	var out bytes.Buffer
	r := &Runner{CfgPath: cfgPath, Commander: newFake(), FormRunner: mock, Out: &out, RCPath: rcPath}

	require.NoError(t, r.Run(context.Background()))

	// detected candidates only
	assert.Equal(t, []string{"fdfind"}, mock.gotFinders)
	assert.Equal(t, []string{"fzf"}, mock.gotSelectors)
	assert.Equal(t, "fdfind", mock.gotDefaults.Finder)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "zsh", cfg.Shell)
	assert.Equal(t, "fdfind", cfg.Tools.Finder)
	assert.True(t, cfg.RestoreOpts)
	assert.False(t, cfg.IsCompanion())

	assert.True(t, HookInstalled(rcPath))
	assert.Contains(t, out.String(), "환경 진단")
}

func TestRunner_FirstRun_HookDeclined(t *testing.T) {
	dir := t.TempDir()
	rcPath := dir + "/.bashrc"
	mock := &mockFormRunner{
		input:    &ToolsInput{Shell: "bash", Finder: "fd", Selector: "fzf", Companion: true},
		confirms: []bool{false},
	}
	r := &Runner{CfgPath: dir + "/config.toml", Commander: newFake(), FormRunner: mock, Out: &bytes.Buffer{}, RCPath: rcPath}

	require.NoError(t, r.Run(context.Background()))
	_, err := os.Stat(rcPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_FirstRun_FormAborted(t *testing.T) {
	dir := t.TempDir()
	cfgPath := dir + "/config.toml"
	r := &Runner{CfgPath: cfgPath, Commander: newFake(), FormRunner: &mockFormRunner{}, Out: &bytes.Buffer{}}

	assert.Error(t, r.Run(context.Background()))
	_, err := os.Stat(cfgPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunner_Existing_HookOnly(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t)
	rcPath := t.TempDir() + "/.bashrc"
	before, err := os.ReadFile(cfgPath)
	require.NoError(t, err)

	r := &Runner{
		CfgPath:    cfgPath,
		Commander:  newFake(),
		FormRunner: &mockFormRunner{action: ActionHookOnly},
		Out:        &bytes.Buffer{},
		RCPath:     rcPath,
	}
	require.NoError(t, r.Run(context.Background()))

	assert.True(t, HookInstalled(rcPath))
	after, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRunner_Existing_Reconfigure(t *testing.T) {
	cfgPath := testutil.SetupTestConfig(t)
	mock := &mockFormRunner{
		action: ActionReconfigure,
		input:  &ToolsInput{Shell: "bash", Finder: "fd", Selector: "sk", Companion: true},
	}
	r := &Runner{CfgPath: cfgPath, Commander: newFake(), FormRunner: mock, Out: &bytes.Buffer{}, RCPath: t.TempDir() + "/.bashrc"}

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, "bash", mock.gotDefaults.Shell)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "sk", cfg.Tools.Selector)
	// aliases survive a reconfigure
	assert.Equal(t, "fzf --multi", cfg.Aliases["fe"])
}

func TestDetectTools(t *testing.T) {
	got := DetectTools(context.Background(), newFake(), []string{"fd", "fdfind", "fzf", "sk"})
	assert.Equal(t, []string{"fdfind", "fzf"}, got)
}
