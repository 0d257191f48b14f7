package session_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hbjs97/fzi/internal/bash"
	"github.com/hbjs97/fzi/internal/cmdexec"
	"github.com/hbjs97/fzi/internal/config"
	"github.com/hbjs97/fzi/internal/environ"
	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/registry"
	"github.com/hbjs97/fzi/internal/session"
	"github.com/hbjs97/fzi/internal/testutil"
	"github.com/hbjs97/fzi/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	env *environ.Map
	fc  *testutil.FakeCommander
	s   *session.Session
}

func newFixture(t *testing.T, cfg *config.Config, pairs ...string) *fixture {
	t.Helper()
	plan := plugin.New(cfg)
	fc := testutil.NewFakeCommander()
	fc.DefaultResponse = &testutil.Response{}
	env := environ.NewMap(pairs...)
	s := session.New(session.Options{
		Env:        env,
		Plan:       plan,
		Enumerator: &tools.FinderEnumerator{Commander: fc, Tools: plan.Tools},
		Selector:   &tools.FuzzySelector{Commander: fc, Tools: plan.Tools},
	})
	return &fixture{env: env, fc: fc, s: s}
}

func lookup(env environ.Env, name string) string {
	v, ok := env.Lookup(name)
	if !ok {
		return "<unset>"
	}
	return v
}

func TestInitialize_ExportsAndDefines(t *testing.T) {
	f := newFixture(t, config.Default())
	require.NoError(t, f.s.Initialize())

	assert.Equal(t, session.Loaded, f.s.State())
	assert.Equal(t, "fd --hidden --strip-cwd-prefix --exclude .git", lookup(f.env, "FZF_DEFAULT_COMMAND"))
	assert.Equal(t, "fd --hidden --strip-cwd-prefix --exclude .git", lookup(f.env, "FZF_CTRL_T_COMMAND"))
	assert.Equal(t, "fd --type=d --hidden --strip-cwd-prefix --exclude .git", lookup(f.env, "FZF_ALT_C_COMMAND"))
	assert.Contains(t, lookup(f.env, "FZF_CTRL_T_OPTS"), "--preview")
	assert.Contains(t, lookup(f.env, "FZF_ALT_C_OPTS"), "eza --tree")

	for _, name := range []string{plugin.FuncCompgenPath, plugin.FuncCompgenDir, plugin.FuncDispatch, plugin.FuncUnload} {
		assert.True(t, f.s.Defined(name), name)
	}
	assert.Equal(t,
		[]string{plugin.FuncCompgenPath, plugin.FuncCompgenDir, plugin.FuncDispatch, plugin.FuncUnload},
		f.s.Remembered(registry.KindFunction))
}

func TestInitialize_Twice(t *testing.T) {
	f := newFixture(t, config.Default(), "FZF_DEFAULT_COMMAND=find .")
	require.NoError(t, f.s.Initialize())

	err := f.s.Initialize()
	assert.ErrorIs(t, err, session.ErrAlreadyLoaded)

	// The first capture must survive so unload still restores the user's value.
	f.s.Unload()
	assert.Equal(t, "find .", lookup(f.env, "FZF_DEFAULT_COMMAND"))
}

func TestUnload_RestoresPreviousValues(t *testing.T) {
	f := newFixture(t, config.Default(), "FZF_DEFAULT_COMMAND=rg --files", "FZF_CTRL_T_COMMAND=")
	require.NoError(t, f.s.Initialize())
	f.s.Unload()

	assert.Equal(t, "rg --files", lookup(f.env, "FZF_DEFAULT_COMMAND"))
	// present but empty stays present
	assert.Equal(t, "", lookup(f.env, "FZF_CTRL_T_COMMAND"))
	assert.Equal(t, "<unset>", lookup(f.env, "FZF_ALT_C_COMMAND"))
}

func TestUnload_RemovesEverything(t *testing.T) {
	cfg := config.Default()
	cfg.Aliases = map[string]string{"fe": "fzf --multi"}
	f := newFixture(t, cfg)
	require.NoError(t, f.s.Initialize())

	_, ok := f.s.Alias("fe")
	require.True(t, ok)

	f.s.Unload()

	assert.Equal(t, session.Unloaded, f.s.State())
	for _, name := range []string{plugin.FuncCompgenPath, plugin.FuncCompgenDir, plugin.FuncDispatch, plugin.FuncUnload} {
		assert.False(t, f.s.Defined(name), name)
	}
	_, ok = f.s.Alias("fe")
	assert.False(t, ok)
	assert.Nil(t, f.s.Remembered(registry.KindFunction))
}

func TestUnload_OptsStayByDefault(t *testing.T) {
	f := newFixture(t, config.Default())
	require.NoError(t, f.s.Initialize())
	f.s.Unload()

	assert.NotEqual(t, "<unset>", lookup(f.env, "FZF_CTRL_T_OPTS"))
}

func TestUnload_RestoreOpts(t *testing.T) {
	cfg := config.Default()
	cfg.RestoreOpts = true
	f := newFixture(t, cfg, "FZF_ALT_C_OPTS=--height 40%")
	require.NoError(t, f.s.Initialize())
	f.s.Unload()

	assert.Equal(t, "<unset>", lookup(f.env, "FZF_CTRL_T_OPTS"))
	assert.Equal(t, "--height 40%", lookup(f.env, "FZF_ALT_C_OPTS"))
}

func TestUnload_WhenUnloadedIsNoop(t *testing.T) {
	f := newFixture(t, config.Default(), "FZF_DEFAULT_COMMAND=x")
	f.s.Unload()
	assert.Equal(t, "x", lookup(f.env, "FZF_DEFAULT_COMMAND"))
	assert.Equal(t, session.Unloaded, f.s.State())
}

func TestUnload_ViaFunction(t *testing.T) {
	f := newFixture(t, config.Default())
	require.NoError(t, f.s.Initialize())

	require.NoError(t, f.s.Call(context.Background(), plugin.FuncUnload, session.Invocation{}))
	assert.Equal(t, session.Unloaded, f.s.State())

	err := f.s.Call(context.Background(), plugin.FuncUnload, session.Invocation{})
	assert.ErrorIs(t, err, session.ErrUndefined)
}

func TestReload(t *testing.T) {
	f := newFixture(t, config.Default(), "FZF_DEFAULT_COMMAND=a")
	require.NoError(t, f.s.Initialize())
	f.s.Unload()

	f.env.Set("FZF_DEFAULT_COMMAND", "b")
	require.NoError(t, f.s.Initialize())
	f.s.Unload()
	assert.Equal(t, "b", lookup(f.env, "FZF_DEFAULT_COMMAND"))
}

func TestCall_Compgen(t *testing.T) {
	f := newFixture(t, config.Default())
	f.fc.Register("fd --hidden", "a.go\nb.go\n", nil)
	require.NoError(t, f.s.Initialize())

	var out bytes.Buffer
	err := f.s.Call(context.Background(), plugin.FuncCompgenPath, session.Invocation{
		Args:  []string{"src"},
		Stdio: cmdexec.Stdio{Out: &out},
	})
	require.NoError(t, err)
	assert.Equal(t, "a.go\nb.go\n", out.String())
	assert.Equal(t, []string{"fd", "--hidden", "--exclude", ".git", ".", "src"}, f.fc.LastArgv("fd"))
}

func TestCall_CompgenDirDefaultsBase(t *testing.T) {
	f := newFixture(t, config.Default())
	require.NoError(t, f.s.Initialize())

	require.NoError(t, f.s.Call(context.Background(), plugin.FuncCompgenDir, session.Invocation{}))
	assert.Equal(t, []string{"fd", "--type=d", "--hidden", "--exclude", ".git", ".", "."}, f.fc.LastArgv("fd"))
}

func TestCall_Undefined(t *testing.T) {
	f := newFixture(t, config.Default())
	err := f.s.Call(context.Background(), plugin.FuncDispatch, session.Invocation{})
	assert.ErrorIs(t, err, session.ErrUndefined)
}

func TestDispatch_Branches(t *testing.T) {
	tests := []struct {
		command string
		preview string
	}{
		{"cd", "eza --tree --color=always {} | head -200"},
		{"export", "eval 'echo ${}'"},
		{"unset", "eval 'echo ${}'"},
		{"ssh", "dig {}"},
		{"vim", "if [ -d {} ]; then eza --tree --color=always {} | head -200; else bat -n --color=always --line-range :500 {}; fi"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			f := newFixture(t, config.Default())
			require.NoError(t, f.s.Initialize())

			err := f.s.Call(context.Background(), plugin.FuncDispatch, session.Invocation{
				Args: []string{tt.command, "--multi", "--query", "a b"},
			})
			require.NoError(t, err)
			assert.Equal(t,
				[]string{"fzf", "--preview", tt.preview, "--multi", "--query", "a b"},
				f.fc.LastArgv("fzf"))
		})
	}
}

func TestDispatch_SelectorError(t *testing.T) {
	f := newFixture(t, config.Default())
	f.fc.Register("fzf", "", fmt.Errorf("exit status 130"))
	require.NoError(t, f.s.Initialize())

	err := f.s.Dispatch(context.Background(), "cd", session.Invocation{})
	assert.ErrorContains(t, err, "exit status 130")
}

func TestExecMiddleware_Interpreter(t *testing.T) {
	cfg := config.Default()
	cfg.Aliases = map[string]string{"fcd": plugin.FuncDispatch + " cd"}
	f := newFixture(t, cfg, "FZF_DEFAULT_COMMAND=user")
	f.fc.Register("fzf", "picked\n", nil)
	require.NoError(t, f.s.Initialize())

	r, err := bash.NewRunner(bash.Options{Env: f.env, Middleware: []bash.ExecMiddleware{f.s.ExecMiddleware()}})
	require.NoError(t, err)
	ctx := context.Background()

	out, _, code, err := bash.RunCapture(ctx, r, plugin.FuncDispatch+" ssh --multi")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "picked\n", out)
	assert.Equal(t, []string{"fzf", "--preview", "dig {}", "--multi"}, f.fc.LastArgv("fzf"))
	assert.Equal(t, "fd --hidden --strip-cwd-prefix --exclude .git", f.fc.EnvCalls[len(f.fc.EnvCalls)-1]["FZF_DEFAULT_COMMAND"])

	_, _, code, err = bash.RunCapture(ctx, r, "fcd -q src")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"fzf", "--preview", "eza --tree --color=always {} | head -200", "-q", "src"}, f.fc.LastArgv("fzf"))

	_, _, code, err = bash.RunCapture(ctx, r, plugin.FuncUnload)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, session.Unloaded, f.s.State())

	out, _, _, err = bash.RunCapture(ctx, r, `printf '%s' "$FZF_DEFAULT_COMMAND"`)
	require.NoError(t, err)
	assert.Equal(t, "user", out)
}

func TestExecMiddleware_FunctionErrorIsExitStatus(t *testing.T) {
	f := newFixture(t, config.Default())
	f.fc.Register("fzf", "", fmt.Errorf("boom"))
	require.NoError(t, f.s.Initialize())

	r, err := bash.NewRunner(bash.Options{Env: f.env, Middleware: []bash.ExecMiddleware{f.s.ExecMiddleware()}})
	require.NoError(t, err)

	_, errOut, code, err := bash.RunCapture(context.Background(), r, plugin.FuncDispatch+" cd")
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "boom")
}

func TestUnloadScript(t *testing.T) {
	f := newFixture(t, config.Default(), "FZF_DEFAULT_COMMAND=rg --files")
	require.NoError(t, f.s.Initialize())

	script := f.s.UnloadScript()
	assert.Equal(t, session.Unloaded, f.s.State())
	assert.Equal(t,
		"export FZF_DEFAULT_COMMAND='rg --files'\nunset FZF_CTRL_T_COMMAND\nunset FZF_ALT_C_COMMAND\nunset -f fzi_plugin_unload\n",
		script)

	// already unloaded: only the shell function is dropped
	assert.Equal(t, "unset -f fzi_plugin_unload\n", f.s.UnloadScript())
}

func TestPrelude_UnloadRestoresInterpreterCopies(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		touch string
		want  string
	}{
		{"exported while unset", nil, "export FZF_DEFAULT_COMMAND", "unset"},
		{"reassigned", []string{"FZF_DEFAULT_COMMAND=mine"}, "FZF_DEFAULT_COMMAND=changed", "mine"},
		{"unset by script", []string{"FZF_DEFAULT_COMMAND=mine"}, "unset FZF_DEFAULT_COMMAND", "mine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.Default(), tt.pairs...)
			require.NoError(t, f.s.Initialize())

			ctx := context.Background()
			r, err := bash.NewRunner(bash.Options{Env: f.env, Middleware: []bash.ExecMiddleware{f.s.ExecMiddleware()}})
			require.NoError(t, err)
			require.NoError(t, bash.RunScript(ctx, r, strings.NewReader(session.Prelude()), "prelude"))

			script := tt.touch + "\n" + plugin.FuncUnload + "\n"
			require.NoError(t, bash.RunScript(ctx, r, strings.NewReader(script), "script"))
			assert.Equal(t, session.Unloaded, f.s.State())

			out, _, _, err := bash.RunCapture(ctx, r, `printf '%s' "${FZF_DEFAULT_COMMAND-unset}"`)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)

			_, _, code, err := bash.RunCapture(ctx, r, plugin.FuncUnload)
			require.NoError(t, err)
			assert.Equal(t, 127, code)
		})
	}
}
