package cli

import (
	"fmt"
	"strings"

	"github.com/hbjs97/fzi/internal/bash"
	"github.com/hbjs97/fzi/internal/environ"
	"github.com/hbjs97/fzi/internal/session"
	"github.com/hbjs97/fzi/internal/tools"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) newRunCmd() *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "플러그인을 로드한 내장 셸에서 명령이나 스크립트를 실행한다",
		Long: `플러그인을 로드한 내장 셸에서 명령이나 스크립트를 실행한다.
-c와 script가 모두 없으면 표준 입력을 스크립트로 읽는다. 스크립트의 종료 상태가 fzi의 종료 상태가 된다.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRun(cmd, command, args)
		},
	}
	cmd.Flags().StringVarP(&command, "command", "c", "", "실행할 명령 문자열")
	return cmd
}

func (a *App) runRun(cmd *cobra.Command, command string, args []string) error {
	if command != "" && len(args) > 0 {
		return fmt.Errorf("cli.run: -c와 script는 함께 쓸 수 없습니다")
	}

	_, p, err := a.loadPlan()
	if err != nil {
		return err
	}
	a.dropMissingCompanion(p)

	env := a.runEnv()
	s := session.New(session.Options{
		Env:        env,
		Plan:       p,
		Enumerator: &tools.FinderEnumerator{Commander: a.Commander, Tools: p.Tools},
		Selector:   &tools.FuzzySelector{Commander: a.Commander, Tools: p.Tools},
		Logger:     a.logger(),
	})
	if err := s.Initialize(); err != nil {
		return err
	}

	runner, err := bash.NewRunner(bash.Options{
		Env:        env,
		Stdin:      cmd.InOrStdin(),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
		Middleware: []bash.ExecMiddleware{s.ExecMiddleware()},
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := bash.RunScript(ctx, runner, strings.NewReader(session.Prelude()), "fzi-prelude"); err != nil {
		return err
	}

	if p.CompanionScript != "" {
		if err := bash.RunFile(ctx, runner, p.CompanionScript); err != nil && !IsExitStatus(err) {
			a.logger().Warn("companion script failed", zap.String("path", p.CompanionScript), zap.Error(err))
		}
	}

	switch {
	case command != "":
		return bash.RunScript(ctx, runner, strings.NewReader(command), "-c")
	case len(args) == 1:
		return bash.RunFile(ctx, runner, args[0])
	default:
		return bash.RunScript(ctx, runner, cmd.InOrStdin(), "stdin")
	}
}

// runEnv는 내장 셸의 부모 환경이다. 세션이 이 Map을 직접 수정한다.
func (a *App) runEnv() *environ.Map {
	if m, ok := a.Env.(*environ.Map); ok {
		return m
	}
	return environ.FromOS()
}
