package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hbjs97/fzi/internal/cmdexec"
	"github.com/hbjs97/fzi/internal/config"
	"github.com/hbjs97/fzi/internal/doctor"
	"github.com/hbjs97/fzi/internal/environ"
	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/shell"
	"github.com/samber/lo"
)

// Runner는 interactive setup의 진입점이다.
type Runner struct {
	CfgPath    string
	Commander  cmdexec.Commander
	FormRunner FormRunner
	Out        io.Writer // 비어있으면 os.Stdout.
	RCPath     string    // 테스트용. 비어있으면 ShellRCPath(shell).
}

// Run은 setup 플로우를 실행한다.
func (r *Runner) Run(ctx context.Context) error {
	_, err := os.Stat(r.CfgPath)
	if os.IsNotExist(err) {
		return r.runFirstTime(ctx)
	}
	if err != nil {
		return fmt.Errorf("setup.Run: %w", err)
	}
	return r.runExisting(ctx)
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) runFirstTime(ctx context.Context) error {
	fmt.Fprintln(r.out(), "fzi 초기 설정을 시작합니다.")

	cfg := config.Default()
	if err := r.configure(ctx, cfg); err != nil {
		return err
	}
	return r.finish(ctx, cfg)
}

// runExisting는 기존 config가 있을 때의 플로우다.
func (r *Runner) runExisting(ctx context.Context) error {
	cfg, err := config.Load(r.CfgPath)
	if err != nil {
		return err
	}

	action, err := r.FormRunner.RunActionSelect()
	if err != nil {
		return err
	}

	switch action {
	case ActionReconfigure:
		if err := r.configure(ctx, cfg); err != nil {
			return err
		}
		return r.finish(ctx, cfg)
	case ActionHookOnly:
		r.installHook(r.shellOf(cfg))
		return nil
	default:
		return fmt.Errorf("setup: 알 수 없는 작업: %s", action)
	}
}

// configure는 폼 입력으로 cfg를 갱신하고 저장한다.
func (r *Runner) configure(ctx context.Context, cfg *config.Config) error {
	finders := DetectTools(ctx, r.Commander, FinderCandidates)
	selectors := DetectTools(ctx, r.Commander, SelectorCandidates)

	defaults := &ToolsInput{
		Shell:       r.shellOf(cfg),
		Finder:      cfg.Tools.Finder,
		Selector:    cfg.Tools.Selector,
		RestoreOpts: cfg.RestoreOpts,
		Companion:   cfg.IsCompanion(),
	}
	// 설정된 도구가 없고 다른 후보만 있으면 감지된 첫 후보를 기본값으로 한다.
	if len(finders) > 0 && !lo.Contains(finders, defaults.Finder) {
		defaults.Finder = finders[0]
	}
	if len(selectors) > 0 && !lo.Contains(selectors, defaults.Selector) {
		defaults.Selector = selectors[0]
	}

	input, err := r.FormRunner.RunToolsForm(defaults, finders, selectors)
	if err != nil {
		return err
	}

	cfg.Shell = input.Shell
	cfg.Tools.Finder = input.Finder
	cfg.Tools.Selector = input.Selector
	cfg.RestoreOpts = input.RestoreOpts
	companion := input.Companion
	cfg.Companion = &companion

	if err := config.Save(r.CfgPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "설정 파일이 저장되었습니다: %s\n", r.CfgPath)
	return nil
}

func (r *Runner) finish(ctx context.Context, cfg *config.Config) error {
	shellType := r.shellOf(cfg)
	ok, err := r.FormRunner.RunConfirm(fmt.Sprintf("%s에 셸 hook을 설치할까요?", r.rcPath(shellType)))
	if err != nil {
		return err
	}
	if ok {
		r.installHook(shellType)
	}
	r.runDoctor(ctx, cfg, shellType)
	return nil
}

func (r *Runner) shellOf(cfg *config.Config) string {
	if cfg.Shell != "" {
		return cfg.Shell
	}
	if sh := DetectShell(); shell.Supported(sh) {
		return sh
	}
	return "zsh"
}

func (r *Runner) rcPath(shellType string) string {
	if r.RCPath != "" {
		return r.RCPath
	}
	return ShellRCPath(shellType)
}

func (r *Runner) installHook(shellType string) {
	rcPath := r.rcPath(shellType)
	if rcPath == "" {
		return
	}
	if err := InstallShellHook(shellType, rcPath); err != nil {
		fmt.Fprintf(os.Stderr, "경고: 셸 hook 설치 실패: %v\n", err)
		return
	}
	fmt.Fprintf(r.out(), "셸 hook이 설치되었습니다: %s\n", rcPath)
}

// runDoctor는 설정 완료 후 환경 진단을 실행한다.
func (r *Runner) runDoctor(ctx context.Context, cfg *config.Config, shellType string) {
	fmt.Fprintln(r.out(), "\n환경 진단 실행 중...")
	results := doctor.RunAll(ctx, r.Commander, environ.OS{}, plugin.New(cfg), r.rcPath(shellType), shellType)
	doctor.Print(r.out(), results)
}
