package cli

import (
	"fmt"
	"io"

	"github.com/hbjs97/fzi/internal/companion"
	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) newInitCmd() *cobra.Command {
	var shellType string
	var hookOnly bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "셸에서 eval할 플러그인 스크립트를 출력한다",
		Long: `셸에서 eval할 플러그인 스크립트를 출력한다.

  eval "$(fzi init --shell zsh)"

로드 후 fzi_plugin_unload를 실행하면 모든 정의가 제거되고 덮어쓴 변수가 복원된다.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd.OutOrStdout(), shellType, hookOnly)
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "", "셸 유형 (zsh, bash). 비어있으면 설정 또는 $SHELL")
	cmd.Flags().BoolVar(&hookOnly, "hook", false, "rc 파일용 hook 스니펫만 출력")
	return cmd
}

func (a *App) runInit(w io.Writer, shellFlag string, hookOnly bool) error {
	cfg, p, err := a.loadPlan()
	if err != nil {
		return err
	}
	shellType := resolveShell(shellFlag, cfg)

	if hookOnly {
		snippet := shell.HookSnippet(shellType)
		if snippet == "" {
			return fmt.Errorf("cli.init: %w: %q", ErrUnsupportedShell, shellType)
		}
		_, err := io.WriteString(w, snippet)
		return err
	}

	a.dropMissingCompanion(p)

	script, err := shell.Render(p, shellType)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, script)
	return err
}

// dropMissingCompanion은 companion 스크립트가 없으면 경고하고 로드 대상에서 뺀다.
func (a *App) dropMissingCompanion(p *plugin.Plan) {
	if p.CompanionScript == "" || companion.Present(p.CompanionScript) {
		return
	}
	a.logger().Warn("companion script not found, run `fzi bootstrap`",
		zap.String("path", p.CompanionScript))
	p.CompanionScript = ""
}
