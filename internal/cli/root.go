package cli

import (
	"path/filepath"

	"github.com/hbjs97/fzi/internal/cmdexec"
	"github.com/hbjs97/fzi/internal/config"
	"github.com/hbjs97/fzi/internal/environ"
	"github.com/hbjs97/fzi/internal/logging"
	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/setup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App은 CLI 명령이 공유하는 의존성이다. 테스트는 필드를 직접 채운다.
type App struct {
	Commander cmdexec.Commander
	CfgPath   string
	Verbose   bool

	// Env가 nil이면 프로세스 환경을 쓴다.
	Env environ.Env
	// FormRunner가 nil이면 huh 폼을 쓴다.
	FormRunner setup.FormRunner
	// RCPath가 비어있으면 셸별 기본 rc 파일을 쓴다.
	RCPath string
	// Logger가 nil이면 명령 실행 전에 --verbose에 맞춰 생성한다.
	Logger *zap.Logger
}

// NewApp은 실제 명령 실행기를 쓰는 App을 생성한다.
func NewApp() *App {
	return &App{Commander: &cmdexec.RealCommander{}}
}

// NewRootCmd는 fzi CLI의 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fzi",
		Short:         "fzf 셸 통합 플러그인 로더",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.Logger != nil {
				return nil
			}
			logger, err := logging.New(a.Verbose)
			if err != nil {
				return err
			}
			a.Logger = logger
			return nil
		},
	}

	defaultCfg := a.CfgPath
	if defaultCfg == "" {
		defaultCfg = filepath.Join(config.DefaultDir(), "config.toml")
	}
	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", defaultCfg, "설정 파일 경로")
	cmd.PersistentFlags().BoolVar(&a.Verbose, "verbose", false, "상세 로그 출력")

	cmd.AddCommand(
		a.newInitCmd(),
		a.newRunCmd(),
		a.newPreviewCmd(),
		a.newBootstrapCmd(),
		a.newDoctorCmd(),
		a.newStatusCmd(),
		a.newSetupCmd(),
	)
	return cmd
}

func (a *App) env() environ.Env {
	if a.Env != nil {
		return a.Env
	}
	return environ.OS{}
}

func (a *App) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

// loadPlan은 설정 파일(없으면 기본값)로 Plan을 만든다.
func (a *App) loadPlan() (*config.Config, *plugin.Plan, error) {
	cfg, err := config.LoadOrDefault(a.CfgPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, plugin.New(cfg), nil
}

// resolveShell은 플래그, 설정, $SHELL 순서로 셸을 정한다.
func resolveShell(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.Shell != "" {
		return cfg.Shell
	}
	return setup.DetectShell()
}
