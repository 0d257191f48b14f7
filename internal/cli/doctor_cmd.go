package cli

import (
	"fmt"

	"github.com/hbjs97/fzi/internal/config"
	"github.com/hbjs97/fzi/internal/doctor"
	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newDoctorCmd() *cobra.Command {
	var shellFlag string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "외부 도구, companion, 셸 hook 상태를 진단한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []doctor.DiagResult

			cfg, err := config.LoadOrDefault(a.CfgPath)
			if err != nil {
				results = append(results, doctor.DiagResult{
					Name:    "config",
					Status:  doctor.StatusFail,
					Message: err.Error(),
					Fix:     "fzi setup --force",
				})
				cfg = config.Default()
			}

			shellType := resolveShell(shellFlag, cfg)
			rcPath := a.RCPath
			if rcPath == "" {
				rcPath = setup.ShellRCPath(shellType)
			}

			results = append(results, doctor.RunAll(cmd.Context(), a.Commander, a.env(), plugin.New(cfg), rcPath, shellType)...)
			doctor.Print(cmd.OutOrStdout(), results)
			if doctor.HasFailure(results) {
				return fmt.Errorf("cli.doctor: %w", ErrDoctorFailed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&shellFlag, "shell", "", "hook을 확인할 셸 (zsh, bash)")
	return cmd
}
