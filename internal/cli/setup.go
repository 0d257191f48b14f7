package cli

import (
	"fmt"
	"os"

	"github.com/hbjs97/fzi/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newSetupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "대화형으로 도구를 고르고 설정 파일과 셸 hook을 만든다",
		RunE: func(cmd *cobra.Command, args []string) error {
			if force {
				if err := os.Remove(a.CfgPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("cli.setup: %w", err)
				}
			}

			fr := a.FormRunner
			if fr == nil {
				fr = &setup.HuhFormRunner{}
			}
			r := &setup.Runner{
				CfgPath:    a.CfgPath,
				Commander:  a.Commander,
				FormRunner: fr,
				Out:        cmd.OutOrStdout(),
				RCPath:     a.RCPath,
			}
			return r.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "기존 설정을 지우고 처음부터 설정")
	return cmd
}
