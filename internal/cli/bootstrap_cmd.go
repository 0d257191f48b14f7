package cli

import (
	"fmt"

	"github.com/hbjs97/fzi/internal/companion"
	"github.com/hbjs97/fzi/internal/git"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "companion 스크립트가 없으면 git submodule로 가져온다",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := a.loadPlan()
			if err != nil {
				return err
			}
			if p.CompanionScript == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "companion이 비활성화되어 있습니다.")
				return nil
			}

			a.logger().Debug("bootstrap companion",
				zap.String("path", cfg.CompanionScript),
				zap.String("repo", cfg.CompanionRepo))

			b := companion.New(git.NewAdapter(a.Commander))
			path, err := b.Ensure(cmd.Context(), cfg.CompanionScript, cfg.CompanionRepo)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "companion: %s\n", path)
			return nil
		},
	}
}
