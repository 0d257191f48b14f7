package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/spf13/cobra"
)

func (a *App) newPreviewCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "preview [command]",
		Short: "디스패처가 명령에 적용할 미리보기 식을 출력한다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := a.loadPlan()
			if err != nil {
				return err
			}
			if all {
				printBranches(cmd.OutOrStdout(), p)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("cli.preview: 명령 이름이 필요합니다 (또는 --all)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.PreviewFor(args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "모든 분기 출력")
	return cmd
}

func printBranches(w io.Writer, p *plugin.Plan) {
	for _, br := range p.Branches() {
		label := "*"
		if len(br.Commands) > 0 {
			label = strings.Join(br.Commands, "|")
		}
		fmt.Fprintf(w, "%-14s %s\n", label, br.Preview)
	}
}
