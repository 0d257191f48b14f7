package cli

import (
	"fmt"

	"github.com/hbjs97/fzi/internal/companion"
	"github.com/hbjs97/fzi/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "추적 변수와 companion, hook 상태를 출력한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := a.loadPlan()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			env := a.env()

			for _, name := range p.Tracked {
				v, ok := env.Lookup(name)
				if !ok {
					v = "(unset)"
				}
				fmt.Fprintf(w, "%-24s %s\n", name, v)
			}

			switch {
			case p.CompanionScript == "":
				fmt.Fprintln(w, "companion: disabled")
			case companion.Present(p.CompanionScript):
				fmt.Fprintf(w, "companion: %s\n", p.CompanionScript)
			default:
				fmt.Fprintf(w, "companion: missing (%s)\n", p.CompanionScript)
			}

			shellType := resolveShell("", cfg)
			rcPath := a.RCPath
			if rcPath == "" {
				rcPath = setup.ShellRCPath(shellType)
			}
			hook := "not installed"
			if rcPath != "" && setup.HookInstalled(rcPath) {
				hook = "installed"
			}
			fmt.Fprintf(w, "hook (%s): %s\n", shellType, hook)
			return nil
		},
	}
}
