package session

import (
	"context"
	"fmt"
	"io"

	"github.com/hbjs97/fzi/internal/bash"
	"github.com/hbjs97/fzi/internal/cmdexec"
	"github.com/hbjs97/fzi/internal/plugin"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/shell"
)

// hostUnload는 Prelude의 unload 래퍼가 복원 스크립트를 얻으려고 호출하는 명령이다.
const hostUnload = "_fzi_host_unload"

// Prelude는 세션을 로드한 인터프리터에서 Initialize 직후 실행할 스크립트다.
// 인터프리터는 export나 대입을 거친 변수를 자기 쪽에 따로 들고 있으므로
// 셸 함수 fzi_plugin_unload가 세션을 unload한 뒤 복원 스크립트를 인터프리터 안에서 eval한다.
func Prelude() string {
	return fmt.Sprintf("%s() {\n  eval \"$(%s)\"\n}\n", plugin.FuncUnload, hostUnload)
}

// ExecMiddleware는 세션의 alias와 함수를 인터프리터 명령으로 노출한다.
// alias는 첫 단어만 한 번 확장하고, 세션 함수가 아닌 명령은 next로 넘긴다.
func (s *Session) ExecMiddleware() bash.ExecMiddleware {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			hc := interp.HandlerCtx(ctx)

			if exp, ok := s.Alias(args[0]); ok {
				fields, err := shell.Fields(exp, func(name string) string {
					return hc.Env.Get(name).String()
				})
				if err != nil {
					return fmt.Errorf("session.ExecMiddleware: alias %s: %w", args[0], err)
				}
				if len(fields) > 0 {
					args = append(fields, args[1:]...)
				}
			}

			if args[0] == hostUnload {
				_, err := io.WriteString(hc.Stdout, s.UnloadScript())
				return err
			}

			f, ok := s.lookup(args[0])
			if !ok {
				return next(ctx, args)
			}

			inv := Invocation{
				Args:  args[1:],
				Stdio: cmdexec.Stdio{In: hc.Stdin, Out: hc.Stdout, Err: hc.Stderr},
				Env:   bash.ExportedEnv(hc.Env),
			}
			if err := f(ctx, inv); err != nil {
				s.logger.Debug("function failed", zap.String("name", args[0]), zap.Error(err))
				fmt.Fprintf(hc.Stderr, "%s: %v\n", args[0], err)
				return interp.NewExitStatus(1)
			}
			return nil
		}
	}
}
