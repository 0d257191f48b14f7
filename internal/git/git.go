package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbjs97/fzi/internal/cmdexec"
)

// Adapter는 git CLI를 Commander를 통해 실행한다.
type Adapter struct {
	cmd cmdexec.Commander
}

// NewAdapter는 새 Git Adapter를 생성한다.
func NewAdapter(cmd cmdexec.Commander) *Adapter {
	return &Adapter{cmd: cmd}
}

// TopLevel은 dir이 속한 작업 트리의 최상위 경로를 반환한다.
func (a *Adapter) TopLevel(ctx context.Context, dir string) (string, error) {
	out, err := a.cmd.Run(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("git.TopLevel: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// SubmoduleUpdate는 dir의 서브모듈을 재귀적으로 초기화/갱신한다.
func (a *Adapter) SubmoduleUpdate(ctx context.Context, dir string) error {
	out, err := a.cmd.Run(ctx, "git", "-C", dir, "submodule", "update", "--init", "--recursive")
	if err != nil {
		return fmt.Errorf("git.SubmoduleUpdate: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Version은 `git --version` 출력을 반환한다.
func (a *Adapter) Version(ctx context.Context) (string, error) {
	out, err := a.cmd.Run(ctx, "git", "--version")
	if err != nil {
		return "", fmt.Errorf("git.Version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
