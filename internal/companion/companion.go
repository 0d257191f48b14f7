// Package companion은 fzf-git.sh 같은 선택적 통합 스크립트의 존재를 확인하고,
// 없으면 git 서브모듈로 가져온다.
package companion

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hbjs97/fzi/internal/git"
)

// ErrMissing은 부트스트랩 후에도 스크립트가 없을 때의 sentinel error다.
var ErrMissing = errors.New("companion 스크립트를 찾을 수 없습니다")

// Present는 path가 일반 파일로 존재하는지 반환한다.
func Present(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Bootstrapper는 companion 스크립트를 준비한다.
type Bootstrapper struct {
	git *git.Adapter
}

// New는 Bootstrapper를 생성한다.
func New(g *git.Adapter) *Bootstrapper {
	return &Bootstrapper{git: g}
}

// Ensure는 스크립트가 있으면 그대로 path를 반환한다.
// 없으면 repoDir에서 서브모듈을 갱신한 뒤 다시 확인하고, 그래도 없으면 ErrMissing이다.
func (b *Bootstrapper) Ensure(ctx context.Context, path, repoDir string) (string, error) {
	if Present(path) {
		return path, nil
	}

	if _, err := b.git.TopLevel(ctx, repoDir); err != nil {
		return "", fmt.Errorf("companion.Ensure: %s는 git 저장소가 아닙니다: %w", repoDir, err)
	}
	if err := b.git.SubmoduleUpdate(ctx, repoDir); err != nil {
		return "", fmt.Errorf("companion.Ensure: %w", err)
	}

	if !Present(path) {
		return "", fmt.Errorf("companion.Ensure: %w: %s", ErrMissing, path)
	}
	return path, nil
}
