package setup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hbjs97/fzi/internal/cmdexec"
	"github.com/samber/lo"
)

// 배포판마다 실행 파일 이름이 다른 도구의 후보. Debian/Ubuntu는 fd를 fdfind로 설치한다.
var (
	FinderCandidates   = []string{"fd", "fdfind"}
	SelectorCandidates = []string{"fzf", "sk"}
)

// DetectShell은 현재 사용자의 셸을 감지한다.
func DetectShell() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return ""
	}
	return filepath.Base(sh)
}

// DetectTools는 candidates 중 `--version`이 성공하는 도구를 순서대로 반환한다.
// 조회 실패는 에러로 차단하지 않는다.
func DetectTools(ctx context.Context, cmd cmdexec.Commander, candidates []string) []string {
	return lo.Filter(candidates, func(name string, _ int) bool {
		_, err := cmd.Run(ctx, name, "--version")
		return err == nil
	})
}
