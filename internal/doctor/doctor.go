package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hbjs97/fzi/internal/cmdexec"
	"github.com/hbjs97/fzi/internal/companion"
	"github.com/hbjs97/fzi/internal/environ"
	"github.com/hbjs97/fzi/internal/git"
	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/shell"
	"github.com/samber/lo"
)

// ErrFailed는 진단 결과에 FAIL 항목이 있을 때의 sentinel error다.
var ErrFailed = errors.New("진단 실패 항목이 있습니다")

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

type binary struct {
	name     string
	args     []string
	install  string
	required bool
}

// CheckBinaries는 플러그인이 위임하는 외부 도구와 git의 존재 여부를 확인한다.
// 파일 나열 도구와 셀렉터가 없으면 FAIL, 나머지는 미리보기만 깨지므로 WARN이다.
func CheckBinaries(ctx context.Context, cmd cmdexec.Commander, p *plugin.Plan) []DiagResult {
	ts := p.Tools
	binaries := []binary{
		{ts.Finder, []string{"--version"}, "https://github.com/sharkdp/fd", true},
		{ts.Selector, []string{"--version"}, "https://github.com/junegunn/fzf", true},
		{ts.Tree, []string{"--version"}, "https://github.com/eza-community/eza", false},
		{ts.Pager, []string{"--version"}, "https://github.com/sharkdp/bat", false},
		{ts.Resolver, []string{"-v"}, "bind-utils(dnsutils) 패키지를 설치하세요", false},
	}

	var results []DiagResult
	for _, b := range binaries {
		out, err := cmd.Run(ctx, b.name, b.args...)
		if err != nil {
			status := StatusWarn
			if b.required {
				status = StatusFail
			}
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  status,
				Message: fmt.Sprintf("%s 없음", b.name),
				Fix:     fmt.Sprintf("설치: %s", b.install),
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    b.name,
			Status:  StatusOK,
			Message: firstLine(out),
		})
	}
	return append(results, checkGit(ctx, git.NewAdapter(cmd)))
}

// checkGit은 companion bootstrap에 필요한 git을 확인한다. 없어도 WARN이다.
func checkGit(ctx context.Context, g *git.Adapter) DiagResult {
	version, err := g.Version(ctx)
	if err != nil {
		return DiagResult{
			Name:    "git",
			Status:  StatusWarn,
			Message: "git 없음",
			Fix:     "설치: https://git-scm.com/downloads",
		}
	}
	return DiagResult{Name: "git", Status: StatusOK, Message: firstLine([]byte(version))}
}

// CheckCompanion은 companion 스크립트가 준비되어 있는지 확인한다.
func CheckCompanion(p *plugin.Plan) DiagResult {
	switch {
	case p.CompanionScript == "":
		return DiagResult{Name: "companion", Status: StatusOK, Message: "companion 비활성화"}
	case companion.Present(p.CompanionScript):
		return DiagResult{Name: "companion", Status: StatusOK, Message: p.CompanionScript}
	default:
		return DiagResult{
			Name:    "companion",
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s 없음", p.CompanionScript),
			Fix:     "fzi bootstrap 실행",
		}
	}
}

// CheckShadowedVars는 플러그인이 덮어쓸 변수가 이미 설정되어 있는지 확인한다.
// 설정된 값은 로드 시 캡처되고 unload 시 복원된다.
func CheckShadowedVars(env environ.Env, p *plugin.Plan) DiagResult {
	set := lo.Filter(p.Tracked, func(name string, _ int) bool {
		_, ok := env.Lookup(name)
		return ok
	})
	if len(set) == 0 {
		return DiagResult{Name: "env_vars", Status: StatusOK, Message: "덮어쓸 변수 없음"}
	}
	return DiagResult{
		Name:    "env_vars",
		Status:  StatusWarn,
		Message: fmt.Sprintf("%s 설정됨, unload 시 복원됩니다", strings.Join(set, ", ")),
	}
}

// CheckHook은 rc 파일에 셸 hook이 설치되어 있는지 확인한다.
func CheckHook(rcPath, shellType string) DiagResult {
	data, err := os.ReadFile(rcPath)
	if err == nil && strings.Contains(string(data), shell.Marker) {
		return DiagResult{Name: "shell_hook", Status: StatusOK, Message: rcPath}
	}
	return DiagResult{
		Name:    "shell_hook",
		Status:  StatusWarn,
		Message: fmt.Sprintf("%s에 hook 없음", rcPath),
		Fix:     fmt.Sprintf("fzi setup 실행 또는 %s에 추가: %s", rcPath, strings.TrimSpace(lastLine(shell.HookSnippet(shellType)))),
	}
}

// RunAll은 모든 진단을 실행한다. rcPath가 비어있으면 hook 확인을 건너뛴다.
func RunAll(ctx context.Context, cmd cmdexec.Commander, env environ.Env, p *plugin.Plan, rcPath, shellType string) []DiagResult {
	var results []DiagResult
	results = append(results, CheckBinaries(ctx, cmd, p)...)
	results = append(results, CheckCompanion(p))
	results = append(results, CheckShadowedVars(env, p))
	if rcPath != "" {
		results = append(results, CheckHook(rcPath, shellType))
	}
	return results
}

// HasFailure는 FAIL 결과가 있는지 반환한다.
func HasFailure(results []DiagResult) bool {
	return lo.ContainsBy(results, func(r DiagResult) bool { return r.Status == StatusFail })
}

// Print는 진단 결과 목록을 w에 출력한다.
func Print(w io.Writer, results []DiagResult) {
	for _, r := range results {
		fmt.Fprintf(w, "  [%s] %s: %s\n", statusIcon(r.Status), r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", r.Fix)
		}
	}
}

func statusIcon(s Status) string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarn:
		return "!!"
	case StatusFail:
		return "FAIL"
	default:
		return "??"
	}
}

func firstLine(out []byte) string {
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
