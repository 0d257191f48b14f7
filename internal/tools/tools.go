// Package tools는 fzi가 위임하는 외부 도구(파일 나열, 트리, 페이저, 셀렉터, DNS 조회)의
// 호출 규약을 정의한다. 도구 자체의 동작은 다루지 않는다.
package tools

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hbjs97/fzi/internal/config"
	"mvdan.cc/sh/v3/syntax"
)

// CompgenKind는 자동완성 후보의 종류다.
type CompgenKind string

const (
	// CompgenPath는 파일과 디렉토리 후보다.
	CompgenPath CompgenKind = "path"
	// CompgenDir는 디렉토리 후보만이다.
	CompgenDir CompgenKind = "dir"
)

// Toolset은 설정에서 읽은 도구 이름과 고정 인자다.
type Toolset struct {
	Finder     string
	Tree       string
	Pager      string
	Selector   string
	Resolver   string
	Exclude    []string
	TreeLines  int
	PagerLines int
}

// FromConfig는 config.Tools로 Toolset을 만든다.
func FromConfig(t config.Tools) Toolset {
	return Toolset{
		Finder:     t.Finder,
		Tree:       t.Tree,
		Pager:      t.Pager,
		Selector:   t.Selector,
		Resolver:   t.Resolver,
		Exclude:    t.Exclude,
		TreeLines:  t.TreeLines,
		PagerLines: t.PagerLines,
	}
}

// DefaultCommandArgs는 기본 파일 나열 명령이다 (숨김 포함, 제외 디렉토리, 상대 경로).
func (t Toolset) DefaultCommandArgs() []string {
	args := []string{t.Finder, "--hidden", "--strip-cwd-prefix"}
	return append(args, t.excludeArgs()...)
}

// DirCommandArgs는 디렉토리만 나열하는 명령이다.
func (t Toolset) DirCommandArgs() []string {
	args := []string{t.Finder, "--type=d", "--hidden", "--strip-cwd-prefix"}
	return append(args, t.excludeArgs()...)
}

// CompgenArgs는 base 아래의 자동완성 후보를 나열하는 명령이다.
func (t Toolset) CompgenArgs(kind CompgenKind, base string) []string {
	args := []string{t.Finder}
	if kind == CompgenDir {
		args = append(args, "--type=d")
	}
	args = append(args, "--hidden")
	args = append(args, t.excludeArgs()...)
	return append(args, ".", base)
}

func (t Toolset) excludeArgs() []string {
	args := make([]string, 0, len(t.Exclude)*2)
	for _, e := range t.Exclude {
		args = append(args, "--exclude", e)
	}
	return args
}

// TreePreview는 {} 경로의 디렉토리 트리를 TreeLines줄까지 보여주는 미리보기 식이다.
func (t Toolset) TreePreview() string {
	return fmt.Sprintf("%s --tree --color=always {} | head -%d", t.Tree, t.TreeLines)
}

// FilePreview는 {} 파일을 PagerLines줄까지 하이라이트하는 미리보기 식이다.
func (t Toolset) FilePreview() string {
	return fmt.Sprintf("%s -n --color=always --line-range :%d {}", t.Pager, t.PagerLines)
}

// FileOrDirPreview는 디렉토리면 트리, 아니면 파일 내용을 보여주는 미리보기 식이다.
func (t Toolset) FileOrDirPreview() string {
	return fmt.Sprintf("if [ -d {} ]; then %s; else %s; fi", t.TreePreview(), t.FilePreview())
}

// VarPreview는 {} 이름의 환경변수 값을 보여주는 미리보기 식이다.
func (t Toolset) VarPreview() string {
	return "eval 'echo ${}'"
}

// DNSPreview는 {} 호스트를 DNS 조회하는 미리보기 식이다.
func (t Toolset) DNSPreview() string {
	return t.Resolver + " {}"
}

// PreviewOpts는 셀렉터에 넘길 "--preview <expr>" 옵션 문자열이다.
func PreviewOpts(expr string) string {
	return "--preview " + Quote(expr)
}

var safeWord = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Quote는 s를 POSIX 셸에서 한 단어로 해석되도록 인용한다.
// 인용이 필요 없는 단어는 그대로 반환한다.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if safeWord.MatchString(s) {
		return s
	}
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Only NUL bytes are unquotable; drop them.
		q, _ = syntax.Quote(strings.ReplaceAll(s, "\x00", ""), syntax.LangBash)
	}
	return q
}

// Join은 argv를 셸 명령 문자열로 합친다.
func Join(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = Quote(a)
	}
	return strings.Join(parts, " ")
}
