package tools

import (
	"context"
	"fmt"

	"github.com/hbjs97/fzi/internal/cmdexec"
)

// Enumerator는 base 아래의 자동완성 후보를 stdio.Out으로 나열한다.
type Enumerator interface {
	Enumerate(ctx context.Context, stdio cmdexec.Stdio, env map[string]string, kind CompgenKind, base string) error
}

// Selector는 후보 중 하나 이상을 고르는 대화형 도구다.
// preview는 셀렉터가 후보마다 실행할 미리보기 식이고, args는 그대로 덧붙인다.
type Selector interface {
	Select(ctx context.Context, stdio cmdexec.Stdio, env map[string]string, preview string, args []string) error
}

// FinderEnumerator는 Toolset.Finder(기본 fd)로 후보를 나열한다.
type FinderEnumerator struct {
	Commander cmdexec.Commander
	Tools     Toolset
}

var _ Enumerator = (*FinderEnumerator)(nil)

// Enumerate는 finder를 실행한다.
func (e *FinderEnumerator) Enumerate(ctx context.Context, stdio cmdexec.Stdio, env map[string]string, kind CompgenKind, base string) error {
	argv := e.Tools.CompgenArgs(kind, base)
	if err := e.Commander.RunInteractive(ctx, stdio, env, argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("tools.Enumerate: %w", err)
	}
	return nil
}

// FuzzySelector는 Toolset.Selector(기본 fzf)를 실행한다.
type FuzzySelector struct {
	Commander cmdexec.Commander
	Tools     Toolset
}

var _ Selector = (*FuzzySelector)(nil)

// Select는 "--preview <expr> args..."로 셀렉터를 실행한다.
func (s *FuzzySelector) Select(ctx context.Context, stdio cmdexec.Stdio, env map[string]string, preview string, args []string) error {
	argv := SelectArgs(preview, args)
	if err := s.Commander.RunInteractive(ctx, stdio, env, s.Tools.Selector, argv...); err != nil {
		return fmt.Errorf("tools.Select: %w", err)
	}
	return nil
}

// SelectArgs는 셀렉터 인자 목록이다. args는 수정 없이 뒤에 붙는다.
func SelectArgs(preview string, args []string) []string {
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, "--preview", preview)
	return append(argv, args...)
}
