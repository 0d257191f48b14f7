// Package session은 플러그인 로드/언로드 수명주기를 하나의 세션 객체로 관리한다.
// 함수 정의는 디스패치 테이블에 Go 클로저를 넣는 것이고,
// 모든 정의는 registry에 기록되어 Unload가 그 기록만으로 되돌린다.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hbjs97/fzi/internal/cmdexec"
	"github.com/hbjs97/fzi/internal/environ"
	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/registry"
	"github.com/hbjs97/fzi/internal/snapshot"
	"github.com/hbjs97/fzi/internal/tools"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyLoaded는 로드된 세션에 Initialize를 다시 호출했을 때의 sentinel error다.
	// 두 번째 캡처가 원래 값을 덮어쓰지 않도록 거부한다.
	ErrAlreadyLoaded = errors.New("플러그인이 이미 로드되어 있습니다")
	// ErrUndefined는 정의되지 않은 함수를 호출했을 때의 sentinel error다.
	ErrUndefined = errors.New("정의되지 않은 함수")
)

// State는 세션 상태다.
type State int

const (
	// Unloaded는 정의가 없는 상태다.
	Unloaded State = iota
	// Loaded는 Initialize가 끝난 상태다.
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// Invocation은 세션 함수 호출 한 번의 인자, 입출력, 자식 프로세스 환경이다.
type Invocation struct {
	Args  []string
	Stdio cmdexec.Stdio
	// Env는 외부 도구에 넘길 환경변수다. nil이면 현재 프로세스 환경을 그대로 쓴다.
	Env map[string]string
}

// Func는 세션에 정의되는 함수다.
type Func func(ctx context.Context, inv Invocation) error

// Options는 Session 생성 인자다.
type Options struct {
	Env        environ.Env
	Plan       *plugin.Plan
	Enumerator tools.Enumerator
	Selector   tools.Selector
	// Logger가 nil이면 zap.NewNop()을 쓴다.
	Logger *zap.Logger
}

// Session은 호출자가 소유하는 플러그인 세션이다.
type Session struct {
	env        environ.Env
	plan       *plugin.Plan
	enumerator tools.Enumerator
	selector   tools.Selector
	logger     *zap.Logger

	mu       sync.RWMutex
	state    State
	registry *registry.Registry
	snapshot *snapshot.Snapshot
	funcs    map[string]Func
	aliases  map[string]string
}

// New는 Unloaded 상태의 Session을 생성한다.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		env:        opts.Env,
		plan:       opts.Plan,
		enumerator: opts.Enumerator,
		selector:   opts.Selector,
		logger:     logger,
		funcs:      make(map[string]Func),
		aliases:    make(map[string]string),
	}
}

// Initialize는 변수를 캡처한 뒤 export하고 함수/alias를 정의한다.
// Loaded 상태에서 호출하면 아무것도 바꾸지 않고 ErrAlreadyLoaded를 반환한다.
func (s *Session) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Loaded {
		return fmt.Errorf("session.Initialize: %w", ErrAlreadyLoaded)
	}

	s.registry = registry.New()
	s.snapshot = snapshot.Capture(s.env, s.plan.Tracked...)

	for _, e := range s.plan.Commands {
		s.export(e)
	}

	s.define(plugin.FuncCompgenPath, s.compgen(tools.CompgenPath))
	s.define(plugin.FuncCompgenDir, s.compgen(tools.CompgenDir))

	for _, e := range s.plan.Opts {
		s.export(e)
	}

	s.define(plugin.FuncDispatch, func(ctx context.Context, inv Invocation) error {
		command := ""
		if len(inv.Args) > 0 {
			command = inv.Args[0]
			inv.Args = inv.Args[1:]
		}
		return s.Dispatch(ctx, command, inv)
	})

	for _, a := range s.plan.Aliases {
		s.aliases[a.Name] = a.Expansion
		s.registry.Remember(registry.KindAlias, a.Name)
		s.logger.Debug("alias defined", zap.String("name", a.Name))
	}

	s.define(plugin.FuncUnload, func(context.Context, Invocation) error {
		s.Unload()
		return nil
	})

	s.state = Loaded
	s.logger.Debug("session loaded",
		zap.Int("functions", s.registry.Len(registry.KindFunction)),
		zap.Int("aliases", s.registry.Len(registry.KindAlias)))
	return nil
}

// Unload는 registry에 기록된 정의를 모두 제거하고 스냅샷을 복원한다.
// 없는 함수/alias는 건너뛴다. Unloaded 상태에서는 아무것도 하지 않는다.
func (s *Session) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Loaded {
		return
	}

	for _, name := range s.registry.Names(registry.KindFunction) {
		if name == plugin.FuncUnload {
			continue
		}
		if _, ok := s.funcs[name]; ok {
			delete(s.funcs, name)
			s.logger.Debug("function removed", zap.String("name", name))
		}
	}
	for _, name := range s.registry.Names(registry.KindAlias) {
		delete(s.aliases, name)
	}
	s.registry = nil

	s.snapshot.Restore(s.env)
	s.snapshot = nil

	// The unload function goes last so a repeated call finds nothing to run.
	delete(s.funcs, plugin.FuncUnload)
	s.state = Unloaded
	s.logger.Debug("session unloaded")
}

// UnloadScript는 Unload를 실행하고, 인터프리터가 eval해서 같은 복원을 자기 변수에도
// 적용하도록 하는 스크립트를 반환한다. 스크립트는 셸 레벨 unload 함수도 제거한다.
func (s *Session) UnloadScript() string {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	s.Unload()

	var b strings.Builder
	if snap != nil {
		for _, name := range snap.Names() {
			if v, ok := snap.Value(name); ok {
				fmt.Fprintf(&b, "export %s=%s\n", name, tools.Quote(v))
				continue
			}
			fmt.Fprintf(&b, "unset %s\n", name)
		}
	}
	fmt.Fprintf(&b, "unset -f %s\n", plugin.FuncUnload)
	return b.String()
}

// State는 현재 세션 상태를 반환한다.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Defined는 name이 현재 함수로 정의되어 있는지 반환한다.
func (s *Session) Defined(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

// Alias는 name alias의 확장 문자열을 반환한다.
func (s *Session) Alias(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.aliases[name]
	return exp, ok
}

// Remembered는 registry에 기록된 이름을 반환한다. Unloaded 상태면 nil이다.
func (s *Session) Remembered(kind registry.Kind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.registry == nil {
		return nil
	}
	return s.registry.Names(kind)
}

// Call은 정의된 함수 name을 실행한다.
func (s *Session) Call(ctx context.Context, name string, inv Invocation) error {
	f, ok := s.lookup(name)
	if !ok {
		return fmt.Errorf("session.Call: %w: %s", ErrUndefined, name)
	}
	return f(ctx, inv)
}

// Dispatch는 호출 명령에 맞는 미리보기 식으로 셀렉터를 실행한다.
// inv.Args는 수정 없이 셀렉터 인자 뒤에 붙는다.
func (s *Session) Dispatch(ctx context.Context, command string, inv Invocation) error {
	preview := s.plan.PreviewFor(command)
	s.logger.Debug("dispatch", zap.String("command", command), zap.String("preview", preview))
	return s.selector.Select(ctx, inv.Stdio, inv.Env, preview, inv.Args)
}

func (s *Session) lookup(name string) (Func, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.funcs[name]
	return f, ok
}

func (s *Session) export(e plugin.Export) {
	s.env.Set(e.Name, e.Value)
	s.logger.Debug("variable exported", zap.String("name", e.Name))
}

func (s *Session) define(name string, f Func) {
	s.funcs[name] = f
	s.registry.Remember(registry.KindFunction, name)
	s.logger.Debug("function defined", zap.String("name", name))
}

func (s *Session) compgen(kind tools.CompgenKind) Func {
	return func(ctx context.Context, inv Invocation) error {
		base := "."
		if len(inv.Args) > 0 && inv.Args[0] != "" {
			base = inv.Args[0]
		}
		return s.enumerator.Enumerate(ctx, inv.Stdio, inv.Env, kind, base)
	}
}
