// Package snapshot은 덮어쓰기 전의 환경변수 값을 보관하고 복원한다.
package snapshot

import "github.com/hbjs97/fzi/internal/environ"

type entry struct {
	value   string
	present bool
}

// Snapshot은 캡처 시점의 변수 값이다. 캡처 이후 갱신되지 않는다.
type Snapshot struct {
	names   []string
	entries map[string]entry
}

// Capture는 names 각각의 현재 값과 존재 여부를 기록한다.
// 같은 이름이 여러 번 주어지면 한 번만 기록한다.
func Capture(env environ.Env, names ...string) *Snapshot {
	s := &Snapshot{entries: make(map[string]entry, len(names))}
	for _, name := range names {
		if _, ok := s.entries[name]; ok {
			continue
		}
		v, ok := env.Lookup(name)
		s.entries[name] = entry{value: v, present: ok}
		s.names = append(s.names, name)
	}
	return s
}

// Names는 캡처한 변수 이름을 순서대로 반환한다.
func (s *Snapshot) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Value는 캡처 시점의 값과 존재 여부를 반환한다.
func (s *Snapshot) Value(name string) (string, bool) {
	e := s.entries[name]
	return e.value, e.present
}

// Restore는 캡처한 값을 env에 되돌린다.
// 캡처 시점에 없던 변수는 빈 문자열이 아니라 unset 상태로 되돌린다.
func (s *Snapshot) Restore(env environ.Env) {
	for _, name := range s.names {
		e := s.entries[name]
		if e.present {
			env.Set(name, e.value)
			continue
		}
		env.Unset(name)
	}
}
