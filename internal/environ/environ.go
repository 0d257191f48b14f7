// Package environ은 플러그인이 덮어쓰는 환경변수 집합을 추상화한다.
// 값이 빈 문자열인 경우와 변수가 없는 경우를 구분한다.
package environ

import (
	"os"
	"sort"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
)

// Env는 세션이 읽고 쓰는 환경변수 테이블이다.
type Env interface {
	// Lookup은 name의 값과 존재 여부를 반환한다.
	Lookup(name string) (string, bool)
	// Set은 name을 value로 설정(export)한다.
	Set(name, value string)
	// Unset은 name을 제거한다. 빈 문자열로 남기지 않는다.
	Unset(name string)
}

// Map은 메모리 기반 Env다.
// expand.Environ도 구현하므로 내장 셸 인터프리터의 부모 환경으로 쓸 수 있다.
type Map struct {
	mu   sync.RWMutex
	vars map[string]string
}

var (
	_ Env            = (*Map)(nil)
	_ expand.Environ = (*Map)(nil)
)

// NewMap은 "KEY=VALUE" 쌍으로 Map을 생성한다. '='이 없는 항목은 무시한다.
func NewMap(pairs ...string) *Map {
	m := &Map{vars: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			continue
		}
		m.vars[name] = value
	}
	return m
}

// FromOS는 현재 프로세스 환경을 복사한 Map을 생성한다.
func FromOS() *Map {
	return NewMap(os.Environ()...)
}

// Lookup은 name의 값과 존재 여부를 반환한다.
func (m *Map) Lookup(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[name]
	return v, ok
}

// Set은 name을 value로 설정한다.
func (m *Map) Set(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[name] = value
}

// Unset은 name을 제거한다.
func (m *Map) Unset(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, name)
}

// Pairs는 "KEY=VALUE" 목록을 이름순으로 반환한다.
func (m *Map) Pairs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vars))
	for k, v := range m.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Get은 expand.Environ 구현이다. 없는 변수는 zero Variable(unset)이다.
func (m *Map) Get(name string) expand.Variable {
	v, ok := m.Lookup(name)
	if !ok {
		return expand.Variable{}
	}
	// ListEnviron builds an exported string variable for us.
	return expand.ListEnviron(name + "=" + v).Get(name)
}

// Each는 expand.Environ 구현이다.
func (m *Map) Each(fn func(name string, vr expand.Variable) bool) {
	expand.ListEnviron(m.Pairs()...).Each(fn)
}

// OS는 프로세스 환경을 직접 다루는 Env다.
type OS struct{}

var _ Env = OS{}

// Lookup은 os.LookupEnv를 호출한다.
func (OS) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Set은 os.Setenv를 호출한다. 실패는 무시한다 (이름이 비어있는 경우뿐).
func (OS) Set(name, value string) {
	_ = os.Setenv(name, value)
}

// Unset은 os.Unsetenv를 호출한다.
func (OS) Unset(name string) {
	_ = os.Unsetenv(name)
}
