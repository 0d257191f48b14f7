// Package registry는 플러그인이 동적으로 정의한 함수/alias 이름을 기록한다.
// unload 시 이 기록만으로 정의를 되돌린다.
package registry

import "fmt"

// Kind는 기록 대상의 종류다.
type Kind string

const (
	// KindFunction은 셸 함수다.
	KindFunction Kind = "function"
	// KindAlias는 셸 alias다.
	KindAlias Kind = "alias"
)

// Registry는 Kind별로 중복 없는 이름 목록을 삽입 순서대로 보관한다.
type Registry struct {
	names map[Kind][]string
	seen  map[Kind]map[string]struct{}
}

// New는 빈 Registry를 생성한다.
func New() *Registry {
	r := &Registry{
		names: make(map[Kind][]string),
		seen:  make(map[Kind]map[string]struct{}),
	}
	for _, k := range []Kind{KindFunction, KindAlias} {
		r.seen[k] = make(map[string]struct{})
	}
	return r
}

// Remember는 name을 kind 목록에 추가한다. 이미 있으면 아무것도 하지 않는다.
// 알 수 없는 kind는 호출자 버그이므로 panic한다.
func (r *Registry) Remember(kind Kind, name string) {
	seen := r.set(kind)
	if _, ok := seen[name]; ok {
		return
	}
	seen[name] = struct{}{}
	r.names[kind] = append(r.names[kind], name)
}

// Names는 kind에 기록된 이름을 삽입 순서대로 복사해 반환한다.
func (r *Registry) Names(kind Kind) []string {
	r.set(kind)
	out := make([]string, len(r.names[kind]))
	copy(out, r.names[kind])
	return out
}

// Has는 name이 kind에 기록되어 있는지 반환한다.
func (r *Registry) Has(kind Kind, name string) bool {
	_, ok := r.set(kind)[name]
	return ok
}

// Len은 kind에 기록된 이름 수를 반환한다.
func (r *Registry) Len(kind Kind) int {
	return len(r.set(kind))
}

func (r *Registry) set(kind Kind) map[string]struct{} {
	seen, ok := r.seen[kind]
	if !ok {
		panic(fmt.Sprintf("registry: 알 수 없는 kind: %q", kind))
	}
	return seen
}
