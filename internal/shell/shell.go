package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hbjs97/fzi/internal/plugin"
	"github.com/hbjs97/fzi/internal/registry"
	"github.com/hbjs97/fzi/internal/tools"
)

// ErrUnsupportedShell은 zsh/bash 외의 셸을 요청했을 때의 sentinel error다.
var ErrUnsupportedShell = errors.New("지원하지 않는 셸")

// Marker는 rc 파일에 설치된 hook을 식별하는 문자열이다.
const Marker = "fzi shell integration"

// 스크립트 내부에서 쓰는 전역 이름. 사용자 이름과 겹치지 않도록 _fzi_ 접두사를 쓴다.
const (
	loadedVar    = "_fzi_loaded"
	functionsVar = "_fzi_functions"
	aliasesVar   = "_fzi_aliases"
	savedPrefix  = "_fzi_saved_"
)

// dialect는 셸별 차이점이다.
type dialect struct {
	name string
	// removeFunc은 이름이 $1 자리에 오는 함수 제거 구문이다.
	removeFunc string
}

var dialects = map[string]dialect{
	"bash": {name: "bash", removeFunc: `unset -f "%s"`},
	"zsh":  {name: "zsh", removeFunc: `(( $+functions[%[1]s] )) && unfunction "%[1]s"`},
}

// Supported는 Render가 지원하는 셸인지 반환한다.
func Supported(shellType string) bool {
	_, ok := dialects[shellType]
	return ok
}

// Render는 Plan을 eval 가능한 셸 스크립트로 만든다.
// 이미 로드된 셸에서 다시 eval하면 아무것도 바꾸지 않고 경고만 출력한다.
func Render(p *plugin.Plan, shellType string) (string, error) {
	d, ok := dialects[shellType]
	if !ok {
		return "", fmt.Errorf("shell.Render: %w: %q", ErrUnsupportedShell, shellType)
	}

	var b strings.Builder
	reg := registry.New()
	fmt.Fprintf(&b, "# fzi plugin (%s)\n", d.name)
	fmt.Fprintf(&b, "if [ -n \"${%s-}\" ]; then\n", loadedVar)
	b.WriteString("  printf '%s\\n' 'fzi: plugin already loaded' >&2\n")
	b.WriteString("else\n")
	fmt.Fprintf(&b, "%s=1\n", loadedVar)
	fmt.Fprintf(&b, "%s=()\n%s=()\n", functionsVar, aliasesVar)

	for _, name := range p.Tracked {
		writeCapture(&b, name)
	}

	for _, e := range p.Commands {
		writeExport(&b, e)
	}

	writeCompgen(&b, reg, p, plugin.FuncCompgenPath, tools.CompgenPath)
	writeCompgen(&b, reg, p, plugin.FuncCompgenDir, tools.CompgenDir)

	for _, e := range p.Opts {
		writeExport(&b, e)
	}

	writeDispatch(&b, reg, p)

	for _, a := range p.Aliases {
		fmt.Fprintf(&b, "alias %s=%s\n", a.Name, tools.Quote(a.Expansion))
		remember(&b, reg, registry.KindAlias, a.Name)
	}

	writeUnload(&b, reg, p, d)

	if p.CompanionScript != "" {
		path := tools.Quote(p.CompanionScript)
		fmt.Fprintf(&b, "if [ -f %s ]; then\n  source %s\nfi\n", path, path)
	}
	b.WriteString("fi\n")
	return b.String(), nil
}

func writeCapture(b *strings.Builder, name string) {
	saved := savedPrefix + name
	fmt.Fprintf(b, "if [ -n \"${%s+x}\" ]; then %s=\"$%s\"; else unset %s; fi\n", name, saved, name, saved)
}

func writeExport(b *strings.Builder, e plugin.Export) {
	fmt.Fprintf(b, "export %s=%s\n", e.Name, tools.Quote(e.Value))
}

// remember는 이름을 reg에 기록하고, 처음 기록된 이름만 스크립트 배열에 추가한다.
func remember(b *strings.Builder, reg *registry.Registry, kind registry.Kind, name string) {
	if reg.Has(kind, name) {
		return
	}
	reg.Remember(kind, name)
	array := functionsVar
	if kind == registry.KindAlias {
		array = aliasesVar
	}
	fmt.Fprintf(b, "%s+=(%s)\n", array, name)
}

func writeFunction(b *strings.Builder, reg *registry.Registry, name string, body ...string) {
	fmt.Fprintf(b, "%s() {\n", name)
	for _, line := range body {
		fmt.Fprintf(b, "  %s\n", line)
	}
	b.WriteString("}\n")
	remember(b, reg, registry.KindFunction, name)
}

func writeCompgen(b *strings.Builder, reg *registry.Registry, p *plugin.Plan, name string, kind tools.CompgenKind) {
	argv := p.Tools.CompgenArgs(kind, "")
	argv = argv[:len(argv)-1]
	writeFunction(b, reg, name, tools.Join(argv)+` "${1:-.}"`)
}

func writeDispatch(b *strings.Builder, reg *registry.Registry, p *plugin.Plan) {
	selector := tools.Quote(p.Tools.Selector)
	body := []string{
		`local _fzi_cmd=$1`,
		`shift`,
		`case "$_fzi_cmd" in`,
	}
	for _, br := range p.Branches() {
		pattern := "*"
		if len(br.Commands) > 0 {
			pattern = strings.Join(br.Commands, "|")
		}
		body = append(body, fmt.Sprintf(`  %s) %s --preview %s "$@" ;;`, pattern, selector, tools.Quote(br.Preview)))
	}
	body = append(body, "esac")
	writeFunction(b, reg, plugin.FuncDispatch, body...)
}

func writeUnload(b *strings.Builder, reg *registry.Registry, p *plugin.Plan, d dialect) {
	body := []string{
		`local _fzi_name`,
		fmt.Sprintf(`for _fzi_name in "${%s[@]}"; do`, functionsVar),
		fmt.Sprintf(`  [ "$_fzi_name" = %s ] && continue`, plugin.FuncUnload),
		"  " + fmt.Sprintf(d.removeFunc, "$_fzi_name"),
		`done`,
		fmt.Sprintf(`for _fzi_name in "${%s[@]}"; do`, aliasesVar),
		`  unalias "$_fzi_name" 2>/dev/null || true`,
		`done`,
		fmt.Sprintf(`unset %s %s`, functionsVar, aliasesVar),
	}
	for _, name := range p.Tracked {
		saved := savedPrefix + name
		body = append(body, fmt.Sprintf(
			`if [ -n "${%[2]s+x}" ]; then export %[1]s="$%[2]s"; unset %[2]s; else unset %[1]s; fi`,
			name, saved))
	}
	body = append(body,
		fmt.Sprintf(`unset %s`, loadedVar),
		fmt.Sprintf(d.removeFunc, plugin.FuncUnload),
	)
	writeFunction(b, reg, plugin.FuncUnload, body...)
}

// HookSnippet는 rc 파일에 추가할 로드 스니펫을 반환한다. 지원하지 않는 셸이면 빈 문자열이다.
func HookSnippet(shellType string) string {
	if !Supported(shellType) {
		return ""
	}
	return fmt.Sprintf("# %s (%s)\neval \"$(fzi init --shell %s)\"\n", Marker, shellType, shellType)
}
