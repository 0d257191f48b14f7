// Package plugin은 fzi가 셸에 적용하는 정의 목록(Plan)을 만든다.
// 같은 Plan을 스크립트 호스트(internal/shell)와 내장 세션(internal/session)이 소비한다.
package plugin

import (
	"sort"

	"github.com/hbjs97/fzi/internal/config"
	"github.com/hbjs97/fzi/internal/tools"
	"github.com/samber/lo"
)

// 플러그인이 정의하는 함수 이름. fzf의 자동완성 hook 이름 규약을 따른다.
const (
	FuncCompgenPath = "_fzf_compgen_path"
	FuncCompgenDir  = "_fzf_compgen_dir"
	FuncDispatch    = "_fzf_comprun"
	FuncUnload      = "fzi_plugin_unload"
)

// 환경변수 이름 접미사. 실제 이름은 Config.EnvPrefix + 접미사다.
const (
	VarDefaultCommand = "DEFAULT_COMMAND"
	VarCtrlTCommand   = "CTRL_T_COMMAND"
	VarAltCCommand    = "ALT_C_COMMAND"
	VarCtrlTOpts      = "CTRL_T_OPTS"
	VarAltCOpts       = "ALT_C_OPTS"
)

// Export는 export할 변수 하나다.
type Export struct {
	Name  string
	Value string
}

// Alias는 정의할 alias 하나다.
type Alias struct {
	Name      string
	Expansion string
}

// Plan은 initialize가 수행할 정의 목록이다.
type Plan struct {
	Tools tools.Toolset

	// Commands는 스냅샷 캡처 직후 export하는 명령 변수들이다.
	Commands []Export
	// Opts는 자동완성 함수 정의 뒤에 export하는 미리보기 옵션 변수들이다.
	Opts []Export
	// Tracked는 캡처/복원 대상 변수 이름이다.
	Tracked []string
	// Aliases는 이름순으로 정렬되어 있다.
	Aliases []Alias

	// CompanionScript가 비어있지 않으면 로드 시 source한다.
	CompanionScript string
	CompanionRepo   string
}

// New는 설정으로 Plan을 만든다.
func New(cfg *config.Config) *Plan {
	ts := tools.FromConfig(cfg.Tools)
	ts.Exclude = lo.Uniq(ts.Exclude)

	p := &Plan{Tools: ts}
	name := func(suffix string) string { return cfg.EnvPrefix + suffix }

	defaultCmd := tools.Join(ts.DefaultCommandArgs())
	p.Commands = []Export{
		{Name: name(VarDefaultCommand), Value: defaultCmd},
		{Name: name(VarCtrlTCommand), Value: defaultCmd},
		{Name: name(VarAltCCommand), Value: tools.Join(ts.DirCommandArgs())},
	}
	p.Opts = []Export{
		{Name: name(VarCtrlTOpts), Value: tools.PreviewOpts(ts.FileOrDirPreview())},
		{Name: name(VarAltCOpts), Value: tools.PreviewOpts(ts.TreePreview())},
	}

	p.Tracked = lo.Map(p.Commands, func(e Export, _ int) string { return e.Name })
	if cfg.RestoreOpts {
		p.Tracked = append(p.Tracked, lo.Map(p.Opts, func(e Export, _ int) string { return e.Name })...)
	}

	names := lo.Keys(cfg.Aliases)
	sort.Strings(names)
	for _, n := range names {
		p.Aliases = append(p.Aliases, Alias{Name: n, Expansion: cfg.Aliases[n]})
	}

	if cfg.IsCompanion() {
		p.CompanionScript = cfg.CompanionScript
		p.CompanionRepo = cfg.CompanionRepo
	}
	return p
}

// Functions는 정의 순서대로 함수 이름을 반환한다. unload 함수는 항상 마지막이다.
func (p *Plan) Functions() []string {
	return []string{FuncCompgenPath, FuncCompgenDir, FuncDispatch, FuncUnload}
}

// Branch는 디스패처 분기 하나다.
type Branch struct {
	// Commands가 비어있으면 기본 분기다.
	Commands []string
	Preview  string
}

// Branches는 디스패처 분기표다. 마지막 항목이 기본 분기다.
func (p *Plan) Branches() []Branch {
	return []Branch{
		{Commands: []string{"cd"}, Preview: p.Tools.TreePreview()},
		{Commands: []string{"export", "unset"}, Preview: p.Tools.VarPreview()},
		{Commands: []string{"ssh"}, Preview: p.Tools.DNSPreview()},
		{Preview: p.Tools.FileOrDirPreview()},
	}
}

// PreviewFor는 호출 명령에 맞는 미리보기 식을 반환한다.
func (p *Plan) PreviewFor(command string) string {
	branches := p.Branches()
	for _, b := range branches {
		if lo.Contains(b.Commands, command) {
			return b.Preview
		}
	}
	return branches[len(branches)-1].Preview
}
