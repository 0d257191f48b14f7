package setup

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

// RunToolsForm은 셸/도구 선택 폼을 실행한다.
func (h *HuhFormRunner) RunToolsForm(defaults *ToolsInput, finders, selectors []string) (*ToolsInput, error) {
	input := &ToolsInput{Shell: "zsh", Finder: "fd", Selector: "fzf", Companion: true}
	if defaults != nil {
		*input = *defaults
	}

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("셸을 선택하세요").
			Options(huh.NewOptions("zsh", "bash")...).
			Value(&input.Shell),
		toolField("파일 나열 도구", finders, &input.Finder),
		toolField("셀렉터", selectors, &input.Selector),
		huh.NewConfirm().
			Title("unload 시 *_OPTS 변수도 복원할까요?").
			Value(&input.RestoreOpts),
		huh.NewConfirm().
			Title("fzf-git.sh companion 스크립트를 로드할까요?").
			Value(&input.Companion),
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("setup.RunToolsForm: %w", err)
	}
	return input, nil
}

// toolField는 감지된 후보가 있으면 선택, 없으면 직접 입력 필드를 만든다.
func toolField(title string, detected []string, value *string) huh.Field {
	if len(detected) == 0 {
		return huh.NewInput().
			Title(title).
			Description("PATH에서 찾지 못했습니다. 실행 파일 이름을 입력하세요").
			Value(value).
			Validate(huh.ValidateNotEmpty())
	}
	return huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(detected...)...).
		Value(value)
}

// RunActionSelect는 작업 선택 UI를 표시한다.
func (h *HuhFormRunner) RunActionSelect() (Action, error) {
	var action Action
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[Action]().
			Title("작업을 선택하세요").
			Options(
				huh.NewOption("도구 설정 변경", ActionReconfigure),
				huh.NewOption("셸 hook만 설치", ActionHookOnly),
			).
			Value(&action),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("setup.RunActionSelect: %w", err)
	}
	return action, nil
}

// RunConfirm은 확인 프롬프트를 표시한다.
func (h *HuhFormRunner) RunConfirm(message string) (bool, error) {
	var confirm bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("setup.RunConfirm: %w", err)
	}
	return confirm, nil
}
