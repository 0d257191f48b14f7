package setup

// Action은 설정 파일이 이미 있을 때 사용자가 선택하는 작업이다.
type Action string

const (
	ActionReconfigure Action = "reconfigure"
	ActionHookOnly    Action = "hook"
)

// ToolsInput은 설정 폼의 입력 값이다.
type ToolsInput struct {
	Shell       string
	Finder      string
	Selector    string
	RestoreOpts bool
	Companion   bool
}

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunToolsForm은 셸/도구 선택 폼을 실행한다.
	// finders/selectors는 PATH에서 감지된 후보이며 비어있으면 직접 입력으로 fallback한다.
	RunToolsForm(defaults *ToolsInput, finders, selectors []string) (*ToolsInput, error)

	// RunActionSelect는 작업 선택 UI를 표시한다.
	RunActionSelect() (Action, error)

	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)
}
