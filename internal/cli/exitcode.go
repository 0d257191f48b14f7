package cli

import (
	"errors"

	"mvdan.cc/sh/v3/interp"
)

// ExitCode는 fzi의 종료 코드다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitUnsupportedShell은 지원하지 않는 셸이다.
	ExitUnsupportedShell ExitCode = 2
	// ExitCompanionMissing은 companion 스크립트를 준비하지 못한 경우다.
	ExitCompanionMissing ExitCode = 3
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 5
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
// fzi run의 스크립트 종료 상태는 그대로 전달한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	status, isStatus := interp.IsExitStatus(err)
	switch {
	case isStatus:
		return ExitCode(status)
	case errors.Is(err, ErrUnsupportedShell):
		return ExitUnsupportedShell
	case errors.Is(err, ErrCompanionMissing):
		return ExitCompanionMissing
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitGeneral
	}
}

// IsExitStatus는 err가 스크립트 종료 상태인지 반환한다. 이 경우 에러 메시지를 출력하지 않는다.
func IsExitStatus(err error) bool {
	_, ok := interp.IsExitStatus(err)
	return ok
}
