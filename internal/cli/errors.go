package cli

import (
	"github.com/hbjs97/fzi/internal/companion"
	"github.com/hbjs97/fzi/internal/config"
	"github.com/hbjs97/fzi/internal/doctor"
	"github.com/hbjs97/fzi/internal/session"
	"github.com/hbjs97/fzi/internal/shell"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
	// ErrUnsupportedShell은 zsh/bash 외의 셸을 요청했을 때의 sentinel error다.
	ErrUnsupportedShell = shell.ErrUnsupportedShell
	// ErrCompanionMissing은 부트스트랩 후에도 companion 스크립트가 없을 때의 sentinel error다.
	ErrCompanionMissing = companion.ErrMissing
	// ErrDoctorFailed는 doctor 결과에 FAIL 항목이 있을 때의 sentinel error다.
	ErrDoctorFailed = doctor.ErrFailed
	// ErrAlreadyLoaded는 로드된 세션을 다시 초기화할 때의 sentinel error다.
	ErrAlreadyLoaded = session.ErrAlreadyLoaded
)
