// Package logging은 fzi의 zap 로거를 구성한다.
// stdout은 셸이 eval하는 출력 전용이므로 로그는 항상 stderr나 파일로 간다.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 환경변수로 로그 레벨과 출력 파일을 덮어쓸 수 있다.
const (
	EnvLevel = "FZI_LOG_LEVEL"
	EnvFile  = "FZI_LOG_FILE"
)

// New는 로거를 생성한다.
// 기본 레벨은 WARN이고 verbose면 DEBUG다. FZI_LOG_LEVEL이 있으면 그 값이 우선한다.
func New(verbose bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		level.SetLevel(zap.DebugLevel)
	}
	if raw := os.Getenv(EnvLevel); raw != "" {
		l, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("logging.New: %s: %w", EnvLevel, err)
		}
		level.SetLevel(l)
	}

	output := "stderr"
	if path := os.Getenv(EnvFile); path != "" {
		output = path
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = !verbose
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging.New: %w", err)
	}
	return logger, nil
}
