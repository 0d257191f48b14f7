// Package bash는 mvdan.cc/sh 인터프리터로 스크립트를 실행하는 헬퍼다.
// 내장 호스트(fzi run)와 렌더링된 스크립트 검증에 쓰인다.
package bash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ExecMiddleware는 외부 명령 실행 전에 끼어드는 핸들러 래퍼다.
type ExecMiddleware = func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc

// Options는 NewRunner 인자다. 빈 필드는 프로세스 기본값을 쓴다.
type Options struct {
	Env        expand.Environ
	Dir        string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Middleware []ExecMiddleware
}

// NewRunner는 Options로 interp.Runner를 생성한다.
func NewRunner(opts Options) (*interp.Runner, error) {
	stdin, stdout, stderr := opts.Stdin, opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	runOpts := []interp.RunnerOption{
		interp.StdIO(stdin, stdout, stderr),
		interp.ExecHandlers(opts.Middleware...),
	}
	if opts.Env != nil {
		runOpts = append(runOpts, interp.Env(opts.Env))
	}
	if opts.Dir != "" {
		runOpts = append(runOpts, interp.Dir(opts.Dir))
	}

	runner, err := interp.New(runOpts...)
	if err != nil {
		return nil, fmt.Errorf("bash.NewRunner: %w", err)
	}
	return runner, nil
}

// RunScript는 reader의 스크립트를 runner에서 실행한다 (subshell이 아님).
// 정의한 함수와 변수는 runner에 남는다.
func RunScript(ctx context.Context, runner *interp.Runner, reader io.Reader, name string) error {
	prog, err := syntax.NewParser().Parse(reader, name)
	if err != nil {
		return fmt.Errorf("bash.RunScript: %w", err)
	}
	return runner.Run(ctx, prog)
}

// RunFile은 파일을 열어 RunScript로 실행한다.
func RunFile(ctx context.Context, runner *interp.Runner, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("bash.RunFile: %w", err)
	}
	defer f.Close()
	return RunScript(ctx, runner, f, path)
}

// RunCapture는 command를 subshell에서 실행하고 stdout, stderr, 종료 코드를 반환한다.
// 0이 아닌 종료 코드는 error가 아니다. 종료 코드는 따로 확인한다.
func RunCapture(ctx context.Context, runner *interp.Runner, command string) (string, string, int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", "", 1, fmt.Errorf("bash.RunCapture: %w", err)
	}

	sub := runner.Subshell()
	outBuf := &threadSafeBuffer{}
	errBuf := &threadSafeBuffer{}
	interp.StdIO(nil, outBuf, errBuf)(sub) //nolint:errcheck

	err = sub.Run(ctx, prog)
	if err == nil {
		return outBuf.String(), errBuf.String(), 0, nil
	}

	if status, ok := interp.IsExitStatus(err); ok {
		return outBuf.String(), errBuf.String(), int(status), nil
	}
	return outBuf.String(), errBuf.String(), 1, err
}

// ExportedEnv는 env에서 export된 변수만 map으로 반환한다.
func ExportedEnv(env expand.Environ) map[string]string {
	out := make(map[string]string)
	env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			out[name] = vr.String()
		}
		return true
	})
	return out
}

// threadSafeBuffer is written from pipeline goroutines inside the interpreter.
type threadSafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *threadSafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
