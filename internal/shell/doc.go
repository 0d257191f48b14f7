// Package shell은 플러그인 Plan을 zsh/bash에서 eval할 스크립트로 렌더링한다.
// 렌더링된 스크립트는 자신이 정의한 함수와 alias를 셸 배열에 기록하고,
// fzi_plugin_unload가 그 배열만 보고 정의를 되돌린다.
package shell
