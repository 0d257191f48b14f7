package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("설정 파일 오류")

// Config는 fzi 설정 파일의 최상위 구조체다.
type Config struct {
	Version int `toml:"version"`
	// Shell은 init의 기본 셸이다 (zsh, bash). 비어있으면 $SHELL에서 감지한다.
	Shell string `toml:"shell"`
	// EnvPrefix는 셀렉터가 읽는 환경변수 이름의 접두사다.
	EnvPrefix string `toml:"env_prefix"`
	// RestoreOpts가 true면 *_OPTS 변수도 unload 시 복원한다.
	RestoreOpts     bool              `toml:"restore_opts"`
	Companion       *bool             `toml:"companion"`
	CompanionScript string            `toml:"companion_script"`
	CompanionRepo   string            `toml:"companion_repo"`
	Tools           Tools             `toml:"tools"`
	Aliases         map[string]string `toml:"aliases"`
}

// Tools는 외부 도구 이름과 고정 인자 설정이다.
type Tools struct {
	Finder     string   `toml:"finder"`
	Tree       string   `toml:"tree"`
	Pager      string   `toml:"pager"`
	Selector   string   `toml:"selector"`
	Resolver   string   `toml:"resolver"`
	Exclude    []string `toml:"exclude"`
	TreeLines  int      `toml:"tree_lines"`
	PagerLines int      `toml:"pager_lines"`
}

var (
	envPrefixRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	aliasNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)
)

// Default는 설정 파일이 없을 때 사용하는 기본 설정을 반환한다.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// Load는 config.toml을 파싱하여 Config를 반환한다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault는 파일이 없으면 기본 설정을, 있으면 Load 결과를 반환한다.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save는 설정을 TOML로 저장한다 (0600 권한).
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// IsCompanion은 companion 스크립트 로드 여부를 반환한다.
func (c *Config) IsCompanion() bool {
	if c.Companion == nil {
		return true
	}
	return *c.Companion
}

// DefaultDir는 fzi 설정 디렉토리(~/.config/fzi)를 반환한다.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "fzi")
}

// ExpandHome은 "~/" 접두사를 홈 디렉토리로 치환한다.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.EnvPrefix == "" {
		c.EnvPrefix = "FZF_"
	}
	if c.Companion == nil {
		t := true
		c.Companion = &t
	}
	if c.CompanionRepo == "" {
		c.CompanionRepo = DefaultDir()
	}
	if c.CompanionScript == "" {
		c.CompanionScript = filepath.Join(c.CompanionRepo, "fzf-git.sh", "fzf-git.sh")
	}
	c.CompanionRepo = ExpandHome(c.CompanionRepo)
	c.CompanionScript = ExpandHome(c.CompanionScript)

	t := &c.Tools
	if t.Finder == "" {
		t.Finder = "fd"
	}
	if t.Tree == "" {
		t.Tree = "eza"
	}
	if t.Pager == "" {
		t.Pager = "bat"
	}
	if t.Selector == "" {
		t.Selector = "fzf"
	}
	if t.Resolver == "" {
		t.Resolver = "dig"
	}
	if t.Exclude == nil {
		t.Exclude = []string{".git"}
	}
	if t.TreeLines == 0 {
		t.TreeLines = 200
	}
	if t.PagerLines == 0 {
		t.PagerLines = 500
	}
	if c.Aliases == nil {
		c.Aliases = make(map[string]string)
	}
}

func (c *Config) validate() error {
	switch c.Shell {
	case "", "zsh", "bash":
	default:
		return fmt.Errorf("config.Load: %w: shell은 zsh 또는 bash여야 합니다: %s", ErrConfig, c.Shell)
	}
	if !envPrefixRegex.MatchString(c.EnvPrefix) {
		return fmt.Errorf("config.Load: %w: env_prefix가 올바르지 않습니다: %q", ErrConfig, c.EnvPrefix)
	}
	if c.Tools.TreeLines < 0 || c.Tools.PagerLines < 0 {
		return fmt.Errorf("config.Load: %w: tools.tree_lines/pager_lines는 양수여야 합니다", ErrConfig)
	}
	for name, expansion := range c.Aliases {
		if !aliasNameRegex.MatchString(name) {
			return fmt.Errorf("config.Load: %w: aliases.%s 이름이 올바르지 않습니다", ErrConfig, name)
		}
		if strings.TrimSpace(expansion) == "" {
			return fmt.Errorf("config.Load: %w: aliases.%s 값이 비어있습니다", ErrConfig, name)
		}
	}
	return nil
}
