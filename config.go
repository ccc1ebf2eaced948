package pagevfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendURing  = "uring"

	// DefaultArenaSize is used by the memory backend when ArenaSize is unset.
	DefaultArenaSize = 64 << 20
)

// Config selects and tunes a page storage backend.
type Config struct {
	Backend        string `yaml:"backend"`
	Path           string `yaml:"path"`
	Mode           string `yaml:"mode"`
	Rings          int    `yaml:"rings"`
	QueueDepth     uint32 `yaml:"queueDepth"`
	SQThreadIdleMs int    `yaml:"sqThreadIdleMs"`
	ArenaSize      int    `yaml:"arenaSize"`
	Lock           bool   `yaml:"lock"`

	// Logf receives backend lifecycle messages; nil disables logging.
	Logf func(format string, args ...any) `yaml:"-"`
}

// LoadConfig reads a yaml config file.
func LoadConfig(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Path != "" {
		if cfg.Path, err = expandUserPath(cfg.Path); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (c *Config) withDefaults() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.ArenaSize <= 0 {
		c.ArenaSize = DefaultArenaSize
	}
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	return filepath.Join(home, trimmed[2:]), nil
}
