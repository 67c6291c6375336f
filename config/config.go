package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/formatter"
	"github.com/philipp01105/easylog/handler"
	"github.com/philipp01105/easylog/jsonl"
)

//go:embed sample_config.toml
var sampleConfig string

// Output formats accepted by Format.
const (
	FormatEasyLog = "easylog"
	FormatJSONL   = "jsonl"
)

// Rotation contains the backup policy of the log file.
type Rotation struct {
	MaxSizeMB  int  `toml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups"`
	Compress   bool `toml:"compress"`
}

// Buffer bounds the records collected for one unit of work.
type Buffer struct {
	Limit    int    `toml:"limit"`
	Overflow string `toml:"overflow"`
}

// Config is the complete EasyLog configuration.
type Config struct {
	LogPath       string   `toml:"log_path"`
	MaxLineLength int      `toml:"max_line_length"`
	PrefixLength  int      `toml:"prefix_length"`
	IgnoredRoutes []string `toml:"ignored_routes"`
	Level         string   `toml:"level"`
	ProjectDir    string   `toml:"project_dir"`
	Format        string   `toml:"format"`
	Rotation      Rotation `toml:"rotation"`
	Buffer        Buffer   `toml:"buffer"`
}

// ProjectFile is looked up in the working directory when no path is given.
const ProjectFile = "easylog.toml"

// DefaultConfigPath returns the absolute path to the user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/easylog/config.toml")
}

// Load locates, parses, and validates a configuration file. Values are
// layered as defaults, then the file when it exists, then EASYLOG_*
// environment variables. It returns the resolved path and whether the file
// existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(ProjectFile)
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath resolves "~" and makes pathValue absolute.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
// An existing file is left alone unless force is set.
func CreateSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists: %w", path, fs.ErrExist)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// MinLevel returns the parsed minimum level. The configuration must be valid.
func (c *Config) MinLevel() core.Level {
	level, _ := core.ParseLevel(c.Level)
	return level
}

// OverflowPolicy returns the parsed buffer overflow policy.
func (c *Config) OverflowPolicy() handler.OverflowPolicy {
	policy, err := handler.ParseOverflowPolicy(c.Buffer.Overflow)
	if err != nil {
		return handler.Flush
	}
	return policy
}

// MaxSizeBytes returns the rotation threshold in bytes (0 = no rotation).
func (c *Config) MaxSizeBytes() int64 {
	return int64(c.Rotation.MaxSizeMB) * 1024 * 1024
}

// FormatterConfig returns the settings of the EasyLog formatter.
func (c *Config) FormatterConfig() formatter.Config {
	cfg := formatter.DefaultConfig()
	cfg.MaxLineLength = c.MaxLineLength
	cfg.PrefixLength = c.PrefixLength
	cfg.IgnoredRoutes = append([]string(nil), c.IgnoredRoutes...)
	cfg.ProjectDir = c.ProjectDir
	return cfg
}

// BatchFormatter builds the formatter selected by Format.
func (c *Config) BatchFormatter() formatter.BatchFormatter {
	if c.Format == FormatJSONL {
		return jsonl.NewEncoder()
	}
	return formatter.NewEasyLogFormatter(c.FormatterConfig())
}
