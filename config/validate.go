package config

import (
	"errors"
	"fmt"

	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/handler"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFormatter(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateBuffer(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFormatter() error {
	if c.MaxLineLength < 1 {
		return fmt.Errorf("%w: max_line_length must be at least 1, got %d", ErrInvalid, c.MaxLineLength)
	}
	if c.PrefixLength < 0 {
		return fmt.Errorf("%w: prefix_length must not be negative, got %d", ErrInvalid, c.PrefixLength)
	}
	switch c.Format {
	case FormatEasyLog, FormatJSONL:
	default:
		return fmt.Errorf("%w: format must be %q or %q, got %q", ErrInvalid, FormatEasyLog, FormatJSONL, c.Format)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.LogPath == "" {
		return fmt.Errorf("%w: log_path must be set", ErrInvalid)
	}
	if _, ok := core.ParseLevel(c.Level); !ok {
		return fmt.Errorf("%w: unknown level %q", ErrInvalid, c.Level)
	}
	if c.Rotation.MaxSizeMB < 0 {
		return fmt.Errorf("%w: rotation.max_size_mb must not be negative", ErrInvalid)
	}
	if c.Rotation.MaxBackups < 0 {
		return fmt.Errorf("%w: rotation.max_backups must not be negative", ErrInvalid)
	}
	return nil
}

func (c *Config) validateBuffer() error {
	if c.Buffer.Limit < 0 {
		return fmt.Errorf("%w: buffer.limit must not be negative", ErrInvalid)
	}
	if _, err := handler.ParseOverflowPolicy(c.Buffer.Overflow); err != nil {
		return fmt.Errorf("%w: buffer.overflow: %v", ErrInvalid, err)
	}
	return nil
}
