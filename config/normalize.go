package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables overriding the file values.
const (
	envPrefix        = "EASYLOG_"
	envLogPath       = envPrefix + "LOG_PATH"
	envMaxLineLength = envPrefix + "MAX_LINE_LENGTH"
	envPrefixLength  = envPrefix + "PREFIX_LENGTH"
	envIgnoredRoutes = envPrefix + "IGNORED_ROUTES"
	envLevel         = envPrefix + "LEVEL"
	envProjectDir    = envPrefix + "PROJECT_DIR"
	envFormat        = envPrefix + "FORMAT"
)

// applyEnv overlays EASYLOG_* variables. IGNORED_ROUTES is a comma
// separated list; an empty value clears the list.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envLogPath); ok {
		c.LogPath = v
	}
	if v, ok := lookup(envMaxLineLength); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, envMaxLineLength, err)
		}
		c.MaxLineLength = n
	}
	if v, ok := lookup(envPrefixLength); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, envPrefixLength, err)
		}
		c.PrefixLength = n
	}
	if v, ok := lookup(envIgnoredRoutes); ok {
		c.IgnoredRoutes = splitList(v)
	}
	if v, ok := lookup(envLevel); ok {
		c.Level = v
	}
	if v, ok := lookup(envProjectDir); ok {
		c.ProjectDir = v
	}
	if v, ok := lookup(envFormat); ok {
		c.Format = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) normalize() error {
	c.LogPath = strings.TrimSpace(c.LogPath)
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Buffer.Overflow = strings.ToLower(strings.TrimSpace(c.Buffer.Overflow))

	if c.LogPath != "" && c.LogPath != "-" && strings.HasPrefix(c.LogPath, "~") {
		expanded, err := expandPath(c.LogPath)
		if err != nil {
			return err
		}
		c.LogPath = expanded
	}
	if c.ProjectDir = strings.TrimSpace(c.ProjectDir); c.ProjectDir != "" {
		expanded, err := expandPath(c.ProjectDir)
		if err != nil {
			return err
		}
		c.ProjectDir = expanded
	}

	routes := c.IgnoredRoutes[:0:0]
	for _, r := range c.IgnoredRoutes {
		if r = strings.TrimSpace(r); r != "" {
			routes = append(routes, r)
		}
	}
	c.IgnoredRoutes = routes
	return nil
}
