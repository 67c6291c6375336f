package main

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/easylog/config"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool
	errWriter   io.Writer

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *zap.Logger
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
		errWriter:   os.Stderr,
	}
}

func (c *commandContext) setErrWriter(w io.Writer) {
	if w != nil {
		c.errWriter = w
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
		c.zapLogger().Debug("configuration loaded",
			zap.String("path", resolved),
			zap.Bool("exists", exists),
		)
	})
	return c.config, c.configErr
}

// zapLogger returns the diagnostics logger. Warnings always reach stderr;
// --verbose adds debug output.
func (c *commandContext) zapLogger() *zap.Logger {
	c.loggerOnce.Do(func() {
		level := zapcore.WarnLevel
		if c.verboseFlag != nil && *c.verboseFlag {
			level = zapcore.DebugLevel
		}
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.TimeKey = ""
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.AddSync(c.errWriter),
			level,
		)
		c.logger = zap.New(core).Named("easylog")
	})
	return c.logger
}

func (c *commandContext) syncLogger() {
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
