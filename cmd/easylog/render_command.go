package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipp01105/easylog/config"
	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/handler"
	"github.com/philipp01105/easylog/jsonl"
)

// errInteractiveInput is returned when records would be read from a terminal
var errInteractiveInput = errors.New("no input: pass files or pipe JSON lines to stdin")

type renderOptions struct {
	output  string
	groupBy string
	level   string
}

type renderSummary struct {
	batches int
	records int
	skipped int
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Render JSON-lines log records as EasyLog batches",
		Long: "Render reads monolog-style JSON lines from the given files (or stdin, or \"-\"),\n" +
			"splits them into batches on blank lines or on --group-by changes, and writes\n" +
			"each batch to log_path, or to stdout with --output -.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runRender(cmd, ctx.zapLogger(), cfg, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file, \"-\" for stdout (default: log_path)")
	cmd.Flags().StringVarP(&opts.groupBy, "group-by", "g", "", "Dotted path whose value change starts a new batch (e.g. extra.uid)")
	cmd.Flags().StringVarP(&opts.level, "level", "l", "", "Minimum level written (default: level from config)")
	return cmd
}

func runRender(cmd *cobra.Command, logger *zap.Logger, cfg *config.Config, opts renderOptions, args []string) error {
	level := cfg.MinLevel()
	if opts.level != "" {
		parsed, ok := core.ParseLevel(opts.level)
		if !ok {
			return fmt.Errorf("unknown level %q", opts.level)
		}
		level = parsed
	}

	out, err := openOutput(cmd, logger, cfg, opts.output, level)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	var summary renderSummary
	for _, name := range args {
		if err := renderInput(cmd, logger, out, name, opts.groupBy, &summary); err != nil {
			_ = out.Close()
			return err
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logger.Debug("render finished",
		zap.Int("batches", summary.batches),
		zap.Int("records", summary.records),
		zap.Int("skipped_lines", summary.skipped),
	)
	return nil
}

func openOutput(cmd *cobra.Command, logger *zap.Logger, cfg *config.Config, output string, level core.Level) (handler.BatchHandler, error) {
	target := strings.TrimSpace(output)
	if target == "" {
		target = cfg.LogPath
	}
	if target == "-" {
		return handler.NewWriterHandler(handler.WriterConfig{
			Writer:    cmd.OutOrStdout(),
			Formatter: cfg.BatchFormatter(),
			Level:     level,
			Logger:    logger,
		}), nil
	}

	fh, err := handler.NewFileHandler(handler.FileConfig{
		Filename:   target,
		Formatter:  cfg.BatchFormatter(),
		Level:      level,
		MaxSize:    cfg.MaxSizeBytes(),
		MaxBackups: cfg.Rotation.MaxBackups,
		Compress:   cfg.Rotation.Compress,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	logger.Debug("writing batches", zap.String("file", target))
	return fh, nil
}

func openInput(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return f, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		fd := f.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return nil, errInteractiveInput
		}
	}
	return io.NopCloser(in), nil
}

func renderInput(cmd *cobra.Command, logger *zap.Logger, out handler.BatchHandler, name, groupBy string, summary *renderSummary) error {
	in, err := openInput(cmd, name)
	if err != nil {
		return err
	}
	defer in.Close()

	reader := jsonl.NewReader(in, groupBy)
	for {
		batch, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var lineErr *jsonl.LineError
		if errors.As(err, &lineErr) {
			summary.skipped++
			logger.Warn("skipping malformed line",
				zap.String("input", name),
				zap.Int("line", lineErr.Line),
				zap.Error(lineErr.Err),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		if err := out.HandleBatch(batch); err != nil {
			return fmt.Errorf("write batch ending at %s:%d: %w", name, reader.Line(), err)
		}
		summary.batches++
		summary.records += len(batch)
	}
}
