package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/philipp01105/easylog/core"
)

const (
	titleDateFormat    = "02/Jan/2006 15:04:05"
	unknownDate        = "unknown_date"
	assetRequestTitle  = "Assetic request"
	contextPrefix      = "--> "
	stackTracePrefix   = "    | "
	stackTraceHeadline = "--> Stack Trace:"
)

// pre-computed level labels; levels missing here render as "NAME "
var levelLabels = map[core.Level]string{
	core.DebugLevel:    "",
	core.InfoLevel:     "",
	core.WarningLevel:  "** WARNING ** ==> ",
	core.ErrorLevel:    "*** ERROR *** ==> ",
	core.CriticalLevel: "*** CRITICAL ERROR *** ==> ",
}

var channelIcons = map[string]string{
	channelEventStop: "[!] ",
	"security":       "(!) ",
}

// EasyLogFormatter renders a batch of records as a compact, human-friendly
// text block. Known framework patterns (event dispatching, translations,
// routing, deprecations, database queries) are recognized and consecutive
// similar records are merged.
type EasyLogFormatter struct {
	Config
	ignored map[string]struct{}
}

// NewEasyLogFormatter creates a new EasyLog formatter
func NewEasyLogFormatter(cfg Config) *EasyLogFormatter {
	if cfg.MaxLineLength < 1 {
		cfg.MaxLineLength = DefaultConfig().MaxLineLength
	}
	if cfg.PrefixLength < 0 {
		cfg.PrefixLength = 0
	}
	if cfg.LineEnding == "" {
		cfg.LineEnding = "\n"
	}

	ignored := make(map[string]struct{}, len(cfg.IgnoredRoutes))
	for _, route := range cfg.IgnoredRoutes {
		ignored[route] = struct{}{}
	}
	return &EasyLogFormatter{Config: cfg, ignored: ignored}
}

// Format panics with ErrWrongConfiguration: records must go through
// FormatBatch.
func (f *EasyLogFormatter) Format(core.Record) ([]byte, error) {
	panic(ErrWrongConfiguration)
}

// FormatBatch formats the records of one unit of work. The result is
// empty when the batch comes from an ignored route.
func (f *EasyLogFormatter) FormatBatch(records []core.Record) string {
	buf := getBuffer()
	defer putBuffer(buf)

	f.writeBatch(records, buf)
	return buf.String()
}

// FormatBatchTo formats the records and writes them directly to the writer
func (f *EasyLogFormatter) FormatBatchTo(records []core.Record, w io.Writer) (int, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.writeBatch(records, buf)
	if buf.Len() == 0 {
		return 0, nil
	}
	return w.Write(buf.Bytes())
}

func (f *EasyLogFormatter) writeBatch(records []core.Record, buf *bytes.Buffer) {
	if f.isIgnored(records) {
		return
	}

	buf.WriteString(f.header(records))

	kinds := make([]kind, len(records))
	for i, r := range records {
		kinds[i] = classify(r)
	}
	transformed := make([]core.Record, len(records))
	for i := range records {
		transformed[i] = transform(records, kinds, i)
	}

	for i := range transformed {
		buf.WriteString(strings.TrimRight(f.formatRecord(transformed, kinds, i), "\n"))
		buf.WriteByte('\n')
	}
	buf.WriteString("\n\n")

	if f.LineEnding != "\n" {
		out := bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte(f.LineEnding))
		buf.Reset()
		buf.Write(out)
	}
}

func (f *EasyLogFormatter) header(records []core.Record) string {
	if len(records) > 0 && isAssetRequest(records[0]) {
		return f.subtitle(assetRequestTitle)
	}
	date := unknownDate
	if len(records) > 0 && !records[0].Time.IsZero() {
		date = records[0].Time.Format(titleDateFormat)
	}
	return f.title(date)
}

// formatRecord renders records[i], which has already been transformed.
// A rewritten deprecation record keeps its original classification.
func (f *EasyLogFormatter) formatRecord(records []core.Record, kinds []kind, i int) string {
	r := records[i]
	k := classify(r) | kinds[i]&kindDeprecation

	var b strings.Builder
	if r.ShowInfo() {
		b.WriteString(f.section(levelLabel(r.Level) + channelLabel(r.Channel, k)))
	}

	if r.Message != "" {
		b.WriteString(f.textBlock(interpolate(r.Message, r.Context)))
		b.WriteByte('\n')
	}

	if len(r.Context) > 0 {
		context := r.Context
		stack, hasStack := context.Get(core.StackKey)
		if hasStack {
			context = context.Without(core.StackKey)
		}
		if s := f.formatContext(r.Message, context, k); s != "" {
			b.WriteString(s)
			b.WriteByte('\n')
		}
		if hasStack {
			b.WriteString(stackTraceHeadline)
			b.WriteByte('\n')
			b.WriteString(f.formatStackTrace(core.FramesFromValue(stack)))
		}
	}

	// identical extra information is only shown once for consecutive records
	extra := r.Extra.Without(core.DisplayLogInfoKey)
	if len(extra) > 0 && (i == 0 || !extra.Equal(records[i-1].Extra.Without(core.DisplayLogInfoKey))) {
		b.WriteString(f.formatExtra(extra))
		b.WriteByte('\n')
	}

	return b.String()
}

func levelLabel(l core.Level) string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return l.String() + " "
}

func channelLabel(channel string, k kind) string {
	switch {
	case k.is(kindDeprecation):
		return "** DEPRECATION **"
	case k.is(kindEventNotify):
		return "NOTIFIED EVENTS"
	}
	return channelIcons[channel] + cases.Upper(language.Und).String(channel)
}

// inlineDepth returns how many levels of the context are expanded before
// the dump switches to single-line collections.
func inlineDepth(k kind) int {
	switch {
	case k.is(kindTranslation):
		return 0
	case k.is(kindDoctrine), k.is(kindAsset):
		return 1
	default:
		return 2
	}
}

func (f *EasyLogFormatter) formatContext(message string, context core.Map, k kind) string {
	context = withoutPlaceholders(message, context)
	if len(context) == 0 {
		return ""
	}
	context = normalizer{errors: true}.mapOf(context)

	out, err := dump(context, inlineDepth(k), f.PrefixLength)
	if err != nil {
		out = plainDump(context)
	}
	return strings.TrimRight(prefixBlock(out, contextPrefix, false), "\n")
}

func (f *EasyLogFormatter) formatExtra(extra core.Map) string {
	extra = normalizer{}.mapOf(extra)
	wrapped := core.Map{{Key: core.NamedKey("extra"), Value: core.MapValue(extra)}}

	out, err := dump(wrapped, 1, f.PrefixLength)
	if err != nil {
		out = plainDump(wrapped)
	}
	return strings.TrimRight(prefixBlock(out, contextPrefix, false), "\n")
}

func (f *EasyLogFormatter) formatStackTrace(frames []core.Frame) string {
	var b strings.Builder
	for _, fr := range frames {
		switch {
		case fr.Class != "" && fr.Type != "" && fr.Function != "":
			b.WriteString(fr.Class + fr.Type + fr.Function + "()\n")
		case fr.Class != "":
			b.WriteString(fr.Class + "\n")
		case fr.Function != "":
			b.WriteString(fr.Function + "()\n")
		}
		if fr.File != "" && fr.Line > 0 {
			fmt.Fprintf(&b, "  > %s:%d\n", f.relativePath(fr.File), fr.Line)
		}
	}
	return prefixBlock(b.String(), stackTracePrefix, true)
}

func (f *EasyLogFormatter) relativePath(path string) string {
	if f.ProjectDir == "" {
		return path
	}
	return strings.TrimPrefix(path, strings.TrimSuffix(f.ProjectDir, "/")+"/")
}

// plainDump is the last resort when the YAML emitter rejects a value
func plainDump(m core.Map) string {
	var b strings.Builder
	for _, field := range m {
		fmt.Fprintf(&b, "%s: %s\n", field.Key, field.Value)
	}
	return b.String()
}
