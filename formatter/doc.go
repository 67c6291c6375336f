// Package formatter turns batches of log records into human-friendly text.
//
// EasyLogFormatter works on a whole unit of work (typically one HTTP
// request) at once. Every record is classified by its channel, message
// template and context keys, rewritten by the rule of each kind it matched,
// and rendered as a section header, an interpolated and word-wrapped
// message, a YAML dump of the remaining context and the extra data.
//
// Consecutive event notifications and missing translations are merged under
// the first record of their run. Merge rules look back at the previous
// record as it arrived, never at its rewritten form, so the result does not
// depend on rule order across records.
//
// Single-record formatting is a wiring mistake: Format panics with
// ErrWrongConfiguration. Put a handler.BufferHandler in front of the handler
// that owns the formatter.
//
// Output is built in a pooled bytes.Buffer. Buffers larger than 64 KiB are
// not returned to the pool to prevent a single large batch from permanently
// inflating memory usage.
package formatter
