// Package core defines the shared types used across EasyLog.
//
// Record is a single structured log event: a channel, a Level, a message
// template with {placeholder} tokens, and two ordered mappings (context and
// extra). Map keeps insertion order because the rendered output depends on
// it, and a Key is either a name or a list index so positional contexts
// (bound query parameters, for instance) survive untouched.
//
// Value is the tagged union stored in those mappings. Scalars live in fixed
// fields (Int64, Float64, Str) the same way the old Field type stored them;
// timestamps, nested maps, lists and captured errors get their own kinds so
// the formatter can switch on Value.Type instead of probing with reflection.
// ValueOf converts arbitrary Go values and is the only place that uses
// reflection.
//
// Errors are captured as a Throwable: dynamic type, message, optional code,
// location, trace and a bounded cause chain. Cycles in the chain are cut.
package core
