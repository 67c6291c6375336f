package logger

import (
	"time"

	"github.com/philipp01105/easylog/core"
)

// Field helper functions for convenience

// String creates a string field
func String(key, val string) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.StringValue(val)}
}

// Int creates an int field
func Int(key string, val int) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.IntValue(int64(val))}
}

// Int64 creates an int64 field
func Int64(key string, val int64) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.IntValue(val)}
}

// Float64 creates a float64 field
func Float64(key string, val float64) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.FloatValue(val)}
}

// Bool creates a bool field
func Bool(key string, val bool) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.BoolValue(val)}
}

// Time creates a time field
func Time(key string, val time.Time) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.TimeValue(val)}
}

// Duration creates a duration field rendered as "1.5s"
func Duration(key string, val time.Duration) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.StringValue(val.String())}
}

// Err creates an "error" field capturing err, its location and its causes.
// A nil error yields a null value.
func Err(err error) core.Field {
	return core.Field{Key: core.NamedKey("error"), Value: core.ErrorValueAt(err, 1)}
}

// NamedErr is Err with a custom key
func NamedErr(key string, err error) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.ErrorValueAt(err, 1)}
}

// Group creates a nested mapping field
func Group(key string, fields ...core.Field) core.Field {
	return core.Field{Key: core.NamedKey(key), Value: core.MapValue(core.Map(fields))}
}

// Stack creates the "stack" field holding the current goroutine's stack,
// starting at the caller. It is rendered as a stack trace block.
func Stack() core.Field {
	return core.Field{Key: core.NamedKey(core.StackKey), Value: core.StackValue(core.CaptureStack(1))}
}

// Any creates a field with any value
func Any(key string, val interface{}) core.Field {
	return core.F(key, val)
}
