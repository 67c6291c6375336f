package formatter

import (
	"strings"

	"github.com/philipp01105/easylog/core"
)

// interpolate replaces {key} tokens of message with the scalar context
// values. Placeholders without a scalar value are left untouched.
func interpolate(message string, context core.Map) string {
	if !strings.Contains(message, "{") {
		return message
	}
	for _, field := range context {
		s, ok := field.Value.ScalarString()
		if !ok {
			continue
		}
		message = strings.ReplaceAll(message, "{"+field.Key.String()+"}", s)
	}
	return message
}

// withoutPlaceholders drops the context entries referenced as {key} in
// message. An empty message references nothing.
func withoutPlaceholders(message string, context core.Map) core.Map {
	if message == "" {
		return context
	}
	return context.Filter(func(field core.Field) bool {
		return !strings.Contains(message, "{"+field.Key.String()+"}")
	})
}
