package logger

import (
	"github.com/philipp01105/easylog/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	DebugLevel     = core.DebugLevel
	InfoLevel      = core.InfoLevel
	NoticeLevel    = core.NoticeLevel
	WarningLevel   = core.WarningLevel
	ErrorLevel     = core.ErrorLevel
	CriticalLevel  = core.CriticalLevel
	AlertLevel     = core.AlertLevel
	EmergencyLevel = core.EmergencyLevel
)

// ParseLevel converts a level name or monolog code to a Level.
// Unknown input yields InfoLevel.
func ParseLevel(s string) Level {
	if level, ok := core.ParseLevel(s); ok {
		return level
	}
	return InfoLevel
}
