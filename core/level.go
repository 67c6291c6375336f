package core

import (
	"strconv"
	"strings"
)

// Level represents the severity level of a log record
type Level int8

const (
	// DebugLevel for detailed debugging information
	DebugLevel Level = iota
	// InfoLevel for interesting events
	InfoLevel
	// NoticeLevel for normal but significant events
	NoticeLevel
	// WarningLevel for exceptional occurrences that are not errors
	WarningLevel
	// ErrorLevel for runtime errors
	ErrorLevel
	// CriticalLevel for critical conditions
	CriticalLevel
	// AlertLevel when action must be taken immediately
	AlertLevel
	// EmergencyLevel when the system is unusable
	EmergencyLevel
)

// String returns the upper-case name of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case NoticeLevel:
		return "NOTICE"
	case WarningLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	case AlertLevel:
		return "ALERT"
	case EmergencyLevel:
		return "EMERGENCY"
	default:
		return "LEVEL(" + strconv.Itoa(int(l)) + ")"
	}
}

// monologCodes maps the numeric severities used by PHP's monolog JSON output.
var monologCodes = map[int]Level{
	100: DebugLevel,
	200: InfoLevel,
	250: NoticeLevel,
	300: WarningLevel,
	400: ErrorLevel,
	500: CriticalLevel,
	550: AlertLevel,
	600: EmergencyLevel,
}

// ParseLevel converts a level name or a monolog numeric code to a Level.
// The second return value is false when the input is not recognized.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "NOTICE":
		return NoticeLevel, true
	case "WARN", "WARNING":
		return WarningLevel, true
	case "ERROR":
		return ErrorLevel, true
	case "CRITICAL":
		return CriticalLevel, true
	case "ALERT":
		return AlertLevel, true
	case "EMERGENCY":
		return EmergencyLevel, true
	}
	if code, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return LevelFromCode(code)
	}
	return DebugLevel, false
}

// LevelFromCode converts a monolog numeric code (100, 200, ... 600) to a Level.
func LevelFromCode(code int) (Level, bool) {
	l, ok := monologCodes[code]
	return l, ok
}

// Code returns the monolog numeric code of the level, or 0 when unknown.
func (l Level) Code() int {
	for code, level := range monologCodes {
		if level == l {
			return code
		}
	}
	return 0
}
