package core

import "time"

// DisplayLogInfoKey is the extra key that producers may set to false to
// suppress a record's header. It is never rendered itself.
const DisplayLogInfoKey = "display_log_info"

// Display is the explicit render flag of a record's header
type Display int8

const (
	// DisplayDefault shows the header unless extra says otherwise
	DisplayDefault Display = iota
	// DisplayShown forces the header
	DisplayShown
	// DisplayHidden merges the record under the previous one
	DisplayHidden
)

// Record represents one structured log event
type Record struct {
	Time    time.Time
	Channel string
	Level   Level
	Message string
	Context Map
	Extra   Map
	Display Display
}

// ShowInfo reports whether the record's header should be rendered
func (r Record) ShowInfo() bool {
	switch r.Display {
	case DisplayShown:
		return true
	case DisplayHidden:
		return false
	}
	if v, ok := r.Extra.Get(DisplayLogInfoKey); ok && v.Type == BoolType {
		return v.Bool()
	}
	return true
}

// Clone returns a copy of r that shares no containers with it
func (r Record) Clone() Record {
	r.Context = r.Context.Clone()
	r.Extra = r.Extra.Clone()
	return r
}

// Route returns context.route when it is a string
func (r Record) Route() (string, bool) {
	v, ok := r.Context.Get("route")
	if !ok || v.Type != StringType {
		return "", false
	}
	return v.Str, true
}
