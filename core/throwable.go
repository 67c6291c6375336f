package core

import (
	"fmt"
	"reflect"
	"strings"
)

// maxCauseDepth bounds the cause chain captured for an error value
const maxCauseDepth = 32

// Throwable is the captured form of an error: its dynamic type, message,
// location and cause chain. Err keeps the original error so renderers
// can ask it for its own serialized form.
type Throwable struct {
	Class    string
	Message  string
	Code     int
	File     string
	Line     int
	Trace    []Frame
	Previous *Throwable
	Err      error
}

type coder interface {
	Code() int
}

// NewThrowable captures err at the caller's location
func NewThrowable(err error) *Throwable {
	return newThrowable(err, 2)
}

func newThrowable(err error, skip int) *Throwable {
	if err == nil {
		return nil
	}
	t := describe(err)
	t.Trace = CaptureStack(skip)
	if len(t.Trace) > 0 {
		t.File = t.Trace[0].File
		t.Line = t.Trace[0].Line
	}

	seen := map[error]bool{}
	markSeen(seen, err)
	cur := t
	for depth := 1; depth < maxCauseDepth; depth++ {
		next := cause(cur.Err)
		if next == nil || isSeen(seen, next) {
			break
		}
		markSeen(seen, next)
		cur.Previous = describe(next)
		cur = cur.Previous
	}
	return t
}

func describe(err error) *Throwable {
	t := &Throwable{
		Class:   fmt.Sprintf("%T", err),
		Message: err.Error(),
		Err:     err,
	}
	if c, ok := err.(coder); ok {
		t.Code = c.Code()
	}
	return t
}

// cause returns the wrapped error; joined errors follow their first branch
func cause(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		if errs := u.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}

func markSeen(seen map[error]bool, err error) {
	if reflect.TypeOf(err).Comparable() {
		seen[err] = true
	}
}

func isSeen(seen map[error]bool, err error) bool {
	return reflect.TypeOf(err).Comparable() && seen[err]
}

// Error implements error
func (t *Throwable) Error() string {
	return t.Message
}

// Unwrap returns the original error
func (t *Throwable) Unwrap() error {
	return t.Err
}

// TraceString renders the trace one frame per line, numbered from #0
func (t *Throwable) TraceString() string {
	var b strings.Builder
	for i, f := range t.Trace {
		fmt.Fprintf(&b, "#%d ", i)
		if f.File != "" {
			fmt.Fprintf(&b, "%s(%d): ", f.File, f.Line)
		}
		b.WriteString(f.Class + f.Type + f.Function + "()\n")
	}
	fmt.Fprintf(&b, "#%d {main}", len(t.Trace))
	return b.String()
}
