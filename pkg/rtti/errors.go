package rtti

import (
	"fmt"
	"runtime"
)

// FatalError carries the diagnostic spec §7 requires of every
// programming/resource error: the offending type name, the object
// path if one is known, and the source location of the call that
// detected the violation. Core code raises these with Fatalf and lets
// them propagate as a panic; nothing in the core recovers from one.
type FatalError struct {
	TypeName string
	Path     string
	File     string
	Line     int
	Message  string
}

func (e *FatalError) Error() string {
	loc := fmt.Sprintf("%s:%d", e.File, e.Line)
	if e.Path != "" {
		return fmt.Sprintf("%s: %s [type=%s path=%s]", loc, e.Message, e.TypeName, e.Path)
	}
	if e.TypeName != "" {
		return fmt.Sprintf("%s: %s [type=%s]", loc, e.Message, e.TypeName)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Fatalf panics with a FatalError built from the caller's source
// location, matching spec §7: "every fatal includes the offending
// type name, object path if available, and source-location of the
// call."
func Fatalf(typeName, path, format string, args ...any) {
	_, file, line, _ := runtime.Caller(1)
	panic(&FatalError{
		TypeName: typeName,
		Path:     path,
		File:     file,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}
