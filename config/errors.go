package config

import "fmt"

// Error is a configuration error: a malformed or missing config file, or a
// page rule that cannot be built.
type Error struct {
	Path string
	Msg  string
	Err  error
}

func newError(path, msg string, err error) *Error {
	return &Error{Path: path, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	s := "config"
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s = fmt.Sprintf("%s: %v", s, e.Err)
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }
