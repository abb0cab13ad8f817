// Package logging holds the minimal logger contract shared by the engine packages.
package logging

import (
	"io"
	"log"
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

var _ Logger = (*log.Logger)(nil)

// Discard drops everything.
var Discard Logger = log.New(io.Discard, "", 0)

// New returns a std logger writing to w with the given prefix.
func New(w io.Writer, prefix string) *log.Logger {
	return log.New(w, prefix, log.LstdFlags)
}

// OrDiscard returns l, or Discard when l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard
	}
	return l
}
