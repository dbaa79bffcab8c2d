package dataflux

import "log"

// Logger is the minimal surface the engine needs to emit its mandatory
// observability events. It is satisfied by the standard library's *log.Logger
// so callers get sensible defaults for free, but tests can supply their own
// to assert on the mandatory log lines without scraping stdout.
type Logger interface {
	Printf(format string, args ...any)
}

// defaultLogger wraps log.Default() so the engine never requires a caller to
// configure logging before it produces useful diagnostics: bracketed
// [DEBUG]/[ERROR] level tags on plain Printf-style messages.
type defaultLogger struct{}

func (defaultLogger) Printf(format string, args ...any) {
	log.Printf(format, args...)
}
