// Package debug holds environment-gated tracing for the lexer and parser.
package debug

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"
)

type debug struct {
	Lex   bool
	Parse bool
}

var d *debug

var logger atomic.Pointer[slog.Logger]

func init() {
	d = &debug{}
	d.Lex = boolEnv("KDL_DEBUG_LEX")
	d.Parse = boolEnv("KDL_DEBUG_PARSE")
	logger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})))
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Lex reports whether KDL_DEBUG_LEX is set.
func Lex() bool {
	return d.Lex
}

// Parse reports whether KDL_DEBUG_PARSE is set.
func Parse() bool {
	return d.Parse
}

// SetLogger replaces the trace destination.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

// Logf writes a formatted trace line at debug level.
func Logf(msg string, args ...any) {
	logger.Load().Debug(fmt.Sprintf(msg, args...))
}
