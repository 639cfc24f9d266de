// Package logging builds the structured logger shared by the API server and
// the serverless handler.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Service is attached to every record
const Service = "staffing-planner"

// New returns a JSON logger writing to w at the named level. Records at ERROR
// or above carry a trace group with the logging call site and stack.
func New(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(errorTrace{h}).With("service", Service)
}

// Setup makes a stdout logger the slog default
func Setup(level string) {
	slog.SetDefault(New(os.Stdout, level))
}

// ParseLevel accepts slog level names in any case, including offsets such as
// "WARN+2", and the WARNING alias. Anything else is INFO.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Fatal logs msg at ERROR and exits with status 1
func Fatal(msg string, args ...any) {
	slog.Default().Error(msg, args...)
	os.Exit(1)
}

type errorTrace struct {
	slog.Handler
}

func (h errorTrace) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		r.AddAttrs(slog.Group("trace",
			slog.String("caller", caller(r.PC)),
			slog.Any("stack", stack()),
		))
	}
	return h.Handler.Handle(ctx, r)
}

func (h errorTrace) WithAttrs(attrs []slog.Attr) slog.Handler {
	return errorTrace{h.Handler.WithAttrs(attrs)}
}

func (h errorTrace) WithGroup(name string) slog.Handler {
	return errorTrace{h.Handler.WithGroup(name)}
}

func caller(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}

// stack lists the frames above slog itself, innermost first
func stack() []string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	var out []string
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "log/slog.") {
			out = append(out, fmt.Sprintf("%s %s:%d", f.Function, filepath.Base(f.File), f.Line))
		}
		if !more {
			break
		}
	}
	return out
}
