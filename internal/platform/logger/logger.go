package logger

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger es la interfaz que consumen los módulos.
// Los campos van como map para no acoplar los dominios a slog.
type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type Options struct {
	Level  string
	Format Format
	App    string
	Out    io.Writer // default os.Stdout
}

// SlogLogger adapta *slog.Logger a Logger.
type SlogLogger struct {
	l *slog.Logger
}

func New(opts Options) Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var h slog.Handler
	if opts.Format == FormatJSON {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}

	l := slog.New(h)
	if app := strings.TrimSpace(opts.App); app != "" {
		l = l.With("app", app)
	}
	slog.SetDefault(l)

	return &SlogLogger{l: l}
}

// Nop descarta todo. Útil en tests y como default de servicios.
func Nop() Logger {
	return &SlogLogger{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (s *SlogLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return s
	}
	return &SlogLogger{l: s.l.With(toArgs(fields)...)}
}

func (s *SlogLogger) Debug(msg string, fields map[string]any) { s.l.Debug(msg, toArgs(fields)...) }
func (s *SlogLogger) Info(msg string, fields map[string]any)  { s.l.Info(msg, toArgs(fields)...) }
func (s *SlogLogger) Warn(msg string, fields map[string]any)  { s.l.Warn(msg, toArgs(fields)...) }
func (s *SlogLogger) Error(msg string, fields map[string]any) { s.l.Error(msg, toArgs(fields)...) }

// Slog expone el logger subyacente (p.ej. para http.Server.ErrorLog).
func (s *SlogLogger) Slog() *slog.Logger { return s.l }

func toArgs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	// Orden estable de keys (útil en tests/logs).
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		v := fields[k]
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		args = append(args, k, v)
	}
	return args
}
