package logging

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// EnvLevel is the environment variable consulted by LevelFromEnv.
const EnvLevel = "LOG_LEVEL"

// severityKey marks an Info record as a warning.
const severityKey = "severity"

// Level is a minimum severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps a LOG_LEVEL value to a Level. Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR", "CRITICAL":
		return LevelError
	default:
		return LevelInfo
	}
}

// LevelFromEnv reads LOG_LEVEL.
func LevelFromEnv() Level {
	return ParseLevel(os.Getenv(EnvLevel))
}

// New returns a logger writing to w at the given minimum level. Key/value
// rendering is done by funcr; V(1) and above are only enabled at DEBUG.
func New(w io.Writer, level Level) logr.Logger {
	verbosity := 0
	if level <= LevelDebug {
		verbosity = 1
	}
	noLevel := ""
	return logr.New(&sink{
		Formatter: funcr.NewFormatter(funcr.Options{
			Verbosity:          verbosity,
			LogInfoLevel:       &noLevel,
			RenderBuiltinsHook: dropMessage,
		}),
		out: log.New(w, "", log.LstdFlags),
		min: level,
	})
}

// Warn logs msg at warning severity.
func Warn(l logr.Logger, msg string, keysAndValues ...any) {
	l.Info(msg, append([]any{severityKey, LevelWarn}, keysAndValues...)...)
}

// sink prints funcr-formatted records as "[LEVEL] -- name: msg key=value".
type sink struct {
	funcr.Formatter
	out *log.Logger
	min Level
}

func (s *sink) Enabled(v int) bool {
	if v == 0 {
		return s.min <= LevelWarn
	}
	return s.Formatter.Enabled(v)
}

func (s *sink) Info(v int, msg string, keysAndValues ...any) {
	severity := LevelInfo
	if v > 0 {
		severity = LevelDebug
	}
	if len(keysAndValues) >= 2 && keysAndValues[0] == severityKey {
		if lvl, ok := keysAndValues[1].(Level); ok {
			severity = lvl
			keysAndValues = keysAndValues[2:]
		}
	}
	if severity < s.min {
		return
	}
	prefix, args := s.FormatInfo(v, msg, keysAndValues)
	s.write(severity, prefix, msg, args)
}

func (s *sink) Error(err error, msg string, keysAndValues ...any) {
	prefix, args := s.FormatError(err, msg, keysAndValues)
	s.write(LevelError, prefix, msg, args)
}

func (s *sink) WithName(name string) logr.LogSink {
	clone := *s
	clone.AddName(name)
	return &clone
}

func (s *sink) WithValues(keysAndValues ...any) logr.LogSink {
	clone := *s
	clone.AddValues(keysAndValues)
	return &clone
}

func (s *sink) write(severity Level, prefix, msg, args string) {
	var b strings.Builder
	b.WriteString("\t[")
	b.WriteString(severity.String())
	b.WriteString("] -- ")
	if prefix != "" {
		b.WriteString(prefix)
		b.WriteString(": ")
	}
	b.WriteString(msg)
	if args = strings.TrimSpace(args); args != "" {
		b.WriteByte(' ')
		b.WriteString(args)
	}
	s.out.Print(b.String())
}

// dropMessage removes the "msg" builtin, which the sink prints unquoted, and
// a nil "error".
func dropMessage(kv []any) []any {
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i] == "msg" || (kv[i] == "error" && kv[i+1] == nil) {
			continue
		}
		out = append(out, kv[i], kv[i+1])
	}
	return out
}
