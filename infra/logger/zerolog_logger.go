package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// zerologAdapter bridges a zerolog.Logger to the core Logger interface.
type zerologAdapter struct {
	zl zerolog.Logger
}

// NewZerologLogger builds the process logger for a component. RR_ENV=dev
// switches to console output with debug enabled; anything else emits JSON at
// info level. RR_LOG_LEVEL overrides the level in either mode.
func NewZerologLogger(component string) Logger {
	return newZerologLogger(component, os.Stdout)
}

func newZerologLogger(component string, out io.Writer) Logger {
	dev := strings.EqualFold(os.Getenv("RR_ENV"), "dev")
	if dev {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(out).
		Level(logLevel(dev)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
	return &zerologAdapter{zl: zl}
}

func logLevel(dev bool) zerolog.Level {
	if raw := os.Getenv("RR_LOG_LEVEL"); raw != "" {
		if lv, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			return lv
		}
	}
	if dev {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (l *zerologAdapter) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *zerologAdapter) Debugw(msg string, fields map[string]any) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Infof(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *zerologAdapter) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *zerologAdapter) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}
