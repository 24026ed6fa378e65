package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultLevel = "warn"

// New returns a console logger writing to w. Unknown levels fall back to
// DefaultLevel.
func New(w io.Writer, level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		parsed, _ = zerolog.ParseLevel(DefaultLevel)
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !IsTerminal(w),
	}

	return zerolog.New(console).Level(parsed).With().Timestamp().Logger()
}
