package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "charm.land/log/v2"
	"golang.org/x/term"
)

// Level is a log severity name.
type Level string

const (
	// LevelError logs errors only.
	LevelError Level = "error"
	// LevelWarn adds warnings, such as scripts skipped during extraction.
	LevelWarn Level = "warn"
	// LevelInfo adds progress messages.
	LevelInfo Level = "info"
	// LevelDebug adds per-file tracing.
	LevelDebug Level = "debug"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt format.
	FormatLogfmt Format = "logfmt"
	// FormatText outputs human-readable, colorized logs.
	FormatText Format = "text"
	// FormatAuto picks [FormatText] for terminals and [FormatLogfmt]
	// otherwise.
	FormatAuto Format = "auto"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// GetAllLevelStrings returns the accepted level names, most severe first.
func GetAllLevelStrings() []string {
	return []string{string(LevelError), string(LevelWarn), string(LevelInfo), string(LevelDebug)}
}

// GetAllFormatStrings returns the accepted format names.
func GetAllFormatStrings() []string {
	return []string{string(FormatJSON), string(FormatLogfmt), string(FormatText), string(FormatAuto)}
}

// ParseLevel parses a log level string. Matching is case-insensitive and
// "warning" is accepted for [LevelWarn].
func ParseLevel(level string) (Level, error) {
	switch l := Level(strings.ToLower(level)); l {
	case LevelError, LevelWarn, LevelInfo, LevelDebug:
		return l, nil
	case "warning":
		return LevelWarn, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// ParseFormat parses a log format string, case-insensitively.
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(format)); f {
	case FormatJSON, FormatLogfmt, FormatText, FormatAuto:
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
	}

	return slog.LevelInfo
}

func (l Level) charmLevel() charmlog.Level {
	switch l {
	case LevelError:
		return charmlog.ErrorLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelInfo:
	}

	return charmlog.InfoLevel
}

// NewHandlerFromStrings creates a [slog.Handler] from level and format
// names.
func NewHandlerFromStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, lvl, f), nil
}

// NewHandler creates a [slog.Handler] with the specified level and format.
// Unknown formats fall back to [FormatLogfmt].
func NewHandler(w io.Writer, level Level, format Format) slog.Handler {
	if format == FormatAuto {
		format = detectFormat(w)
	}

	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     level.slogLevel(),
		})

	case FormatText:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           level.charmLevel(),
			ReportTimestamp: true,
		})

	case FormatLogfmt, FormatAuto:
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level.slogLevel(),
	})
}

// detectFormat resolves [FormatAuto] for w.
func detectFormat(w io.Writer) Format {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in int.
		return FormatText
	}

	return FormatLogfmt
}
