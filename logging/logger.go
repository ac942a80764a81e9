package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/rs/zerolog"
)

// GlobalLogger is the Logger every package derives its sub-logger from. It is replaced by the CLI once the log level
// and color preferences are known.
var GlobalLogger = NewLogger(zerolog.InfoLevel, os.Stderr)

// Logger logs to a human-readable console stream and, optionally, to any number of structured (JSON) writers.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// console is the writer that receives unstructured, optionally colorized output.
	console io.Writer

	// consoleLogger outputs unstructured log lines to console.
	consoleLogger zerolog.Logger

	// structuredLogger outputs JSON log lines to every writer in structuredWriters.
	structuredLogger zerolog.Logger

	// structuredWriters is the list of writers added through AddWriter.
	structuredWriters []io.Writer

	// fields is the list of key/value pairs attached through NewSubLogger, re-applied when writers change.
	fields [][2]string
}

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger creates a Logger emitting events at or above level to console. A nil console disables console output.
func NewLogger(level zerolog.Level, console io.Writer) *Logger {
	l := &Logger{
		level:             level,
		console:           console,
		structuredWriters: make([]io.Writer, 0),
	}
	l.rebuild()
	return l
}

// NewSubLogger creates a new Logger with unique context in the form of a key-value pair. Each package keeps its own
// sub-logger so that log output can be grepped by module.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	sub := &Logger{
		level:             l.level,
		console:           l.console,
		structuredWriters: l.structuredWriters,
		fields:            append(append([][2]string{}, l.fields...), [2]string{key, value}),
	}
	sub.rebuild()
	return sub
}

// rebuild recreates the underlying zerolog loggers after the level, the console or the writer list changed.
func (l *Logger) rebuild() {
	if l.console != nil {
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: l.console, NoColor: !colors.Enabled()}, l.level)
		l.consoleLogger = zerolog.New(consoleWriter).Level(l.level)
	} else {
		l.consoleLogger = zerolog.Nop()
	}

	if len(l.structuredWriters) > 0 {
		l.structuredLogger = zerolog.New(zerolog.MultiLevelWriter(l.structuredWriters...)).Level(l.level).With().Timestamp().Logger()
	} else {
		l.structuredLogger = zerolog.Nop()
	}

	for _, field := range l.fields {
		l.consoleLogger = l.consoleLogger.With().Str(field[0], field[1]).Logger()
		l.structuredLogger = l.structuredLogger.With().Str(field[0], field[1]).Logger()
	}
}

// AddWriter adds a writer receiving structured JSON output. Adding the same writer twice is a no-op.
func (l *Logger) AddWriter(writer io.Writer) {
	for _, w := range l.structuredWriters {
		if w == writer {
			return
		}
	}
	l.structuredWriters = append(l.structuredWriters, writer)
	l.rebuild()
}

// RemoveWriter removes a writer previously added with AddWriter. Unknown writers are ignored.
func (l *Logger) RemoveWriter(writer io.Writer) {
	for i, w := range l.structuredWriters {
		if w == writer {
			l.structuredWriters = append(l.structuredWriters[:i:i], l.structuredWriters[i+1:]...)
			l.rebuild()
			return
		}
	}
}

// SetConsole redirects console output. A nil writer disables console logging.
func (l *Logger) SetConsole(console io.Writer) {
	l.console = console
	l.rebuild()
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace logs a trace event
func (l *Logger) Trace(args ...any) {
	l.log(l.consoleLogger.Trace(), l.structuredLogger.Trace(), false, args...)
}

// Debug logs a debug event
func (l *Logger) Debug(args ...any) {
	l.log(l.consoleLogger.Debug(), l.structuredLogger.Debug(), false, args...)
}

// Info logs an info event
func (l *Logger) Info(args ...any) {
	l.log(l.consoleLogger.Info(), l.structuredLogger.Info(), false, args...)
}

// Warn logs a warning event
func (l *Logger) Warn(args ...any) {
	l.log(l.consoleLogger.Warn(), l.structuredLogger.Warn(), false, args...)
}

// Error logs an error event
func (l *Logger) Error(args ...any) {
	l.log(l.consoleLogger.Error(), l.structuredLogger.Error(), false, args...)
}

// Panic logs a panic event and panics
func (l *Logger) Panic(args ...any) {
	l.log(l.consoleLogger.Panic(), l.structuredLogger.Panic(), true, args...)
}

// log chains the error and structured info found in args onto both events and sends them.
func (l *Logger) log(consoleLog *zerolog.Event, structuredLog *zerolog.Event, forceStack bool, args ...any) {
	consoleMsg, structuredMsg, err, info := buildMsgs(args...)

	consoleLog.Err(err)
	structuredLog.Err(err)
	if forceStack || l.level <= zerolog.DebugLevel {
		consoleLog.Stack()
		structuredLog.Stack()
	}

	if info != nil {
		consoleLog.Any("info", info)
		structuredLog.Any("info", info)
	}

	// The structured event is sent last so that a panic still reaches every writer
	defer structuredLog.Msg(structuredMsg)
	consoleLog.Msg(consoleMsg)
}

// buildMsgs takes a variadic list of arguments of any type and returns a colorized console message, a plain message,
// and optionally the (single) error and StructuredLogInfo found among the arguments.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	if len(args) == 0 {
		return "", "", nil, nil
	}

	colorCtx := colors.Reset
	consoleOutput := make([]string, 0, len(args))
	plainOutput := make([]string, 0, len(args))
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			colorCtx = t
		case StructuredLogInfo:
			info = t
		case error:
			err = t
		default:
			consoleOutput = append(consoleOutput, colorCtx(t))
			plainOutput = append(plainOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(plainOutput, ""), err, info
}

// setupDefaultFormatting applies the CLI's console look: no timestamps, glyph/colored levels, and no module field
// unless debugging.
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	writer.FormatLevel = func(i any) string {
		levelStr, _ := i.(string)
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		switch parsed {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
