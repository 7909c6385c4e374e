package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Logger writes to the file log. It is a no-op until Setup is called.
var Logger = zap.NewNop()
var consoleLogger = zap.NewNop() // stderr, only with Options.Console

var bufferPool = buffer.NewPool()

var mu sync.Mutex
var closeFile func() error

// Options configures Setup.
type Options struct {
	Dir     string // directory for chartgen.log; empty disables the file log
	Level   string // log level, e.g. "info" or "debug"
	Console bool   // mirror entries at Level to stderr
}

// Setup installs the file and console loggers. It may be called again to
// reconfigure; the previous log file is closed.
func Setup(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	if closeFile != nil {
		closeFile()
		closeFile = nil
	}

	fileLogger := zap.NewNop()
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		writer, err := openLogFile(filepath.Join(opts.Dir, "chartgen.log"))
		if err != nil {
			return err
		}
		closeFile = writer.Close

		fileCore := zapcore.NewCore(
			newFileEncoder(),
			zapcore.AddSync(writer),
			level,
		)
		fileLogger = zap.New(fileCore)
	}

	console := zap.NewNop()
	if opts.Console {
		consoleConfig := zap.NewDevelopmentConfig()
		consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
		consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		consoleConfig.EncoderConfig.EncodeCaller = nil
		consoleConfig.Development = false
		consoleConfig.DisableStacktrace = true
		// stdout is reserved for the confirmation line
		consoleConfig.OutputPaths = []string{"stderr"}
		consoleConfig.ErrorOutputPaths = []string{"stderr"}
		consoleConfig.Level = zap.NewAtomicLevelAt(level)

		built, err := consoleConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to build console logger: %w", err)
		}
		console = built
	}

	Logger = fileLogger
	consoleLogger = console
	return nil
}

// Sync flushes and closes the file log.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	Logger.Sync()
	if closeFile != nil {
		closeFile()
		closeFile = nil
	}
	Logger = zap.NewNop()
	consoleLogger = zap.NewNop()
}

// NewRunID returns an identifier for one chartgen invocation.
func NewRunID() string {
	return uuid.NewString()
}

// RunLogger returns a logger tagged with run_id that writes to the file
// log and, when enabled, the console.
func RunLogger(runID string) *zap.Logger {
	core := zapcore.NewTee(Logger.Core(), consoleLogger.Core())
	return zap.New(core).With(zap.String("run_id", runID))
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "INFO" + colorReset)
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel:
		enc.AppendString(colorRed + "ERROR" + colorReset)
	case zapcore.FatalLevel, zapcore.PanicLevel:
		enc.AppendString(colorRed + level.CapitalString() + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, fields...)
	consoleLogger.Info(message, fields...)
}

func LogSuccess(message string, fields ...zap.Field) {
	durationMs := extractDuration(fields)
	if durationMs > 0 {
		message = fmt.Sprintf("✓ %s (%dms)", message, durationMs)
	} else {
		message = "✓ " + message
	}
	Logger.Info(message, fields...)
	consoleLogger.Info(message, fields...)
}

func LogError(message string, fields ...zap.Field) {
	Logger.Error(message, fields...)
	consoleLogger.Error("✗ "+message, fields...)
}

func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, fields...)
	consoleLogger.Warn(message, fields...)
}

func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, fields...)
	consoleLogger.Debug(message, fields...)
}

// LogJSON records a payload, pretty-printed when it parses as JSON.
func LogJSON(data []byte, label string) {
	if !Logger.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	var pretty any
	if err := json.Unmarshal(data, &pretty); err == nil {
		if formatted, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			Logger.Debug(label)
			Logger.Sugar().Debugf("\n%s\n", string(formatted))
			return
		}
	}
	Logger.Debug(label, zap.String("payload", string(data)))
}

// extractDuration returns the duration_ms field, if present.
func extractDuration(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

const (
	// MaxLogFileSize caps chartgen.log; the file is truncated past it.
	MaxLogFileSize = 50 * 1024 * 1024
)

type rotatingLogWriter struct {
	file *os.File
	path string
	mu   sync.Mutex
}

func (w *rotatingLogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := w.file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()

		w.file, err = os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
	}

	return w.file.Write(p)
}

func (w *rotatingLogWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func (w *rotatingLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// openLogFile opens path for append, truncating it first if it is over the cap.
func openLogFile(path string) (*rotatingLogWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	info, err := file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		file.Close()
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to truncate log file %s: %w", path, err)
		}
	}

	return &rotatingLogWriter{file: file, path: path}, nil
}

// customFileEncoder writes "time     LEVEL message\t{json fields}".
// Context added with Logger.With lives in the embedded map encoder and is
// merged into every entry.
type customFileEncoder struct {
	*zapcore.MapObjectEncoder
}

func newFileEncoder() *customFileEncoder {
	return &customFileEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (e *customFileEncoder) Clone() zapcore.Encoder {
	clone := newFileEncoder()
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (e *customFileEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := bufferPool.Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")

	if entry.Message != "" {
		buf.AppendString(entry.Message)
	}

	merged := e.Clone().(*customFileEncoder)
	for _, field := range fields {
		field.AddTo(merged)
	}
	if len(merged.Fields) > 0 {
		jsonData, err := json.Marshal(merged.Fields)
		if err == nil {
			buf.AppendString("\t")
			buf.AppendString(string(jsonData))
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
