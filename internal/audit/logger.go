package audit

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Package audit provides structured application and audit logging: a
// console+file app logger for operational messages and a JSON audit trail
// of analysis lifecycle events, both rotated by lumberjack.

// Config represents logger configuration
type Config struct {
	// AppLogPath is the path to the application log file
	AppLogPath string

	// AuditLogPath is the path to the audit log file
	AuditLogPath string

	// Level is the minimum app log level (debug, info, warn, error)
	Level string

	// MaxSizeMB is the maximum size in megabytes before rotation
	MaxSizeMB int

	// MaxBackups is the maximum number of old log files to retain
	MaxBackups int

	// MaxAgeDays is the maximum number of days to retain old log files
	MaxAgeDays int

	// Compress determines if rotated files should be compressed
	Compress bool
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		AppLogPath:   "logs/app.log",
		AuditLogPath: "logs/audit.log",
		Level:        "info",
		MaxSizeMB:    100,
		MaxBackups:   10,
		MaxAgeDays:   30,
		Compress:     true,
	}
}

// Logger carries the app logger and the audit trail.
type Logger struct {
	app   *zap.Logger
	audit *zap.Logger
}

// New builds the loggers from config.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	appFile := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.AppLogPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
	auditFile := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.AuditLogPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})

	appCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), appFile, level)
	auditCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), auditFile, zapcore.InfoLevel)

	return &Logger{
		app:   zap.New(appCore, zap.AddCaller()),
		audit: zap.New(auditCore),
	}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return &Logger{app: zap.NewNop(), audit: zap.NewNop()}
}

// App returns the application logger.
func (l *Logger) App() *zap.Logger { return l.app }

// AnalysisStarted records the start of a dataset analysis.
func (l *Logger) AnalysisStarted(fileName string, rows, cols int) {
	l.audit.Info("analysis_started",
		zap.String("file_name", fileName),
		zap.Int("rows", rows),
		zap.Int("cols", cols))
}

// AnalysisCompleted records a finished analysis with its route and timing.
func (l *Logger) AnalysisCompleted(datasetID, fileName, route string, duration time.Duration) {
	l.audit.Info("analysis_completed",
		zap.String("dataset_id", datasetID),
		zap.String("file_name", fileName),
		zap.String("route", route),
		zap.Duration("duration", duration))
}

// AnalysisFailed records an aborted analysis.
func (l *Logger) AnalysisFailed(fileName string, err error) {
	l.audit.Error("analysis_failed",
		zap.String("file_name", fileName),
		zap.Error(err))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	appErr := l.app.Sync()
	if err := l.audit.Sync(); err != nil {
		return err
	}
	return appErr
}
