// Package logging provides config-driven categorized file-based logging for the roadtrip client.
// Logs are written to the configured directory with a separate rotated file per category.
// Logging is controlled by debug_mode - when false, every logger is a no-op.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"roadtrip/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Boot/initialization
	CategoryAPI        Category = "api"        // Request transport and response classification
	CategoryCredential Category = "credential" // Token store reads/writes
	CategoryAdapter    Category = "adapter"    // Payload shape reconciliation
	CategoryChecklist  Category = "checklist"  // Checklist operations
	CategoryRoutes     Category = "routes"     // Route operations
	CategoryAuth       Category = "auth"       // Login, logout, registration
)

// Logger wraps a zap sugared logger bound to one category and its file.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
	sink     io.Closer
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	cfg       config.LoggingConfig
	configMu  sync.RWMutex
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	nop       = zap.NewNop().Sugar()
)

// Initialize applies the logging config. Any previously opened category files are closed.
// Should be called once at startup.
func Initialize(c config.LoggingConfig) error {
	CloseAll()

	configMu.Lock()
	cfg = c
	level.SetLevel(parseLevel(c.Level))
	configMu.Unlock()

	// Only create the log directory if debug mode is enabled
	if !c.DebugMode {
		return nil
	}
	if c.Dir == "" {
		return fmt.Errorf("log directory required when debug_mode is on")
	}
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== roadtrip logging initialized ===")
	boot.Info("Logs directory: %s", c.Dir)
	boot.Info("Log level: %s", level.Level())
	if len(c.Categories) > 0 {
		enabled := 0
		for cat, on := range c.Categories {
			if on {
				enabled++
			}
			boot.Debug("Category '%s': %v", cat, on)
		}
		boot.Info("Enabled categories: %d/%d", enabled, len(c.Categories))
	} else {
		boot.Info("All categories enabled (no category filter)")
	}
	return nil
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: nop}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	configMu.RLock()
	c := cfg
	configMu.RUnlock()

	sink := &lumberjack.Logger{
		Filename:   filepath.Join(c.Dir, string(category)+".log"),
		MaxSize:    atLeast(c.Rotation.MaxSizeMB, 1),
		MaxBackups: atLeast(c.Rotation.MaxBackups, 1),
		MaxAge:     atLeast(c.Rotation.MaxAgeDays, 1),
		Compress:   c.Rotation.Compress,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if strings.ToLower(c.Format) == "console" || strings.ToLower(c.Format) == "text" {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(sink), level)
	zl := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Named(string(category))

	l := &Logger{category: category, sugar: zl.Sugar(), sink: sink}
	loggers[category] = l
	return l
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

// CloseAll flushes and closes every open category file.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for cat, l := range loggers {
		_ = l.sugar.Sync()
		if l.sink != nil {
			_ = l.sink.Close()
		}
		delete(loggers, cat)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// =============================================================================
// CATEGORY HELPERS
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// API logs to the api category
func API(format string, args ...interface{}) {
	Get(CategoryAPI).Info(format, args...)
}

// APIDebug logs debug to the api category
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}

// APIWarn logs warning to the api category
func APIWarn(format string, args ...interface{}) {
	Get(CategoryAPI).Warn(format, args...)
}

// APIError logs error to the api category
func APIError(format string, args ...interface{}) {
	Get(CategoryAPI).Error(format, args...)
}

// Credential logs to the credential category
func Credential(format string, args ...interface{}) {
	Get(CategoryCredential).Info(format, args...)
}

// CredentialDebug logs debug to the credential category
func CredentialDebug(format string, args ...interface{}) {
	Get(CategoryCredential).Debug(format, args...)
}

// CredentialError logs error to the credential category
func CredentialError(format string, args ...interface{}) {
	Get(CategoryCredential).Error(format, args...)
}

// AdapterDebug logs debug to the adapter category
func AdapterDebug(format string, args ...interface{}) {
	Get(CategoryAdapter).Debug(format, args...)
}

// AdapterWarn logs warning to the adapter category
func AdapterWarn(format string, args ...interface{}) {
	Get(CategoryAdapter).Warn(format, args...)
}

// Checklist logs to the checklist category
func Checklist(format string, args ...interface{}) {
	Get(CategoryChecklist).Info(format, args...)
}

// ChecklistDebug logs debug to the checklist category
func ChecklistDebug(format string, args ...interface{}) {
	Get(CategoryChecklist).Debug(format, args...)
}

// ChecklistError logs error to the checklist category
func ChecklistError(format string, args ...interface{}) {
	Get(CategoryChecklist).Error(format, args...)
}

// Routes logs to the routes category
func Routes(format string, args ...interface{}) {
	Get(CategoryRoutes).Info(format, args...)
}

// RoutesDebug logs debug to the routes category
func RoutesDebug(format string, args ...interface{}) {
	Get(CategoryRoutes).Debug(format, args...)
}

// RoutesError logs error to the routes category
func RoutesError(format string, args ...interface{}) {
	Get(CategoryRoutes).Error(format, args...)
}

// Auth logs to the auth category
func Auth(format string, args ...interface{}) {
	Get(CategoryAuth).Info(format, args...)
}

// AuthError logs error to the auth category
func AuthError(format string, args ...interface{}) {
	Get(CategoryAuth).Error(format, args...)
}

// =============================================================================
// REQUEST ID TRACING
// =============================================================================

// NewRequestID returns a fresh correlation ID. It only ever appears in logs.
func NewRequestID() string {
	return uuid.NewString()
}

// RequestLogger provides request-scoped logging with a correlation ID
type RequestLogger struct {
	sugar     *zap.SugaredLogger
	requestID string
}

// WithRequestID creates a request-scoped logger
func WithRequestID(category Category, requestID string) *RequestLogger {
	return &RequestLogger{
		sugar:     Get(category).sugar.With("req", requestID),
		requestID: requestID,
	}
}

// RequestID returns the correlation ID this logger stamps on every entry.
func (r *RequestLogger) RequestID() string {
	return r.requestID
}

// WithField returns a copy of the request logger carrying an extra field
func (r *RequestLogger) WithField(key string, value interface{}) *RequestLogger {
	return &RequestLogger{sugar: r.sugar.With(key, value), requestID: r.requestID}
}

func (r *RequestLogger) Debug(format string, args ...interface{}) {
	r.sugar.Debugf(format, args...)
}

func (r *RequestLogger) Info(format string, args ...interface{}) {
	r.sugar.Infof(format, args...)
}

func (r *RequestLogger) Warn(format string, args ...interface{}) {
	r.sugar.Warnf(format, args...)
}

func (r *RequestLogger) Error(format string, args ...interface{}) {
	r.sugar.Errorf(format, args...)
}

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
