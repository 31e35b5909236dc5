// Package logging provides categorized zap logging for sleighwatch.
// Call Initialize once at startup; before that every helper is a no-op,
// so library packages can log unconditionally.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup and wiring
	CategoryFlight     Category = "flight"     // Autopilot ticks, targets, deliveries
	CategoryCompliance Category = "compliance" // Interrupt scheduler and session stages
	CategoryDraft      Category = "draft"      // Memo parsing
	CategoryAPI        Category = "api"        // Drafting/validation collaborator calls
	CategoryFeed       Category = "feed"       // Event feed
)

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// Initialize builds the process logger. With verbose=true a development
// config at debug level is used, otherwise a production config.
func Initialize(verbose bool) error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
	}
	// The TUI owns stdout; keep log output off the screen.
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	mu.Lock()
	root = logger
	mu.Unlock()
	return nil
}

// SetLogger replaces the process logger. Used by tests and by callers
// that build their own zap pipeline.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	root = l
	mu.Unlock()
}

// Sync flushes buffered log entries. Safe to call at any time.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}

// Get returns a sugared logger named for the category.
func Get(cat Category) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sugar().Named(string(cat))
}

// Category helpers, matching call sites like logging.Flight("picked %s", id).

func Boot(format string, args ...interface{})  { Get(CategoryBoot).Infof(format, args...) }
func Flight(format string, args ...interface{}) {
	Get(CategoryFlight).Debugf(format, args...)
}
func Compliance(format string, args ...interface{}) {
	Get(CategoryCompliance).Infof(format, args...)
}
func Draft(format string, args ...interface{}) { Get(CategoryDraft).Debugf(format, args...) }
func API(format string, args ...interface{})   { Get(CategoryAPI).Debugf(format, args...) }
func Feedf(format string, args ...interface{}) { Get(CategoryFeed).Debugf(format, args...) }

func APIWarn(format string, args ...interface{})  { Get(CategoryAPI).Warnf(format, args...) }
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Errorf(format, args...) }
func ComplianceWarn(format string, args ...interface{}) {
	Get(CategoryCompliance).Warnf(format, args...)
}
func FlightWarn(format string, args ...interface{}) {
	Get(CategoryFlight).Warnf(format, args...)
}
