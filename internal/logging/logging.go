// Package logging adapts github.com/d2r2/go-logger's per-package leveled
// logger to the core.Logger interface.
package logging

import logger "github.com/d2r2/go-logger"

// PackageName is the go-logger package name the core logs under. Callers
// tune verbosity at runtime with:
//
//	logger.ChangePackageLogLevel(logging.PackageName, logger.DebugLevel)
const PackageName = "i2ccore"

// Logger adapts the package-level go-logger instance to core.Logger
// (Debugf/Errorf).
type Logger struct {
	lg logger.PackageLog
}

// New builds a Logger at the default Info level.
func New() *Logger {
	return &Logger{lg: logger.NewPackageLogger(PackageName, logger.InfoLevel)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.lg.Debugf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.lg.Errorf(format, args...) }
