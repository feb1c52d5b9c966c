package sources

import "nmqueue/internal/shared/logger"

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)             {}
func (noopLogger) Info(msg string, args ...any)              {}
func (noopLogger) Warn(msg string, args ...any)              {}
func (noopLogger) Error(msg string, args ...any)             {}
func (noopLogger) With(args ...any) logger.Interface         { return noopLogger{} }
func (noopLogger) Named(name string) logger.Interface        { return noopLogger{} }
func (noopLogger) Debugw(msg string, keysAndValues ...any)   {}
func (noopLogger) Infow(msg string, keysAndValues ...any)    {}
func (noopLogger) Warnw(msg string, keysAndValues ...any)    {}
func (noopLogger) Errorw(msg string, keysAndValues ...any)   {}
