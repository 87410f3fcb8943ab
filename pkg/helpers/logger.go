package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// LogError logs msg with err attached. A nil logger is ignored so optional
// collaborators can call it unconditionally.
func LogError(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if isNilLogger(logger) {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logger.WithFields(fields).Error(msg)
}

// LogWarn is LogError at warning level, for best-effort side effects.
func LogWarn(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if isNilLogger(logger) {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logger.WithFields(fields).Warn(msg)
}

func isNilLogger(logger logrus.FieldLogger) bool {
	switch l := logger.(type) {
	case nil:
		return true
	case *logrus.Logger:
		return l == nil
	case *logrus.Entry:
		return l == nil
	}
	return false
}
