package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func Init() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

// Infof logs to the info logger, initializing it first if needed.
func Infof(format string, args ...interface{}) {
	if InfoLogger == nil {
		Init()
	}
	InfoLogger.Infof(format, args...)
}

// Errorf logs to the error logger, initializing it first if needed.
func Errorf(format string, args ...interface{}) {
	if ErrorLogger == nil {
		Init()
	}
	ErrorLogger.Errorf(format, args...)
}
