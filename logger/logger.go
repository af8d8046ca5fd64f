// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

// ------------------- logger initialization -------------------

// configure points every logger at the same writer.
func configure(w io.Writer) {
	Info = log.New(w, "INFO: ", logFlags)
	Warn = log.New(w, "WARN: ", logFlags)
	Error = log.New(w, "ERROR: ", logFlags)
	Debug = log.New(w, "DEBUG: ", logFlags)
}

// InitLogger reinitializes the logging system. With an empty dir the loggers
// write to stdout only. Otherwise it:
// - Ensures dir exists.
// - Creates a timestamped log file in dir.
// - Writes logs to both the file and stdout.
func InitLogger(dir string) error {
	if dir == "" {
		configure(os.Stdout)
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	logFileName := filepath.Join(dir, time.Now().Format("2006-01-02_15-04-05")+".log")
	file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
	if err != nil {
		return err
	}

	configure(io.MultiWriter(os.Stdout, file))
	return nil
}

// SetLogLevel adjusts the Debug logger's output depending on environment.
// In production debug output is discarded entirely.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

// init wires stdout loggers so packages can log before main calls InitLogger.
func init() {
	configure(os.Stdout)
}
