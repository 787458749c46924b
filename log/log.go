// Package log sets up file logging for appmodel hosts and tools. Rotation
// is handled by lumberjack; the registries themselves never log, so this
// stays a host-side concern.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLog    *log.Logger
	WarningLog *log.Logger
	ErrorLog   *log.Logger

	globalLogFile io.WriteCloser
	logFilePath   = filepath.Join(os.TempDir(), "appmodel.log")
)

// Config holds logging configuration.
type Config struct {
	Enabled  bool
	Dir      string // empty means ~/.appmodel/logs
	MaxSize  int    // megabytes per file
	MaxFiles int    // rotated backups to keep
	MaxAge   int    // days
	Compress bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:  true,
		MaxSize:  10,
		MaxFiles: 5,
		MaxAge:   30,
		Compress: true,
	}
}

// ConfigDir returns the path to the application's configuration directory.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".appmodel"), nil
}

// LogDir returns the directory where logs should be stored.
func LogDir(cfg *Config) (string, error) {
	if cfg != nil && !cfg.Enabled {
		return os.TempDir(), nil
	}
	if cfg != nil && cfg.Dir != "" {
		return cfg.Dir, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return os.TempDir(), fmt.Errorf("failed to get config directory: %w", err)
	}
	logDir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return os.TempDir(), fmt.Errorf("failed to create log directory: %w", err)
	}
	return logDir, nil
}

// LogFilePath returns the full path to the log file.
func LogFilePath(cfg *Config) (string, error) {
	logDir, err := LogDir(cfg)
	if err != nil {
		return logFilePath, err
	}
	return filepath.Join(logDir, "appmodel.log"), nil
}

func init() {
	// Default loggers so log calls don't panic before Initialize.
	InfoLog = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	WarningLog = log.New(os.Stderr, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
}

// Initialize should be called once at program start; defer Close after it.
func Initialize() {
	InitializeWithConfig(DefaultConfig())
}

// InitializeWithConfig sets up file logging with the provided configuration.
func InitializeWithConfig(cfg *Config) {
	path, err := LogFilePath(cfg)
	if err != nil {
		fmt.Printf("Warning: using default log file location due to error: %v\n", err)
		path = logFilePath
	}

	writer := rotatingWriter(path, cfg)
	InfoLog = log.New(writer, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(writer, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog = log.New(writer, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	if closer, ok := writer.(io.WriteCloser); ok {
		globalLogFile = closer
	}
	logFilePath = path
}

// rotatingWriter creates a writer that rotates based on config.
func rotatingWriter(path string, cfg *Config) io.Writer {
	if cfg == nil || cfg.MaxSize <= 0 {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			panic(fmt.Sprintf("could not create log directory: %s", err))
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Sprintf("could not open log file: %s", err))
		}
		return f
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxFiles,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

// Close flushes and closes the log file.
func Close() {
	if globalLogFile != nil {
		_ = globalLogFile.Close()
		globalLogFile = nil
	}
}
