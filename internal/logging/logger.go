package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Config controls where log output goes and which levels are emitted.
type Config struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// Logger is a leveled logger handle. Each command constructs one and passes it
// explicitly through the call chain; there is no package-level logger.
type Logger struct {
	logger *log.Logger
	level  Level
	closer io.Closer
}

// Level is a log severity threshold.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelMap = map[string]Level{
	"debug": DEBUG,
	"info":  INFO,
	"warn":  WARN,
	"error": ERROR,
}

// New creates a logger from a config. A nil config logs at info level to stderr.
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = &Config{Level: "info", Output: "stderr"}
	}

	level, ok := levelMap[config.Level]
	if !ok {
		level = INFO
	}

	var output io.Writer
	var closer io.Closer
	switch config.Output {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		closer = file
	}

	return &Logger{
		logger: log.New(output, "", log.LstdFlags),
		level:  level,
		closer: closer,
	}, nil
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level <= DEBUG {
		l.logger.Printf("[DEBUG] "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.level <= INFO {
		l.logger.Printf("[INFO] "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= WARN {
		l.logger.Printf("[WARN] "+format, args...)
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= ERROR {
		l.logger.Printf("[ERROR] "+format, args...)
	}
}

// Close releases the log file if one was opened.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
