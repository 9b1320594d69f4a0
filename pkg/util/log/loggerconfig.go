package log

import (
	"flag"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// GlobalLoggerConfig - is the default config of the logger
var GlobalLoggerConfig LoggerConfig

func init() {
	GlobalLoggerConfig = LoggerConfig{
		output: STDOUT,
		path:   ".",
		cfg: rotatefilehook.RotateFileConfig{
			Level:     logrus.InfoLevel,
			Formatter: &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
		},
		initialized: false,
	}
}

// LoggerConfig - is a builder used to setup the logging for the sdk
type LoggerConfig struct {
	err         error
	output      LoggingOutput
	path        string
	cfg         rotatefilehook.RotateFileConfig
	stdout      io.Writer
	initialized bool
}

// Apply - applies the config changes to the logger
func (b *LoggerConfig) Apply() error {
	if b.err != nil {
		// the next configuration starts clean
		err := b.err
		b.err = nil
		return err
	}

	log.SetFormatter(b.cfg.Formatter)
	log.SetLevel(b.cfg.Level)
	log.SetOutput(io.Discard)

	if b.output == STDOUT || b.output == Both {
		writer := b.stdout
		if writer == nil {
			writer = os.Stdout
		}
		log.SetOutput(writer)
	}

	if !b.initialized {
		if b.output == File || b.output == Both {
			cfg := b.cfg
			if b.path != "" {
				cfg.Filename = path.Join(b.path, b.cfg.Filename)
			}
			rotateFileHook, err := rotatefilehook.NewRotateFileHook(cfg)
			if err != nil {
				return err
			}
			log.AddHook(rotateFileHook)
		}
		// Set to initialized if this is not a test
		b.initialized = flag.Lookup("test.v") == nil
	}

	return nil
}

// Level - sets the logger level
func (b *LoggerConfig) Level(level string) *LoggerConfig {
	if b.err == nil {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			b.err = ErrInvalidLogConfig.FormatError("log.level", "trace, debug, info, warn, error")
		}
		b.cfg.Level = lvl
	}
	return b
}

// Format - sets the logger format
func (b *LoggerConfig) Format(format string) *LoggerConfig {
	if b.err == nil {
		switch strings.ToLower(format) {
		case loggingFormatStringMap[Line]:
			b.cfg.Formatter = &logrus.TextFormatter{TimestampFormat: time.RFC3339}
		case loggingFormatStringMap[JSON]:
			b.cfg.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339}
		default:
			b.err = ErrInvalidLogConfig.FormatError("log.format", "json, line")
		}
	}
	return b
}

// Output - sets how the logs will be tracked
func (b *LoggerConfig) Output(output string) *LoggerConfig {
	if b.err == nil {
		out, ok := stringLoggingOutputMap[strings.ToLower(output)]
		if !ok {
			b.err = ErrInvalidLogConfig.FormatError("log.output", "stdout, file, both")
		}
		b.output = out
	}
	return b
}

// Writer - overrides the stdout writer, used by the cli to keep logs off the command output
func (b *LoggerConfig) Writer(w io.Writer) *LoggerConfig {
	if b.err == nil {
		b.stdout = w
	}
	return b
}

// Filename -
func (b *LoggerConfig) Filename(filename string) *LoggerConfig {
	if b.err == nil {
		b.cfg.Filename = filename
	}
	return b
}

// Path -
func (b *LoggerConfig) Path(path string) *LoggerConfig {
	if b.err == nil {
		b.path = path
	}
	return b
}

// MaxSize - maximum size of a log file in megabytes
func (b *LoggerConfig) MaxSize(maxSize int) *LoggerConfig {
	if b.err == nil {
		if maxSize < 1 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.rotateeverymegabytes", "minimum of 1")
		}
		b.cfg.MaxSize = maxSize
	}
	return b
}

// MaxBackups -
func (b *LoggerConfig) MaxBackups(maxBackups int) *LoggerConfig {
	if b.err == nil {
		if maxBackups < 0 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.keepfiles", "0 or greater")
		}
		b.cfg.MaxBackups = maxBackups
	}
	return b
}

// MaxAge -
func (b *LoggerConfig) MaxAge(maxAge int) *LoggerConfig {
	if b.err == nil {
		if maxAge < 0 {
			b.err = ErrInvalidLogConfig.FormatError("log.file.cleanbackups", "0 or greater")
		}
		b.cfg.MaxAge = maxAge
	}
	return b
}
