package config

import (
	"io"

	"github.com/pqd/pqd-sdk/pkg/cmd/properties"
	"github.com/pqd/pqd-sdk/pkg/util/log"
)

// LogConfig - Interface for logging config
type LogConfig interface {
	GetLevel() string
}

// LogConfiguration -
type LogConfiguration struct {
	LogConfig
	Level     string               `config:"level"`
	Format    string               `config:"format"`
	Output    string               `config:"output"`
	File      LogFileConfiguration `config:"file"`
	HTTPTrace bool                 `config:"httpTrace"`
	writer    io.Writer
}

// GetLevel -
func (l *LogConfiguration) GetLevel() string {
	return l.Level
}

func (l *LogConfiguration) setupLogger() error {
	log.SetHTTPTrace(l.HTTPTrace)
	return log.GlobalLoggerConfig.Level(l.Level).
		Format(l.Format).
		Output(l.Output).
		Writer(l.writer).
		Filename(l.File.Name).
		Path(l.File.Path).
		MaxSize(l.File.MaxSize).
		MaxBackups(l.File.MaxBackups).
		MaxAge(l.File.MaxAge).
		Apply()
}

// LogFileConfiguration - setup the logging configuration for file output
type LogFileConfiguration struct {
	Name       string `config:"name"`
	Path       string `config:"path"`
	MaxSize    int    `config:"rotateeverymegabytes"`
	MaxAge     int    `config:"cleanbackups"`
	MaxBackups int    `config:"keepfiles"`
}

const (
	pathLogLevel          = "log.level"
	pathLogFormat         = "log.format"
	pathLogOutput         = "log.output"
	pathLogFileName       = "log.file.name"
	pathLogFilePath       = "log.file.path"
	pathLogFileMaxSize    = "log.file.rotateeverymegabytes"
	pathLogFileMaxAge     = "log.file.cleanbackups"
	pathLogFileMaxBackups = "log.file.keepfiles"
	pathLogHTTPTrace      = "log.http.trace"
)

// AddLogConfigProperties - Adds the command properties needed for Log Config
func AddLogConfigProperties(props properties.Properties, defaultFileName string) {
	props.AddStringProperty(pathLogLevel, "info", "Log level (trace, debug, info, warn, error)")
	props.AddStringProperty(pathLogFormat, "line", "Log format (json, line)")
	props.AddStringProperty(pathLogOutput, "stdout", "Log output type (stdout, file, both), stdout logs are written to stderr")

	// Log file options
	props.AddStringProperty(pathLogFileName, defaultFileName, "Name of the log files")
	props.AddStringProperty(pathLogFilePath, "logs", "Log file path if output type is file or both")
	props.AddIntProperty(pathLogFileMaxSize, 100, "The maximum size of a log file, in megabytes  (default: 100)")
	props.AddIntProperty(pathLogFileMaxAge, 0, "The maximum number of days, 24 hour periods, to keep the log file backups")
	props.AddIntProperty(pathLogFileMaxBackups, 7, "The maximum number of backups to keep of log files (default: 7)")
	props.AddBoolProperty(pathLogHTTPTrace, false, "Trace the connection events of every request, needs log.level trace")
}

// ParseAndSetupLogConfig - Parses the Log Config and setups the logger, console output goes to writer
func ParseAndSetupLogConfig(props properties.Properties, writer io.Writer) (*LogConfiguration, error) {
	cfg := &LogConfiguration{
		Level:  props.StringPropertyValue(pathLogLevel),
		Format: props.StringPropertyValue(pathLogFormat),
		Output: props.StringPropertyValue(pathLogOutput),
		File: LogFileConfiguration{
			Name:       props.StringPropertyValue(pathLogFileName),
			Path:       props.StringPropertyValue(pathLogFilePath),
			MaxSize:    props.IntPropertyValue(pathLogFileMaxSize),
			MaxBackups: props.IntPropertyValue(pathLogFileMaxBackups),
			MaxAge:     props.IntPropertyValue(pathLogFileMaxAge),
		},
		HTTPTrace: props.BoolPropertyValue(pathLogHTTPTrace),
		writer:    writer,
	}

	return cfg, cfg.setupLogger()
}
