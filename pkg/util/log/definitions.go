package log

// LoggingOutput - where log lines are written
type LoggingOutput int

const (
	// STDOUT -
	STDOUT LoggingOutput = iota
	// File -
	File
	// Both -
	Both
)

var stringLoggingOutputMap = map[string]LoggingOutput{
	"stdout": STDOUT,
	"file":   File,
	"both":   Both,
}

// LoggingFormat - how log lines are rendered
type LoggingFormat int

const (
	// Line -
	Line LoggingFormat = iota
	// JSON -
	JSON
)

var loggingFormatStringMap = map[LoggingFormat]string{
	Line: "line",
	JSON: "json",
}
