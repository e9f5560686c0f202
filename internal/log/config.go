package log

import (
	"io"
	"os"
	"strings"
)

// Format represents the output format for logs
type Format int

const (
	// FormatText outputs logs in human-readable text format
	FormatText Format = iota
	// FormatJSON outputs logs in JSON format
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// ParseFormat parses a string into a Format. Anything but json is text,
// since the CLI writes logs next to interactive output.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatText
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level to output
	Level Level

	// Format is the output format (JSON or Text)
	Format Format

	// Output is where logs are written; stdout is reserved for command output
	Output io.Writer

	// AddSource includes source file and line number in logs
	AddSource bool

	// Redact lists attribute keys whose values are masked
	Redact []string
}

// DefaultRedactedKeys are masked in every logger unless Redact is set explicitly
var DefaultRedactedKeys = []string{"token", "authorization", "senha", "password", "secret"}

// DefaultConfig logs warnings and above as text to stderr
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
		Redact: DefaultRedactedKeys,
	}
}

// DebugConfig logs everything with source locations, used by --log-level debug
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = LevelDebug
	cfg.AddSource = true
	return cfg
}
