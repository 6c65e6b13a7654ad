package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "htmleditor"

	// DefaultBatchSize is the number of inputs processed concurrently.
	DefaultBatchSize = 8

	// DefaultMaxInputSize limits how many bytes are read from a single input.
	// E-mail bodies above a few megabytes are rejected by mail providers anyway.
	DefaultMaxInputSize = 10 * 1024 * 1024 // 10MB
)

// Config holds all options of a htmleditor run. It is populated from CLI
// flags and passed down explicitly.
type Config struct {
	// ConfigFilePath is the catalog file given with --config.
	// When empty, .htmleditor is searched in the current and home directories.
	ConfigFilePath string

	// Catalog is the field catalog used to resolve merge fields.
	// It always contains the built-in basic fields.
	Catalog *File

	// Verbose enables debug logging.
	Verbose bool

	// BatchSize is the number of inputs processed concurrently.
	BatchSize int

	// JSONReport prints the JSON report.
	JSONReport bool

	// MarkdownReport prints the Markdown report.
	MarkdownReport bool

	// ContentOnly prints only the processed content of each input.
	ContentOnly bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// Inputs are the HTML files to process. "-" reads stdin.
	Inputs []string

	// DBDir is the directory of the local archive database.
	DBDir string

	// SaveToDB archives every processed record.
	SaveToDB bool

	// EditorView converts id tags back into name tags in the printed content.
	EditorView bool

	// SkipSteps are pipeline step names to disable.
	SkipSteps []string

	// MaxInputSize is the maximum number of bytes read from one input.
	// Zero means DefaultMaxInputSize.
	MaxInputSize int64
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize:    DefaultBatchSize,
		MaxInputSize: DefaultMaxInputSize,
		DBDir:        XDGDataDir(),
		SaveToDB:     true,
	}
}

// XDGDataDir returns the XDG data directory for htmleditor.
// On Linux: ~/.local/share/htmleditor
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for htmleditor.
// On Linux: ~/.config/htmleditor
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.ContentOnly} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.MaxInputSize < 0 {
		return ErrInvalidMaxInputSize
	}

	return nil
}

// InputLimit returns the effective per-input size limit.
func (c *Config) InputLimit() int64 {
	if c.MaxInputSize == 0 {
		return DefaultMaxInputSize
	}
	return c.MaxInputSize
}
