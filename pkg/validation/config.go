package validation

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
	logFormats = []string{"json", "console"}
)

// ValidateLogLevel checks the logging level. An empty level selects the default.
func ValidateLogLevel(level string) error {
	if level == "" || lo.Contains(logLevels, strings.ToLower(level)) {
		return nil
	}
	return fmt.Errorf("expected log level of %s, got %s", strings.Join(logLevels, ", "), level)
}

// ValidateLogFormat checks the logging encoder. An empty format selects the default.
func ValidateLogFormat(format string) error {
	if format == "" || lo.Contains(logFormats, strings.ToLower(format)) {
		return nil
	}
	return fmt.Errorf("expected log format of %s, got %s", strings.Join(logFormats, " or "), format)
}
