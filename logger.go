// logger.go
// Package textcharset provides shared utilities for the go_text_charset package.
package textcharset

import (
	"github.com/baditaflorin/go_text_charset/internal/adapters/logger"
	"github.com/baditaflorin/go_text_charset/internal/ports"
)

// createDefaultLogger creates and returns a default logger instance.
// Detection runs inside other programs, so the default writes text to stderr
// and leaves stdout to the caller.
func createDefaultLogger() (ports.Logger, error) {
	return logger.NewStdLogger()
}
