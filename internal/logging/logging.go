// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the application logger.
//
// The TUI owns stdout and stderr, so logs go to a file. The returned logger
// is also installed as the charm log default so packages that grab
// log.Default() write to the same place.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Setup opens the log file and returns a configured logger plus a closer.
// When the file cannot be opened the logger discards output rather than
// scribbling over the TUI.
func Setup(path string, debug bool) (*log.Logger, func() error, error) {
	var w io.Writer = io.Discard
	closer := func() error { return nil }

	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err == nil {
			w = f
			closer = f.Close
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "nitro",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	log.SetDefault(logger)
	return logger, closer, nil
}

// SetupStderr returns a logger writing to stderr, for the non-TUI command
// surfaces where stderr is free.
func SetupStderr(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "nitro",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	log.SetDefault(logger)
	return logger
}

// Describe returns a short description of where logs are going, for the
// startup banner.
func Describe(path string) string {
	return fmt.Sprintf("logging to %s", path)
}
