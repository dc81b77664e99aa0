// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/audit"
)

const (
	dumpDirPermissions = 0o700
	logFilePermissions = 0o666
)

var logLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// setupAudit applies the Log and Development sections to the global logger
// and render dumps.
func (cfg *ServerConfig) setupAudit() {
	level := logLevels[cfg.Log.Level]
	if cfg.Development.InDevelopment {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	var writers []io.Writer

	for _, output := range cfg.Log.Outputs {
		switch output {
		case "/dev/stdout":
			writers = append(writers, ConsoleWriter(os.Stdout))
		case "/dev/stderr":
			writers = append(writers, ConsoleWriter(os.Stderr))
		default:
			file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec G302 G304
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", output, err)

				continue
			}

			if cfg.Log.Format == "json" {
				writers = append(writers, file)
			} else {
				writers = append(writers, ConsoleWriter(file))
			}
		}
	}

	if len(writers) == 0 {
		writers = append(writers, ConsoleWriter(os.Stderr))
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...))

	audit.DumpRenders = cfg.Development.DumpRenders
	audit.DumpDirectory = cfg.Development.DumpDirectory

	if audit.DumpRenders {
		if err := os.MkdirAll(audit.DumpDirectory, dumpDirPermissions); err != nil {
			log.Error().
				Err(err).
				Str("path", audit.DumpDirectory).
				Msg("Failed to create render dump directory, dumps disabled")

			audit.DumpRenders = false
		}
	}
}

// ConsoleWriter returns a zerolog console writer for f, coloured only when f is a terminal.
func ConsoleWriter(f *os.File) io.Writer {
	noColor := !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())

	w := zerolog.ConsoleWriter{Out: f, NoColor: noColor, TimeFormat: time.DateTime}

	if !noColor {
		w.FormatPrepare = func(m map[string]any) error {
			// one-line request logs
			if sys, ok := m["sys"]; ok && sys == "user" {
				m["message"] = fmt.Sprintf("%v %-5v %v %vms", m["status_code"], m["method"], m["name"], m["dur"])
				for _, k := range []string{"sys", "method", "status_code", "name", "dur", "len"} {
					delete(m, k)
				}
			}

			return nil
		}
	}

	return w
}
