// Copyright (C) 2025 the vosim authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/rs/zerolog"
)

var (
	debugMode  = flag.Bool("d", false, "Enable debug mode")
	logFile    = flag.String("log-file", "", "Log file path (logs disabled by default)")
	configPath = flag.String("config", "config.json", "Configuration file path")
)

func main() {
	flag.Parse()

	logger := initLogger(*debugMode, *logFile)
	logger.Info().Msg("vosim starting")

	// With a "-" argument, execute command lines from stdin and exit.
	args := flag.Args()
	if len(args) > 0 && args[0] == "-" {
		runScriptMode(logger)
		return
	}

	runShell(logger)
}

func initLogger(debug bool, logFilePath string) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// No logging to console by default; the REPL owns the terminal.
	var output io.Writer = io.Discard
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		output = file
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
