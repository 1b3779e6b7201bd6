package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Config configures the internal logger.
type Config struct {
	// Level sets the verbosity (e.g. DEBUG, INFO, WARN, ERROR).
	Level string
	// Dir, when set, is the directory the log file is written to.
	Dir string
	// StdErr additionally mirrors log output to stderr.
	StdErr bool
}

const logFileName = "keybridge.log"

// Init configures the package-level logrus logger.
func Init(conf Config) {
	level, err := log.ParseLevel(strings.ToLower(conf.Level))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(
		&log.TextFormatter{
			FullTimestamp: true,
		},
	)

	var writers []io.Writer
	if conf.Dir != "" {
		f, err := os.OpenFile(
			filepath.Join(conf.Dir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644,
		)
		if err != nil {
			log.WithError(err).Error("could not open log file, logging to stderr only")
		} else {
			writers = append(writers, f)
		}
	}
	if conf.StdErr || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	log.SetOutput(io.MultiWriter(writers...))
}
