// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/aellingwood/anvil/internal/config"
)

// TimestampFormat is used by the text formatter.
const TimestampFormat = "2006-01-02 15:04:05"

// Setup applies the level and format from cfg to the standard logger and
// directs its output to out.
func Setup(cfg config.LogConfig, out io.Writer) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	formatter, err := newFormatter(cfg.Format)
	if err != nil {
		return err
	}

	log.SetLevel(level)
	log.SetFormatter(formatter)
	log.SetOutput(out)
	return nil
}

func newFormatter(format string) (log.Formatter, error) {
	switch format {
	case "", "text":
		return &log.TextFormatter{TimestampFormat: TimestampFormat, FullTimestamp: true}, nil
	case "json":
		return &log.JSONFormatter{TimestampFormat: TimestampFormat}, nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}
