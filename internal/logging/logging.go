package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"arena-fleet/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.Mutex
	writer   io.Writer = os.Stdout
	fileSink *logFileSink
)

// Init configures the global zerolog logger. When cfg.File is set the log
// stream goes to a size-limited file shared with the HTTP request logger.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	writerMu.Lock()
	writer = os.Stdout
	if cfg.File != "" {
		if w, err := newLogFileSink(cfg.File, cfg.MaxMB); err == nil {
			fileSink = w
			writer = w
		}
	}
	output := writer
	writerMu.Unlock()

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer returns the raw log sink for the httplog slog handler.
func Writer() io.Writer {
	writerMu.Lock()
	defer writerMu.Unlock()
	return writer
}

func Close() error {
	writerMu.Lock()
	defer writerMu.Unlock()
	if fileSink != nil {
		err := fileSink.Close()
		fileSink = nil
		writer = os.Stdout
		return err
	}
	return nil
}
