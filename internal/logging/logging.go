package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/config"
)

var (
	sinkMu sync.RWMutex
	sink   io.Writer = os.Stdout
	closer io.Closer
)

// Init installs the global zerolog logger described by cfg. When cfg.File
// is set, records go to stdout and to a size-capped file.
func Init(cfg config.LogConfig) error {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var fileCloser io.Closer
	if cfg.File != "" {
		fw, err := newCappedFile(cfg.File, cfg.MaxMB)
		if err != nil {
			return err
		}
		out = io.MultiWriter(os.Stdout, fw)
		fileCloser = fw
	}
	setSink(out, fileCloser)

	var console io.Writer = out
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(console).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	return nil
}

// Writer is the raw sink shared with non-zerolog loggers such as the HTTP
// access log.
func Writer() io.Writer {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sink
}

// Close releases the log file, if any.
func Close() error {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	sink = os.Stdout
	return err
}

func setSink(w io.Writer, c io.Closer) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	sink = w
	closer = c
}
