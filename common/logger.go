package common

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide logger. Subsystems derive their own with
// Logger().With("system", name).
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "hollowreach",
		})
	})
	return logger
}

// SetDebug toggles debug-level logging.
func SetDebug(debug bool) {
	if debug {
		Logger().SetLevel(log.DebugLevel)
		return
	}
	Logger().SetLevel(log.InfoLevel)
}
