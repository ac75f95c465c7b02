// Package cli holds the start-up code shared by the command line tools.
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapeopt/config"
	"github.com/sarchlab/tapeopt/core"
)

// ExitUsage is the exit code for command line mistakes.
const ExitUsage = 2

// SetupLogging installs the default logger. With a log file every record
// down to the trace level goes there as JSON; otherwise warnings, or debug
// records when verbose, go to stderr as text.
func SetupLogging(logPath string, verbose bool) error {
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}

		atexit.Register(func() { f.Close() })

		handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: core.LevelTrace,
		})
		slog.SetDefault(slog.New(handler))

		return nil
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	return nil
}

// LoadConfig reads the optional file and applies the environment.
func LoadConfig(path string) (config.Config, error) {
	cfg := config.Default()

	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	cfg.ApplyEnv()

	return cfg, nil
}

// IsSet reports whether the named flag was given on the command line.
func IsSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})

	return set
}

// Stdout returns a buffered stdout that is flushed when the program exits
// through atexit.
func Stdout() *bufio.Writer {
	w := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { w.Flush() })

	return w
}

// Usage prints msg and the flag defaults, then exits with ExitUsage.
func Usage(msg string) {
	if msg != "" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], msg)
	}

	flag.Usage()
	atexit.Exit(ExitUsage)
}

// Fatal prints one diagnostic line and exits with status 1.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
	atexit.Exit(1)
}
