// Package logger holds the process-wide zerolog logger.
//
// main calls Init once with the configured level and format; components get
// the result injected through their constructors.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how Init builds the logger.
type Options struct {
	// Level is a zerolog level name ("warning" is accepted for warn).
	// Empty or unknown names fall back to info.
	Level string
	// Pretty switches to zerolog's console writer for local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is added to every entry as "service" when non-empty.
	Service string
}

var (
	mu          sync.Mutex
	once        sync.Once
	instance    zerolog.Logger
	initialized bool
)

// Init builds the logger on first use and returns it. Later calls return the
// existing logger and ignore opts.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		instance = build(opts)
		initialized = true
	})
	return Get()
}

// Get returns the logger built by Init. It panics when Init has not run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset discards the logger so the next Init builds a new one. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	instance = zerolog.Nop()
	initialized = false
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	fields := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	return fields.Logger()
}

func parseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
