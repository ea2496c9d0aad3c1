package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/freekieb7/httpd/http"
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Config struct {
	Addr            string
	ReadBufferSize  int
	ParseMode       http.ParseMode
	FilesDir        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	ServiceName  string
	OTLPEndpoint string
}

func Default() Config {
	return Config{
		Addr:            "0.0.0.0:4221",
		ReadBufferSize:  http.DefaultReadBufferSize,
		ParseMode:       http.ParseLenient,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		ServiceName:     "httpd",
	}
}

// TelemetryEnabled reports whether OTLP export was configured.
func (c Config) TelemetryEnabled() bool {
	return c.OTLPEndpoint != ""
}

// Load builds the configuration from defaults, then the environment, then
// command line flags. getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}

	parseMode := cfg.ParseMode.String()
	fs := newFlagSet(&cfg, &parseMode)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	mode, err := ParseMode(parseMode)
	if err != nil {
		return cfg, err
	}
	cfg.ParseMode = mode

	return cfg, cfg.Validate()
}

// Usage prints the command line flags with their defaults to w.
func Usage(w io.Writer) {
	cfg := Default()
	parseMode := cfg.ParseMode.String()
	fs := newFlagSet(&cfg, &parseMode)
	fs.SetOutput(w)

	fmt.Fprintf(w, "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

func newFlagSet(cfg *Config, parseMode *string) *flag.FlagSet {
	fs := flag.NewFlagSet("httpd", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	fs.IntVar(&cfg.ReadBufferSize, "read-buffer-size", cfg.ReadBufferSize, "maximum request size read per connection")
	fs.StringVar(parseMode, "parse-mode", *parseMode, "request parsing mode: lenient or strict")
	fs.StringVar(&cfg.FilesDir, "files-dir", cfg.FilesDir, "directory answering /files/ lookups, disabled when empty")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "per connection read timeout")
	fs.DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "per connection write timeout")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "grace period for in-flight connections")
	return fs
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("HTTPD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("HTTPD_FILES_DIR"); v != "" {
		c.FilesDir = v
	}
	if v := getenv("OTEL_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	c.OTLPEndpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	if v := getenv("HTTPD_READ_BUFFER_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTPD_READ_BUFFER_SIZE: %w", ErrInvalidConfig, err)
		}
		c.ReadBufferSize = size
	}
	if v := getenv("HTTPD_PARSE_MODE"); v != "" {
		mode, err := ParseMode(v)
		if err != nil {
			return err
		}
		c.ParseMode = mode
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTPD_READ_TIMEOUT", &c.ReadTimeout},
		{"HTTPD_WRITE_TIMEOUT", &c.WriteTimeout},
		{"HTTPD_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}

func ParseMode(s string) (http.ParseMode, error) {
	switch s {
	case "lenient":
		return http.ParseLenient, nil
	case "strict":
		return http.ParseStrict, nil
	default:
		return http.ParseLenient, fmt.Errorf("%w: unknown parse mode %q", ErrInvalidConfig, s)
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: read buffer size must be positive, got %d", ErrInvalidConfig, c.ReadBufferSize)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	return nil
}
