package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWebSocketPingInterval is the default for
	// Config.WebSocketPingInterval. The bridges package does not read it;
	// WebSocketSource sends no pings of its own.
	DefaultWebSocketPingInterval = 30 * time.Second
	// DefaultMaxPayloadBytes is the default for Config.MaxPayloadBytes. The
	// bridges package does not read it and sets no read limit on the
	// connection.
	DefaultMaxPayloadBytes int64 = 1 << 20

	// DefaultHighWaterMark is the default for Config.DefaultHighWaterMark.
	// streamkit.New does not read it: a Stream built without an explicit
	// QueuingStrategy uses a high water mark of 1.
	DefaultHighWaterMark = 16

	// DefaultTraceDir is the default for Config.TraceDir. trace.NewWriter
	// takes its directory as an argument and does not read it.
	DefaultTraceDir = "traces"
	// DefaultTraceRetention is the default for Config.TraceRetention.
	// trace.NewCleaner takes its retention as an argument and does not read it.
	DefaultTraceRetention = 7 * 24 * time.Hour

	// DefaultVTimeFlushIterationCap is the default for
	// Config.VTimeFlushIterationCap. The vtime package does not read it; its
	// flushCurrentTick cap is a constant of the same value.
	DefaultVTimeFlushIterationCap = 100
	// DefaultVTimeRunnerIterationCap is the default for
	// Config.VTimeRunnerIterationCap. The vtime package does not read it; its
	// runRunners cap is a constant of the same value.
	DefaultVTimeRunnerIterationCap = 50

	// DefaultLogLevel controls verbosity for streamkit logs.
	DefaultLogLevel = "info"
	// DefaultLogPath is where structured logs are written.
	DefaultLogPath = "streamkit.log"
	// DefaultLogMaxSizeMB caps the size of a single log file before rotation.
	DefaultLogMaxSizeMB = 100
	// DefaultLogMaxBackups limits retained rotated log files.
	DefaultLogMaxBackups = 10
	// DefaultLogMaxAgeDays controls how long rotated log files are kept on disk.
	DefaultLogMaxAgeDays = 7
	// DefaultLogCompress toggles gzip compression for rotated log files.
	DefaultLogCompress = true
)

// Config captures the runtime tunables loaded from the environment. Only
// Logging is read elsewhere in the module; the other fields are loaded and
// validated but no package consumes them.
type Config struct {
	WebSocketPingInterval time.Duration
	MaxPayloadBytes       int64

	DefaultHighWaterMark int

	TraceDir       string
	TraceRetention time.Duration

	VTimeFlushIterationCap  int
	VTimeRunnerIterationCap int

	Logging LoggingConfig
}

// LoggingConfig captures structured logging configuration options.
type LoggingConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads configuration from environment variables, applying sane
// defaults and returning descriptive errors for invalid overrides.
func Load() (*Config, error) {
	cfg := &Config{
		WebSocketPingInterval:   DefaultWebSocketPingInterval,
		MaxPayloadBytes:         DefaultMaxPayloadBytes,
		DefaultHighWaterMark:    DefaultHighWaterMark,
		TraceDir:                getString("STREAMKIT_TRACE_DIR", DefaultTraceDir),
		TraceRetention:          DefaultTraceRetention,
		VTimeFlushIterationCap:  DefaultVTimeFlushIterationCap,
		VTimeRunnerIterationCap: DefaultVTimeRunnerIterationCap,
		Logging: LoggingConfig{
			Level:      strings.TrimSpace(getString("STREAMKIT_LOG_LEVEL", DefaultLogLevel)),
			Path:       strings.TrimSpace(getString("STREAMKIT_LOG_PATH", DefaultLogPath)),
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
	}

	var problems []string

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_MAX_PAYLOAD_BYTES")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_MAX_PAYLOAD_BYTES must be a positive integer, got %q", raw))
		} else {
			cfg.MaxPayloadBytes = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_WS_PING_INTERVAL")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_WS_PING_INTERVAL must be a positive duration, got %q", raw))
		} else {
			cfg.WebSocketPingInterval = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_DEFAULT_HWM")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_DEFAULT_HWM must be a positive integer, got %q", raw))
		} else {
			cfg.DefaultHighWaterMark = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_TRACE_RETENTION")); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil || duration <= 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_TRACE_RETENTION must be a positive duration, got %q", raw))
		} else {
			cfg.TraceRetention = duration
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_VTIME_FLUSH_CAP")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_VTIME_FLUSH_CAP must be a positive integer, got %q", raw))
		} else {
			cfg.VTimeFlushIterationCap = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_VTIME_RUNNER_CAP")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_VTIME_RUNNER_CAP must be a positive integer, got %q", raw))
		} else {
			cfg.VTimeRunnerIterationCap = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_LOG_MAX_SIZE_MB")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_LOG_MAX_SIZE_MB must be a positive integer, got %q", raw))
		} else {
			cfg.Logging.MaxSizeMB = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_LOG_MAX_BACKUPS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_LOG_MAX_BACKUPS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxBackups = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_LOG_MAX_AGE_DAYS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("STREAMKIT_LOG_MAX_AGE_DAYS must be a non-negative integer, got %q", raw))
		} else {
			cfg.Logging.MaxAgeDays = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("STREAMKIT_LOG_COMPRESS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("STREAMKIT_LOG_COMPRESS must be a boolean value, got %q", raw))
		} else {
			cfg.Logging.Compress = value
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf(strings.Join(problems, "; "))
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
