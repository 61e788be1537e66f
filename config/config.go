package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is read from the environment, optionally via a .env file
type Config struct {
	Port            int           `env:"PORT"`
	OpponentDelay   time.Duration `env:"OPPONENT_DELAY"`
	ResultsDB       string        `env:"RESULTS_DB"` // empty disables the results log
	LogLevel        string        `env:"LOG_LEVEL"`
	StaticDir       string        `env:"STATIC_DIR"`
	AllowedOrigins  string        `env:"ALLOWED_ORIGINS"` // comma separated
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	PlayerName      string        `env:"PLAYER_NAME"` // terminal games only
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT"`  // how long a game outlives its player
}

// Default returns the config used when nothing is set
func Default() Config {
	return Config{
		Port:            8000,
		OpponentDelay:   1500 * time.Millisecond,
		ResultsDB:       "crazyeights.db",
		LogLevel:        "info",
		StaticDir:       "./build",
		AllowedOrigins:  "*",
		ShutdownTimeout: 10 * time.Second,
		PlayerName:      "You",
		IdleTimeout:     5 * time.Minute,
	}
}

// Load reads the given env files (.env if none are named) and then the
// environment. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading env file: %w", err)
	}

	cfg := Default()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}

	if v, ok := os.LookupEnv("RESULTS_DB"); ok && strings.TrimSpace(v) == "" {
		cfg.ResultsDB = ""
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.OpponentDelay <= 0 {
		return fmt.Errorf("%w: opponent delay must be positive", ErrInvalidConfig)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("%w: idle timeout must be positive", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Origins splits AllowedOrigins
func (c Config) Origins() []string {
	origins := []string{}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// NewLogger builds the logger every command shares
func NewLogger(c Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
