package cliparse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Scan sources
const (
	SourceStdin = "stdin"
	SourceNone  = "none"
)

type Config struct {
	Port            int
	APIURL          string
	DatabaseURL     string
	DatabaseType    string
	TokenFile       string
	Email           string
	Password        string
	ValidateTimeout time.Duration
	Source          string
	DemoPayload     string
	ScanRate        float64
	LogLevel        slog.Level
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, logLevel string

	fs := pflag.NewFlagSet("scanstation", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", 0, "Server port")
	fs.StringVarP(&cfg.APIURL, "api-url", "a", "", "Events backend URL")

	// Journal storage
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Journal database URL or sqlite file")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "", "Database type (sqlite or postgres)")

	// Session (prefer env for the password)
	fs.StringVar(&cfg.TokenFile, "token-file", "", "Where the session token is kept")
	fs.StringVar(&cfg.Email, "email", "", "Operator email for login at startup")
	fs.StringVar(&cfg.Password, "password", "", "Operator password (prefer env)")

	// Scanning
	fs.DurationVar(&cfg.ValidateTimeout, "validate-timeout", 0, "Timeout for one ticket validation")
	fs.StringVarP(&cfg.Source, "source", "s", "", "Scan source (stdin or none)")
	fs.StringVar(&cfg.DemoPayload, "demo-payload", "", "Payload emitted by the demo source")
	fs.Float64Var(&cfg.ScanRate, "scan-rate", 0, "Max manual scan requests per second")

	fs.StringVar(&envFile, "env-file", ".env", "Environment file to load")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Values already in the environment win over the file
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3319 // default
		}
	}

	if cfg.APIURL == "" {
		cfg.APIURL = os.Getenv("API_URL")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = os.Getenv("EXPO_PUBLIC_API_URL")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "scanstation.db"
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = os.Getenv("TOKEN_FILE")
		if cfg.TokenFile == "" {
			cfg.TokenFile = ".scanstation-session.json"
		}
	}

	if cfg.Email == "" {
		cfg.Email = os.Getenv("SCAN_EMAIL")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("SCAN_PASSWORD")
	}
	if cfg.Email != "" && cfg.Password == "" {
		return Config{}, errors.New("SCAN_PASSWORD required when an email is given")
	}

	if cfg.ValidateTimeout == 0 {
		if s := os.Getenv("VALIDATE_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid VALIDATE_TIMEOUT env variable")
			}
			cfg.ValidateTimeout = d
		} else {
			cfg.ValidateTimeout = 12 * time.Second
		}
	}
	if cfg.ValidateTimeout < 0 {
		return Config{}, errors.New("validate timeout must not be negative")
	}

	if cfg.Source == "" {
		cfg.Source = os.Getenv("SCAN_SOURCE")
		if cfg.Source == "" {
			cfg.Source = SourceStdin
		}
	}
	if cfg.Source != SourceStdin && cfg.Source != SourceNone {
		return Config{}, fmt.Errorf("invalid scan source %q (use stdin or none)", cfg.Source)
	}

	if cfg.DemoPayload == "" {
		cfg.DemoPayload = os.Getenv("DEMO_PAYLOAD")
	}

	if cfg.ScanRate == 0 {
		if s := os.Getenv("SCAN_RATE"); s != "" {
			r, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Config{}, errors.New("invalid SCAN_RATE env variable")
			}
			cfg.ScanRate = r
		} else {
			cfg.ScanRate = 5
		}
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", logLevel)
		}
	}

	return cfg, nil
}
