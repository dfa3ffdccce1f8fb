package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the config file when --config is not given.
const EnvConfigFile = "BIBLIOTHEQUE_CONFIG"

const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	Service   ServiceConfig   `yaml:"service"   envconfig:"SERVICE"`
	HTTP      HTTPConfig      `yaml:"http"      envconfig:"HTTP"`
	Database  DatabaseConfig  `yaml:"database"  envconfig:"DATABASE"`
	Auth      AuthConfig      `yaml:"auth"      envconfig:"AUTH"`
	Loans     LoansConfig     `yaml:"loans"     envconfig:"LOANS"`
	Converter ConverterConfig `yaml:"converter" envconfig:"CONVERTER"`
	Worker    WorkerConfig    `yaml:"worker"    envconfig:"WORKER"`
	Metrics   MetricsConfig   `yaml:"metrics"   envconfig:"METRICS"`
	Tracing   TracingConfig   `yaml:"tracing"   envconfig:"TRACING"`
}

type ServiceConfig struct {
	Name string `yaml:"name" split_words:"true"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port"            split_words:"true"`
	ReadTimeout     time.Duration `yaml:"readTimeout"     split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" split_words:"true"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"    split_words:"true"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"          split_words:"true"`
	DSN             string        `yaml:"dsn"             split_words:"true"`
	MaxOpenConns    int           `yaml:"maxOpenConns"    split_words:"true"`
	MaxIdleConns    int           `yaml:"maxIdleConns"    split_words:"true"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" split_words:"true"`
	AutoMigrate     bool          `yaml:"autoMigrate"     split_words:"true"`
}

type AuthConfig struct {
	TokenSecret       string        `yaml:"tokenSecret"       split_words:"true"`
	TokenIssuer       string        `yaml:"tokenIssuer"       split_words:"true"`
	TokenTTL          time.Duration `yaml:"tokenTTL"          split_words:"true"`
	BcryptCost        int           `yaml:"bcryptCost"        split_words:"true"`
	LibrarianEmail    string        `yaml:"librarianEmail"    split_words:"true"`
	LibrarianPassword string        `yaml:"librarianPassword" split_words:"true"`
}

type LoansConfig struct {
	DefaultDurationDays    int           `yaml:"defaultDurationDays"    split_words:"true"`
	DefaultExtensionDays   int           `yaml:"defaultExtensionDays"   split_words:"true"`
	MaxDurationDays        int           `yaml:"maxDurationDays"        split_words:"true"`
	DueSoonWindow          time.Duration `yaml:"dueSoonWindow"          split_words:"true"`
	MaxConcurrentLoans     int           `yaml:"maxConcurrentLoans"     split_words:"true"`
	MaxRenewals            int           `yaml:"maxRenewals"            split_words:"true"`
	AllowLibrarianOverride bool          `yaml:"allowLibrarianOverride" split_words:"true"`
}

// ConverterConfig points at the PDF to markdown service. An empty URL
// disables PDF intake.
type ConverterConfig struct {
	URL      string        `yaml:"url"      split_words:"true"`
	Timeout  time.Duration `yaml:"timeout"  split_words:"true"`
	RetryMax int           `yaml:"retryMax" split_words:"true"`
}

type WorkerConfig struct {
	Embedded        bool          `yaml:"embedded"        split_words:"true"`
	PollInterval    time.Duration `yaml:"pollInterval"    split_words:"true"`
	SweepInterval   time.Duration `yaml:"sweepInterval"   split_words:"true"`
	OutboxBatchSize int           `yaml:"outboxBatchSize" split_words:"true"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Path    string `yaml:"path"    split_words:"true"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"      split_words:"true"`
	Exporter     string  `yaml:"exporter"     split_words:"true"`
	OTLPEndpoint string  `yaml:"otlpEndpoint" split_words:"true"`
	SampleRatio  float64 `yaml:"sampleRatio"  split_words:"true"`
}

// Default returns the configuration used when neither a file nor the
// environment override a value.
func Default() Config {
	return Config{
		Service: ServiceConfig{Name: "bibliotheque"},
		HTTP: HTTPConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    25 << 20,
		},
		Database: DatabaseConfig{
			Driver:          DatabaseMemory,
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Auth: AuthConfig{
			TokenIssuer: "bibliotheque",
			TokenTTL:    24 * time.Hour,
		},
		Loans: LoansConfig{
			DefaultDurationDays:    14,
			DefaultExtensionDays:   7,
			MaxDurationDays:        90,
			DueSoonWindow:          72 * time.Hour,
			MaxConcurrentLoans:     1,
			MaxRenewals:            0,
			AllowLibrarianOverride: true,
		},
		Converter: ConverterConfig{
			Timeout:  2 * time.Minute,
			RetryMax: 2,
		},
		Worker: WorkerConfig{
			Embedded:        true,
			PollInterval:    2 * time.Second,
			SweepInterval:   time.Hour,
			OutboxBatchSize: 100,
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		Tracing: TracingConfig{Exporter: "stdout", SampleRatio: 1},
	}
}

// Load layers the YAML file (when configFile or BIBLIOTHEQUE_CONFIG names
// one) and then the environment on top of Default.
func Load(configFile string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(configFile) == "" {
		configFile = os.Getenv(EnvConfigFile)
	}
	if configFile = strings.TrimSpace(configFile); configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("error processing environment: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Tracing.Exporter = strings.ToLower(strings.TrimSpace(cfg.Tracing.Exporter))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.HTTP.Port) == "" {
		problems = append(problems, errors.New("http.port is required"))
	}
	switch c.Database.Driver {
	case DatabaseMemory:
	case DatabasePostgres, DatabaseSQLite:
		if strings.TrimSpace(c.Database.DSN) == "" {
			problems = append(problems, fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver))
		}
	default:
		problems = append(problems, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}
	// The memory driver may run with an ephemeral secret generated at startup.
	secret := strings.TrimSpace(c.Auth.TokenSecret)
	if (secret != "" || c.Database.Driver != DatabaseMemory) && len(secret) < 16 {
		problems = append(problems, errors.New("auth.tokenSecret must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, errors.New("auth.tokenTTL must be positive"))
	}
	if (c.Auth.LibrarianEmail == "") != (c.Auth.LibrarianPassword == "") {
		problems = append(problems, errors.New("auth.librarianEmail and auth.librarianPassword go together"))
	}
	if c.Loans.DefaultDurationDays <= 0 || c.Loans.DefaultDurationDays > c.Loans.MaxDurationDays {
		problems = append(problems, errors.New("loans.defaultDurationDays must be within 1..maxDurationDays"))
	}
	if c.Loans.DefaultExtensionDays <= 0 {
		problems = append(problems, errors.New("loans.defaultExtensionDays must be positive"))
	}
	if c.Loans.MaxConcurrentLoans <= 0 {
		problems = append(problems, errors.New("loans.maxConcurrentLoans must be positive"))
	}
	if c.Loans.MaxRenewals < 0 {
		problems = append(problems, errors.New("loans.maxRenewals cannot be negative"))
	}
	if c.Worker.PollInterval <= 0 {
		problems = append(problems, errors.New("worker.pollInterval must be positive"))
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case "stdout":
		case "otlp":
			if strings.TrimSpace(c.Tracing.OTLPEndpoint) == "" {
				problems = append(problems, errors.New("tracing.otlpEndpoint is required for the otlp exporter"))
			}
		default:
			problems = append(problems, fmt.Errorf("unsupported tracing.exporter %q", c.Tracing.Exporter))
		}
	}
	return errors.Join(problems...)
}
