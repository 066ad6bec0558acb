package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "courieraudit/internal/errors"
	"courieraudit/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Server         ServerConfig         `yaml:"server" envconfig:"SERVER"`
	Logging        LoggingConfig        `yaml:"logging" envconfig:"LOGGING"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation" envconfig:"RECONCILIATION"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ReconciliationConfig is the configuration surface consumed by the core
// pipeline: the field alias table, the classification tolerance, and the
// aggregation dimensions requested per run.
type ReconciliationConfig struct {
	// Tolerance is the absolute currency threshold below which a charge
	// difference counts as Correct. Negative values are a configuration
	// error, never silently clamped.
	Tolerance float64 `yaml:"tolerance" envconfig:"TOLERANCE"`

	// Dimensions are the aggregation dimensions computed per run.
	Dimensions []string `yaml:"dimensions" envconfig:"DIMENSIONS"`

	// Aliases maps canonical field names to accepted raw header spellings.
	// Entries here extend (and may shadow) the built-in alias table.
	Aliases map[string][]string `yaml:"aliases"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile behaves like Load with an explicit config file path.
// A missing file is not an error; defaults and environment still apply.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
			}
		} else if !os.IsNotExist(err) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
		}
	}

	if err := envconfig.Process("AUDIT", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration: default alias table,
// tolerance of one currency unit, and the standard report dimensions.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  50 << 20,
			RateLimitRPS:    20,
			RateLimitBurst:  10,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Reconciliation: ReconciliationConfig{
			Tolerance:  DefaultTolerance,
			Dimensions: append([]string(nil), DefaultDimensions...),
			Aliases:    nil,
		},
	}
}

// Validate checks structural constraints and the domain invariants the
// pipeline depends on. Violations are configuration errors and abort run
// construction before any file is processed.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.Reconciliation.Tolerance < 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("tolerance must be non-negative, got %v", c.Reconciliation.Tolerance), nil)
	}

	for _, dim := range c.Reconciliation.Dimensions {
		if !isKnownDimension(dim) {
			return apperrors.NewConfigError(fmt.Sprintf("unknown aggregation dimension %q", dim), nil)
		}
	}

	aliases := c.Reconciliation.AliasTable()
	var missing []string
	for _, field := range domain.RequiredFields {
		if len(aliases[field]) == 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("alias table missing required canonical fields: %s", strings.Join(missing, ", ")), nil)
	}

	return nil
}

// AliasTable returns the effective canonical-field → spellings table:
// the built-in defaults extended by any configured overrides.
func (c ReconciliationConfig) AliasTable() map[string][]string {
	table := make(map[string][]string, len(DefaultAliases)+len(c.Aliases))
	for field, spellings := range DefaultAliases {
		table[field] = append([]string(nil), spellings...)
	}
	for field, spellings := range c.Aliases {
		table[field] = append(table[field], spellings...)
	}
	return table
}

func isKnownDimension(dim string) bool {
	for _, d := range domain.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}

func configFilePath() string {
	if path := os.Getenv("AUDIT_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
