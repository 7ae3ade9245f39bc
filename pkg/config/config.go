// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"shardmerge/pkg/cache"
	"shardmerge/pkg/dialect"
	"shardmerge/pkg/rule"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config is the configuration of the merge layer
type Config struct {
	DatabaseType string      `yaml:"databaseType"`
	Logging      Logging     `yaml:"logging"`
	Merge        Merge       `yaml:"merge"`
	Rules        rule.Config `yaml:"rules"`

	// Props carries free-form key/value settings pushed by the registry,
	// such as "sql.show".
	Props map[string]string `yaml:"props"`
}

// Logging configures the zap logger
type Logging struct {
	Level       string `yaml:"level"` // debug|info|warn|error
	Development bool   `yaml:"development"`
}

// Merge configures in-memory merges and instrumentation
type Merge struct {
	// MemoryLimitBytes bounds the rows buffered by in-memory merges.
	// If 0, in-memory merges are unbounded.
	MemoryLimitBytes  int64   `yaml:"memoryLimitBytes"`
	PressureThreshold float64 `yaml:"pressureThreshold"`
	Metrics           bool    `yaml:"metrics"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DatabaseType == "" {
		c.DatabaseType = dialect.MySQL.String()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Merge.PressureThreshold == 0 {
		c.Merge.PressureThreshold = cache.DefaultPressureThreshold
	}
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := dialect.Parse(c.DatabaseType); err != nil {
		return fmt.Errorf("%w: databaseType: %v", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if c.Merge.MemoryLimitBytes < 0 {
		return fmt.Errorf("%w: merge.memoryLimitBytes must not be negative", ErrInvalidConfig)
	}
	if c.Merge.PressureThreshold < 0 || c.Merge.PressureThreshold > 1 {
		return fmt.Errorf("%w: merge.pressureThreshold must be within [0, 1]", ErrInvalidConfig)
	}
	if _, err := rule.NewShardingRule(c.Rules); err != nil {
		return fmt.Errorf("%w: rules: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Dialect returns the configured database type.
func (c *Config) Dialect() dialect.DatabaseType {
	d, err := dialect.Parse(c.DatabaseType)
	if err != nil {
		return dialect.Unknown
	}
	return d
}

// ShardingRule builds the immutable rule snapshot from the configuration.
func (c *Config) ShardingRule() (*rule.ShardingRule, error) {
	return rule.NewShardingRule(c.Rules)
}

// MemoryBudget returns the budget for in-memory merges, or nil when unbounded.
func (c *Config) MemoryBudget() *cache.MemoryBudget {
	if c.Merge.MemoryLimitBytes == 0 {
		return nil
	}
	b := cache.NewMemoryBudget(c.Merge.MemoryLimitBytes)
	b.SetPressureThreshold(c.Merge.PressureThreshold)
	return b
}

// PropBool reads a boolean prop. Missing or malformed values are false.
func (c *Config) PropBool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(c.Props[key]))
	return err == nil && b
}
