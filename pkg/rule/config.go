// pkg/rule/config.go
package rule

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the YAML form of the sharding and encrypt rules.
type Config struct {
	SchemaName string                 `yaml:"schemaName"`
	Tables     map[string]TableConfig `yaml:"tables"`
	Encrypt    EncryptConfig          `yaml:"encrypt"`
}

// TableConfig lists the physical data nodes of one logical table as
// "<dataSource>.<actualTable>" strings.
type TableConfig struct {
	ActualDataNodes []string `yaml:"actualDataNodes"`
}

// EncryptConfig maps logical table names to their encrypted columns.
type EncryptConfig struct {
	Tables map[string]EncryptTableConfig `yaml:"tables"`
}

// EncryptTableConfig maps logical column names to their physical columns.
type EncryptTableConfig struct {
	Columns map[string]EncryptColumnConfig `yaml:"columns"`
}

// EncryptColumnConfig names the physical columns behind one logical column.
type EncryptColumnConfig struct {
	CipherColumn        string `yaml:"cipherColumn"`
	AssistedQueryColumn string `yaml:"assistedQueryColumn"`
	PlainColumn         string `yaml:"plainColumn"`
}

// Parse decodes YAML rule configuration into an immutable ShardingRule.
func Parse(data []byte) (*ShardingRule, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return NewShardingRule(cfg)
}
