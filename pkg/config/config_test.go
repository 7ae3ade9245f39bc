// pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shardmerge/pkg/dialect"
)

const fullYAML = `
databaseType: Oracle
logging:
  level: debug
  development: true
merge:
  memoryLimitBytes: 1048576
  pressureThreshold: 0.5
  metrics: true
rules:
  schemaName: sharding_db
  tables:
    t_order:
      actualDataNodes: [ds_0.t_order_0, ds_1.t_order_1]
  encrypt:
    tables:
      t_user:
        columns:
          name: {cipherColumn: name_cipher, assistedQueryColumn: name_assisted}
props:
  sharding-key1: sharding-value1
  sql.show: "true"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	require.NoError(t, err)

	assert.Equal(t, dialect.Oracle, cfg.Dialect())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.True(t, cfg.Merge.Metrics)
	assert.Len(t, cfg.Props, 2)
	assert.True(t, cfg.PropBool("sql.show"))
	assert.False(t, cfg.PropBool("sharding-key1"))
	assert.False(t, cfg.PropBool("missing"))

	budget := cfg.MemoryBudget()
	require.NotNil(t, budget)
	assert.Equal(t, int64(1048576), budget.Limit())

	r, err := cfg.ShardingRule()
	require.NoError(t, err)
	assert.Equal(t, "sharding_db", r.SchemaName())
	logic, ok := r.FindLogicTable("t_order_1")
	require.True(t, ok)
	assert.Equal(t, "t_order", logic)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, dialect.MySQL, cfg.Dialect())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 0.8, cfg.Merge.PressureThreshold)
	assert.Nil(t, cfg.MemoryBudget())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "merge: [1"},
		{"database type", "databaseType: DB2"},
		{"log level", "logging: {level: verbose}"},
		{"negative limit", "merge: {memoryLimitBytes: -1}"},
		{"threshold", "merge: {pressureThreshold: 1.5}"},
		{"rules", "rules: {tables: {t_order: {actualDataNodes: [bad]}}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Oracle", cfg.DatabaseType)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
