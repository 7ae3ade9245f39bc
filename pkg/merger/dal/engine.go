// pkg/merger/dal/engine.go
package dal

import (
	"go.uber.org/zap"

	"shardmerge/internal/metrics"
	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/rule"
	"shardmerge/pkg/schema"
	"shardmerge/pkg/statement"
)

// defaultSchemaName is reported by SHOW DATABASES when the rule names none
const defaultSchemaName = "sharding_db"

// Option configures an Engine.
type Option func(*Engine)

// WithRule supplies the sharding and encrypt rule snapshot.
func WithRule(r *rule.ShardingRule) Option {
	return func(e *Engine) { e.rule = r }
}

// WithTableMetas supplies the known logical tables.
func WithTableMetas(metas *schema.TableMetas) Option {
	return func(e *Engine) { e.metas = metas }
}

// WithLogger sets the logger for merge decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records merge activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine merges the shard results of a schema introspection statement.
type Engine struct {
	ctx     *statement.DALContext
	results []queryresult.QueryResult

	rule    *rule.ShardingRule
	metas   *schema.TableMetas
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewEngine creates a DAL merge engine.
func NewEngine(ctx *statement.DALContext, results []queryresult.QueryResult, opts ...Option) *Engine {
	e := &Engine{
		ctx:     ctx,
		results: results,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge builds the merged result for the statement's DAL type.
func (e *Engine) Merge() (merger.MergedResult, error) {
	e.logger.Debug("merging dal",
		zap.Stringer("type", e.ctx.Type),
		zap.Int("shards", len(e.results)))

	result, err := e.build()
	if err != nil {
		e.metrics.ObserveError("dal")
		return nil, err
	}
	e.metrics.ObserveMerge("dal", e.ctx.Type.String(), "none")
	return result, nil
}

func (e *Engine) build() (merger.MergedResult, error) {
	switch e.ctx.Type {
	case statement.DALDescribe:
		return newDescribe(e.results, e.encryptTable()), nil
	case statement.DALShowDatabases:
		return e.showDatabases(), nil
	case statement.DALShowTables, statement.DALShowTableStatus:
		return newLogicTables(e.results, e.rule, e.metas, nil)
	case statement.DALShowCreateTable:
		return newLogicTables(e.results, e.rule, e.metas, replaceCreateTable)
	case statement.DALShowIndex:
		return newShowIndex(e.results, e.rule)
	default:
		return merger.NewTransparent(e.results), nil
	}
}

func (e *Engine) encryptTable() *rule.EncryptTable {
	if e.rule == nil {
		return nil
	}
	t, ok := e.rule.EncryptRule().FindEncryptTable(e.ctx.Tables.SingleTableName())
	if !ok {
		return nil
	}
	return t
}

// showDatabases reports the one logical schema in place of the physical ones.
func (e *Engine) showDatabases() merger.MergedResult {
	name := defaultSchemaName
	if e.rule != nil && e.rule.SchemaName() != "" {
		name = e.rule.SchemaName()
	}
	return merger.NewMemory([]string{"Database"}, [][]any{{name}}, e.results, nil)
}
