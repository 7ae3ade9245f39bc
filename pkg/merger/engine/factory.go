// pkg/merger/engine/factory.go
package engine

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"shardmerge/internal/logging"
	"shardmerge/internal/metrics"
	"shardmerge/pkg/cache"
	"shardmerge/pkg/config"
	"shardmerge/pkg/dialect"
	"shardmerge/pkg/merger"
	"shardmerge/pkg/merger/dal"
	"shardmerge/pkg/merger/dql"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/rule"
	"shardmerge/pkg/schema"
	"shardmerge/pkg/statement"
)

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger passed to every engine.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics records merge activity of every engine.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Factory) { f.metrics = m }
}

// WithMemoryBudget bounds the memory held by in-memory merges.
func WithMemoryBudget(budget *cache.MemoryBudget) Option {
	return func(f *Factory) { f.budget = budget }
}

// WithTableMetas supplies logical table metadata.
func WithTableMetas(metas *schema.TableMetas) Option {
	return func(f *Factory) { f.metas = metas }
}

// WithRule supplies the sharding and encrypt rule snapshot.
func WithRule(r *rule.ShardingRule) Option {
	return func(f *Factory) { f.rule = r }
}

// WithSQLShow logs every statement merged through MergeSQL at info level.
func WithSQLShow(show bool) Option {
	return func(f *Factory) { f.sqlShow = show }
}

// Factory picks the merge engine for a routed statement. A Factory holds
// only read-only snapshots and is safe for concurrent use.
type Factory struct {
	dbType  dialect.DatabaseType
	rule    *rule.ShardingRule
	metas   *schema.TableMetas
	budget  *cache.MemoryBudget
	metrics *metrics.Metrics
	logger  *zap.Logger
	sqlShow bool
}

// NewFactory creates a factory for shards of dbType.
func NewFactory(dbType dialect.DatabaseType, opts ...Option) *Factory {
	f := &Factory{dbType: dbType, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FromConfig creates a factory from the merge configuration. Collectors are
// registered on reg when metrics are enabled. Later options override the
// configured ones.
func FromConfig(cfg *config.Config, reg prometheus.Registerer, opts ...Option) (*Factory, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	r, err := cfg.ShardingRule()
	if err != nil {
		return nil, fmt.Errorf("%w: rules: %v", config.ErrInvalidConfig, err)
	}

	base := []Option{WithLogger(logger), WithRule(r)}
	if budget := cfg.MemoryBudget(); budget != nil {
		budget.OnPressure(func(usage, limit int64) {
			logger.Warn("merge memory under pressure", zap.Int64("usage", usage), zap.Int64("limit", limit))
		})
		base = append(base, WithMemoryBudget(budget))
	}
	if cfg.PropBool("sql.show") {
		base = append(base, WithSQLShow(true))
	}
	if cfg.Merge.Metrics && reg != nil {
		base = append(base, WithMetrics(metrics.New(reg)))
	}
	return NewFactory(cfg.Dialect(), append(base, opts...)...), nil
}

// DatabaseType returns the dialect of the shards.
func (f *Factory) DatabaseType() dialect.DatabaseType {
	return f.dbType
}

// NewEngine returns the engine for ctx over the shard results: SELECT gets
// the DQL engine, DAL gets the DAL engine and everything else forwards the
// first shard result.
func (f *Factory) NewEngine(ctx statement.Context, results []queryresult.QueryResult) merger.Engine {
	kind := statement.KindOther
	if ctx != nil {
		kind = ctx.Kind()
	}
	f.logger.Debug("selecting merge engine",
		zap.Stringer("kind", kind),
		zap.Int("shards", len(results)))

	switch c := ctx.(type) {
	case *statement.SelectContext:
		return dql.NewEngine(f.dbType, c, results,
			dql.WithLogger(f.logger),
			dql.WithMemoryBudget(f.budget),
			dql.WithTableMetas(f.metas),
			dql.WithMetrics(f.metrics))
	case *statement.DALContext:
		return dal.NewEngine(c, results,
			dal.WithRule(f.rule),
			dal.WithTableMetas(f.metas),
			dal.WithLogger(f.logger),
			dal.WithMetrics(f.metrics))
	default:
		return &transparentEngine{results: results, metrics: f.metrics}
	}
}

// Merge selects the engine for ctx and merges the shard results.
func (f *Factory) Merge(ctx statement.Context, results []queryresult.QueryResult) (merger.MergedResult, error) {
	return f.NewEngine(ctx, results).Merge()
}

// MergeSQL classifies sql and merges the shard results. Only the tables of a
// SELECT are known from the text, so grouping, ordering and pagination need
// a planned context passed to Merge instead.
func (f *Factory) MergeSQL(sql string, results []queryresult.QueryResult) (merger.MergedResult, error) {
	ctx, err := statement.Parse(sql)
	if err != nil {
		return nil, err
	}
	if f.sqlShow {
		f.logger.Info("merge sql",
			zap.String("sql", sql),
			zap.Stringer("kind", ctx.Kind()),
			zap.Int("shards", len(results)))
	}
	return f.Merge(ctx, results)
}

// transparentEngine counts passthrough merges.
type transparentEngine struct {
	results []queryresult.QueryResult
	metrics *metrics.Metrics
}

func (e *transparentEngine) Merge() (merger.MergedResult, error) {
	e.metrics.ObserveMerge("transparent", "transparent", "none")
	return merger.NewTransparentEngine(e.results).Merge()
}
