// pkg/merger/dql/engine.go
package dql

import (
	"go.uber.org/zap"

	"shardmerge/internal/metrics"
	"shardmerge/pkg/cache"
	"shardmerge/pkg/dialect"
	"shardmerge/pkg/merger"
	"shardmerge/pkg/queryresult"
	"shardmerge/pkg/schema"
	"shardmerge/pkg/statement"
)

// Strategy names the base merge chosen for a SELECT.
type Strategy string

const (
	StrategyIterator      Strategy = "iterator"
	StrategyOrderByStream Strategy = "order_by_stream"
	StrategyGroupByStream Strategy = "group_by_stream"
	StrategyGroupByMemory Strategy = "group_by_memory"
)

// Decorator names the pagination wrapper chosen for a SELECT.
type Decorator string

const (
	DecoratorNone            Decorator = "none"
	DecoratorLimit           Decorator = "limit"
	DecoratorRowNumber       Decorator = "row_number"
	DecoratorTopAndRowNumber Decorator = "top_and_row_number"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for merge decisions.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMemoryBudget bounds the memory held by in-memory grouping.
func WithMemoryBudget(budget *cache.MemoryBudget) Option {
	return func(e *Engine) { e.budget = budget }
}

// WithTableMetas supplies column case sensitivity for grouping and sorting.
func WithTableMetas(metas *schema.TableMetas) Option {
	return func(e *Engine) { e.metas = metas }
}

// WithMetrics records merge activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine merges the shard results of one SELECT.
type Engine struct {
	dbType  dialect.DatabaseType
	ctx     *statement.SelectContext
	results []queryresult.QueryResult

	logger  *zap.Logger
	budget  *cache.MemoryBudget
	metas   *schema.TableMetas
	metrics *metrics.Metrics
}

// NewEngine creates a DQL merge engine. The statement context is only read.
func NewEngine(dbType dialect.DatabaseType, ctx *statement.SelectContext, results []queryresult.QueryResult, opts ...Option) *Engine {
	e := &Engine{
		dbType:  dbType,
		ctx:     ctx,
		results: results,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan returns the strategy and decorator Merge will use.
func (e *Engine) Plan() (Strategy, Decorator) {
	if len(e.results) == 1 {
		return StrategyIterator, DecoratorNone
	}
	return e.strategy(), e.decorator()
}

func (e *Engine) strategy() Strategy {
	switch {
	case len(e.ctx.GroupBy) > 0:
		if e.ctx.GroupByCompatibleWithOrderBy() {
			return StrategyGroupByStream
		}
		return StrategyGroupByMemory
	case e.ctx.Projections.HasAggregation():
		return StrategyGroupByMemory
	case len(e.ctx.OrderBy) > 0:
		return StrategyOrderByStream
	default:
		return StrategyIterator
	}
}

func (e *Engine) decorator() Decorator {
	if !e.ctx.HasPagination() {
		return DecoratorNone
	}
	switch e.dbType.Pagination() {
	case dialect.PaginationLimit:
		return DecoratorLimit
	case dialect.PaginationRowNumber:
		return DecoratorRowNumber
	case dialect.PaginationTopAndRowNumber:
		return DecoratorTopAndRowNumber
	default:
		return DecoratorNone
	}
}

// Merge builds the merged result. It must be called once, before any shard
// result has been advanced.
func (e *Engine) Merge() (merger.MergedResult, error) {
	strategy, decorator := e.Plan()
	e.logger.Debug("merging select",
		zap.Stringer("database_type", e.dbType),
		zap.Int("shards", len(e.results)),
		zap.String("strategy", string(strategy)),
		zap.String("decorator", string(decorator)))

	result, err := e.build(strategy)
	if err == nil {
		result, err = e.decorate(result, decorator)
	}
	if err != nil {
		e.metrics.ObserveError("dql")
		return nil, err
	}
	e.metrics.ObserveMerge("dql", string(strategy), string(decorator))
	return result, nil
}

func (e *Engine) build(strategy Strategy) (merger.MergedResult, error) {
	switch strategy {
	case StrategyGroupByStream:
		return newGroupByStream(e.results, e.ctx, e.caseFolds(e.ctx.GroupBy), e.caseFolds(e.ctx.OrderBy))
	case StrategyGroupByMemory:
		m, err := newGroupByMemory(e.results, e.ctx, e.caseFolds(e.ctx.GroupBy), e.caseFolds(e.ctx.OrderBy), e.budget)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("grouped in memory", zap.Int("groups", m.Len()))
		e.metrics.ObserveGroups(m.Len())
		return m, nil
	case StrategyOrderByStream:
		return newOrderByStream(e.results, e.ctx.OrderBy, e.caseFolds(e.ctx.OrderBy))
	default:
		return newIteratorResult(e.results), nil
	}
}

func (e *Engine) decorate(result merger.MergedResult, decorator Decorator) (merger.MergedResult, error) {
	switch decorator {
	case DecoratorLimit:
		return newLimitDecorator(result, e.ctx.Pagination)
	case DecoratorRowNumber:
		return newRowNumberDecorator(result, e.ctx.Pagination)
	case DecoratorTopAndRowNumber:
		return newTopAndRowNumberDecorator(result, e.ctx.Pagination)
	default:
		return result, nil
	}
}

// caseFolds marks the items whose column is declared case-insensitive in
// the statement's tables. Labels come from the first shard.
func (e *Engine) caseFolds(items []statement.OrderByItem) []bool {
	fold := make([]bool, len(items))
	if e.metas == nil || len(e.results) == 0 {
		return fold
	}
	for i, item := range items {
		label, err := e.results[0].ColumnLabel(item.Index)
		if err != nil {
			continue
		}
		fold[i] = !e.metas.IsCaseSensitive(e.ctx.Tables.Names, label)
	}
	return fold
}
