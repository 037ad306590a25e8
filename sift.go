// Package sift evaluates MongoDB-style filter expressions against
// tree-shaped documents. Queries compile once into an immutable operator
// tree; the compiled form can be shared across goroutines and applied to a
// stream of documents.
//
// Queries and documents are plain Go data (maps, slices, scalars) or bson
// forms from the official MongoDB driver (bson.M, bson.D, bson.A,
// primitive.Regex).
package sift

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/georgefloros/sift-go/internal/jshost"
	"github.com/georgefloros/sift-go/internal/query"
	"github.com/georgefloros/sift-go/internal/value"
)

// Compiled is an immutable, reusable filter produced by Compile. It is safe
// for concurrent use; $where evaluations are serialized internally.
type Compiled struct {
	root   *query.Root
	where  query.WhereEvaluator
	cfg    config
	source string
}

// Compile validates a raw query document and builds its operator tree. All
// parameter validation, regex compilation, and subquery compilation happen
// here; afterwards, apart from rejecting a document that cannot be converted
// into the value model, the only error evaluation can produce is a $where
// script failure.
func Compile(rawQuery any, opts ...Option) (*Compiled, error) {
	cfg := newConfig(opts)
	root, err := query.Compile(rawQuery, query.Options{AllowWhere: cfg.allowWhere})
	if cfg.metrics != nil {
		cfg.metrics.RecordCompile(err)
	}
	if err != nil {
		cfg.logger.Debug("query compilation failed", slog.String("error", err.Error()))
		return nil, err
	}
	c := &Compiled{
		root:   root,
		cfg:    cfg,
		source: fmt.Sprintf("%v", rawQuery),
	}
	c.where = &whereBridge{c: c, host: jshost.New(cfg.logger)}
	cfg.logger.Debug("query compiled", slog.Int("conditions", len(root.Children())))
	return c, nil
}

// Match reports whether doc satisfies the compiled query.
func (c *Compiled) Match(doc any) (bool, error) {
	dv, err := value.FromAny(doc)
	if err != nil {
		return false, fmt.Errorf("invalid document: %w", err)
	}
	start := time.Now()
	ok, err := c.root.Match(&query.Context{Root: dv, Where: c.where}, dv)
	if c.cfg.metrics != nil {
		c.cfg.metrics.RecordEvaluation(ok, err, time.Since(start))
	}
	return ok, err
}

// Filter returns the documents from docs that satisfy the query, in input
// order. It stops at the first evaluation error and returns it; failing
// documents are never dropped silently.
func (c *Compiled) Filter(docs []any) ([]any, error) {
	var out []any
	for _, doc := range docs {
		ok, err := c.Match(doc)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// String renders the source query this filter was compiled from.
func (c *Compiled) String() string { return c.source }

// Test reports whether doc satisfies q, which may be a raw query document or
// a *Compiled handle. Raw queries are compiled on the spot; reuse Compile
// for repeated evaluation.
func Test(q any, doc any, opts ...Option) (bool, error) {
	c, err := asCompiled(q, opts)
	if err != nil {
		return false, err
	}
	return c.Match(doc)
}

// Filter returns the documents from docs that satisfy q, which may be a raw
// query document or a *Compiled handle.
func Filter(q any, docs []any, opts ...Option) ([]any, error) {
	c, err := asCompiled(q, opts)
	if err != nil {
		return nil, err
	}
	return c.Filter(docs)
}

func asCompiled(q any, opts []Option) (*Compiled, error) {
	if c, ok := q.(*Compiled); ok {
		return c, nil
	}
	return Compile(q, opts...)
}

// IsInvalidQuery reports whether err is a compile-time query error.
func IsInvalidQuery(err error) bool { return query.IsInvalidQuery(err) }

// IsEvaluationError reports whether err is a $where evaluation error.
func IsEvaluationError(err error) bool { return query.IsEvaluation(err) }

// whereBridge adapts the script host to the evaluator, recording metrics
// and logging failures on the way through.
type whereBridge struct {
	c    *Compiled
	host *jshost.Host
}

func (b *whereBridge) Evaluate(script string, doc value.Value) (bool, error) {
	ok, err := b.host.Evaluate(script, doc)
	if b.c.cfg.metrics != nil {
		b.c.cfg.metrics.RecordWhere(err)
	}
	if err != nil {
		b.c.cfg.logger.Warn("$where script failed",
			slog.String("script", script),
			slog.String("error", err.Error()),
		)
	}
	return ok, err
}
