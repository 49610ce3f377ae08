// Package cache wraps a dialect.Builder with a Redis-backed memoization
// layer for rendered SQL text, keyed by statement shape rather than by
// parameter values (SPEC_FULL.md §7). It is grounded on client.go's
// *redis.Client-backed Client: this package reuses that same dependency
// for a different backing-store role, a build-result cache instead of a
// query-execution target.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/dialect"
)

// Cache decorates a dialect.Builder, storing its rendered SQL text in
// Redis under a key derived from the statement's shape. Parameter values
// are never cached: they are recomputed on every call via a fast
// shape-preserving walk so a cache hit still returns the caller's own
// argument values bound to @N in the shared text.
type Cache struct {
	inner dialect.Builder
	rdb   *redis.Client
	ttl   time.Duration
	// prefix namespaces keys so multiple dialects can share one Redis
	// instance without colliding.
	prefix string
}

// New wraps inner with a Redis-backed cache. ttl of zero means entries
// never expire.
func New(inner dialect.Builder, rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{inner: inner, rdb: rdb, ttl: ttl, prefix: prefix}
}

// Build satisfies dialect.Builder. On a shape cache miss it delegates to
// the wrapped Builder and stores the resulting text; on a hit it skips
// the tree walk entirely for text and instead runs the cheaper
// paramsOnly pass to recover this call's own parameter values. Redis
// reachability never gates a build: a Get or Set failure is logged and
// Build falls back to (or simply returns) the wrapped Builder's result.
func (c *Cache) Build(ctx context.Context, statement ast.Node, mapper dialect.Mapper) (string, []any, error) {
	stmt, err := resolve(ctx, statement, mapper)
	if err != nil {
		return "", nil, err
	}

	key := c.key(stmt)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		params, perr := paramsOnly(stmt)
		if perr != nil {
			return "", nil, fmt.Errorf("cache: recovering parameters after hit: %w", perr)
		}
		return cached, params, nil
	case err == redis.Nil:
		// shape not seen before, fall through to a real build
	default:
		log.Printf("cache: redis unavailable, falling back to direct build: %v", err)
	}

	text, params, err := c.inner.Build(ctx, stmt, mapper)
	if err != nil {
		return "", nil, err
	}

	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		log.Printf("cache: failed to populate cache for %s: %v", key, err)
	}

	return text, params, nil
}

// resolve mirrors dialect.Dialect.Build's GenericStatement handling so the
// cache key is always computed against a concrete *ast.SelectStatement.
func resolve(ctx context.Context, statement ast.Node, mapper dialect.Mapper) (*ast.SelectStatement, error) {
	switch v := statement.(type) {
	case *ast.SelectStatement:
		return v, nil
	case *ast.GenericStatement:
		if mapper == nil {
			return nil, fmt.Errorf("cache: GenericStatement requires a Mapper")
		}
		stmt, err := mapper.Materialize(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("cache: materializing generic statement: %w", err)
		}
		return stmt, nil
	default:
		return nil, fmt.Errorf("%w: %T", dialect.ErrUnsupportedStatementKind, statement)
	}
}

// key hashes the statement's shape fingerprint down to a fixed-width,
// Redis-key-safe digest.
func (c *Cache) key(stmt *ast.SelectStatement) string {
	fp := fingerprint(stmt)
	sum := sha256.Sum256([]byte(fp))
	return c.prefix + ":" + hex.EncodeToString(sum[:])
}
