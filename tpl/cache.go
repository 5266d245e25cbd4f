package tpl

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed node trees keyed by source hash.
var globalCache sync.Map

// entry holds the outcome of parsing one source.
type entry struct {
	once  sync.Once
	nodes []Node
	err   error
}

// ParseReader parses template source read from r.
// The content is cached after first parse.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return parseCached(ctx, string(data), opts...)
}

// parseCached parses src once per distinct content. Options only affect
// rendering, so they are not part of the cache key.
func parseCached(ctx context.Context, src string, opts ...Option) (*AST, error) {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	sourceHash := xxh3.HashString(src)
	sourceKey := strconv.FormatUint(sourceHash, 36)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, new(entry))

	cached, ok := value.(*entry)
	if !ok {
		return nil, ErrReadInput.Wrapf("invalid cache entry").
			With(slog.String("source_hash", sourceKey))
	}

	ast.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	cached.once.Do(func() {
		parsed, err := parse(ctx, src, opts...)
		if err != nil {
			cached.err = err

			return
		}

		cached.nodes = parsed.Nodes
	})

	if cached.err != nil {
		return nil, cached.err
	}

	ast.Nodes = cached.nodes

	return ast, nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
