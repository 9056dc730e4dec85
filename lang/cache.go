package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed programs keyed by source and options hash.
var globalCache sync.Map

// state holds the result of parsing one source under one set of options.
type state struct {
	once sync.Once
	prog *Program
	err  error
}

// hashOptions encodes the options that affect parsing using gob and hashes
// them with xxh3.
func hashOptions(cfg config) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(cfg.strict)

	return xxh3.Hash(buf.Bytes())
}

// cacheKey combines the source hash with the options hash.
func cacheKey(source string, cfg config) (key string, sourceHash, optsHash uint64) {
	sourceHash = xxh3.HashString(source)
	optsHash = hashOptions(cfg)

	return strconv.FormatUint(sourceHash^optsHash, 36), sourceHash, optsHash
}

// ParseReader reads all of r and parses it into a [Program].
// Results are cached by content unless caching is disabled with [WithCache].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	cfg := makeConfig(opts...)

	// Wrap reader with async read-ahead so input is pre-fetched while it is
	// being consumed.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	if !cfg.cache {
		return parse(ctx, string(data), cfg)
	}

	return parseCached(ctx, string(data), cfg)
}

// parseCached parses source at most once per distinct source and options.
// Concurrent callers with the same key share one parse; errors are cached
// as well as programs.
func parseCached(
	ctx context.Context,
	source string,
	cfg config,
) (*Program, error) {
	key, sourceHash, optsHash := cacheKey(source, cfg)

	value, hit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return parse(ctx, source, cfg)
	}

	cfg.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.prog, entry.err = parse(ctx, source, cfg)
	})

	return entry.prog, entry.err
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
