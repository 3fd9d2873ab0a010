package hamt

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/aglyzov/go-hamt/bits"
	"github.com/aglyzov/go-hamt/heap"
)

// ErrInvalidBits is returned for a branching width outside [bits.MinBits..bits.MaxBits].
var ErrInvalidBits = errors.New("hamt: invalid branching width")

type config struct {
	bits bits.Bits
	heap heap.Heap
	log  *zap.SugaredLogger
}

// Option configures a Factory (and a Trie built on top of it).
type Option func(*config)

// WithBits sets the number of hash bits consumed per level.
func WithBits(b bits.Bits) Option {
	return func(c *config) {
		c.bits = b
	}
}

// WithHeap sets the allocator policy nodes are accounted against.
func WithHeap(h heap.Heap) Option {
	return func(c *config) {
		c.heap = h
	}
}

// WithLogger sets a logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *config) {
		c.log = log
	}
}

func newConfig(opts []Option) (config, error) {
	cfg := config{
		bits: bits.DefaultBits,
		heap: heap.Unbounded(),
		log:  zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.bits.Valid() {
		return cfg, errors.Wrapf(ErrInvalidBits, "got %d", cfg.bits)
	}

	if cfg.heap == nil {
		cfg.heap = heap.Unbounded()
	}

	if cfg.log == nil {
		cfg.log = zap.NewNop().Sugar()
	}

	return cfg, nil
}
