package schema

import (
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-hdf5-schema/internal/alloc"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
)

// Option configures Open.
type Option func(*options)

type options struct {
	maxDims   int
	blockSize int
	logger    logrus.FieldLogger
	allocator *alloc.Allocator
}

func defaultOptions() *options {
	return &options{
		maxDims:   portable.MaxNumDims,
		blockSize: DefaultBlockSize,
		logger:    logrus.StandardLogger(),
	}
}

// WithMaxDims sets the highest rank of a dataset or attribute that is kept
// (0 to portable.MaxNumDims). Objects of higher rank are skipped.
func WithMaxDims(n int) Option {
	return func(o *options) {
		if n >= 0 && n <= portable.MaxNumDims {
			o.maxDims = n
		}
	}
}

// WithBlockSize sets the number of registry slots added each time the
// registry grows.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithLogger sets the logger skips and session events are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMemoryLimit caps the memory charged while building the tree.
// Exceeding it fails Open with an *AllocError.
func WithMemoryLimit(bytes uint64) Option {
	return func(o *options) {
		o.allocator = alloc.New(bytes)
	}
}

// WithAllocator charges construction to a caller-provided allocator, which
// can also be used for fault injection.
func WithAllocator(a *alloc.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.allocator = a
		}
	}
}
