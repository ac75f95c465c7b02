// Package optimizer holds the pattern rewrites, the loop classifier and the
// lowering scan that turns a sanitized instruction stream into the decision
// stream consumed by the backends.
package optimizer

import "github.com/sarchlab/tapeopt/program"

// DefaultMaxTerms is the largest number of distinct offsets a multiply/copy
// loop may touch before it is left generic.
const DefaultMaxTerms = 100

// Options toggles the individual rewrites.
type Options struct {
	DeadPairs bool
	RunLength bool
	Clear     bool
	Scan      bool
	MulCopy   bool

	MaxTerms int
	MaxDepth int
}

// DefaultOptions enables every rewrite.
func DefaultOptions() Options {
	return Options{
		DeadPairs: true,
		RunLength: true,
		Clear:     true,
		Scan:      true,
		MulCopy:   true,
		MaxTerms:  DefaultMaxTerms,
		MaxDepth:  program.DefaultMaxDepth,
	}
}

// NoOptions disables every rewrite. Lowering with it yields one instruction
// per source symbol.
func NoOptions() Options {
	return Options{
		MaxTerms: DefaultMaxTerms,
		MaxDepth: program.DefaultMaxDepth,
	}
}

// Folds reports whether any loop rewrite is enabled.
func (o Options) Folds() bool {
	return o.Clear || o.Scan || o.MulCopy
}
