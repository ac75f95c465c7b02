package api

import (
	"io"

	"github.com/sarchlab/tapeopt/codegen"
	"github.com/sarchlab/tapeopt/config"
	"github.com/sarchlab/tapeopt/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	cfg       config.Config
	target    codegen.Target
	input     io.Reader
	output    io.Writer
	traceOut  io.Writer
	stepLimit int64
}

// NewDriverBuilder starts from the default configuration.
func NewDriverBuilder() DriverBuilder {
	return DriverBuilder{cfg: config.Default()}
}

// WithConfig sets the configuration.
func (b DriverBuilder) WithConfig(cfg config.Config) DriverBuilder {
	b.cfg = cfg
	return b
}

// WithTarget overrides the configured code generation target.
func (b DriverBuilder) WithTarget(t codegen.Target) DriverBuilder {
	b.target = t
	return b
}

// WithInput sets the stream interpreted programs read from.
func (b DriverBuilder) WithInput(r io.Reader) DriverBuilder {
	b.input = r
	return b
}

// WithOutput sets the stream interpreted programs write to.
func (b DriverBuilder) WithOutput(w io.Writer) DriverBuilder {
	b.output = w
	return b
}

// WithTrace enables the per-instruction debug trace with the configured
// window.
func (b DriverBuilder) WithTrace(w io.Writer) DriverBuilder {
	b.traceOut = w
	return b
}

// WithStepLimit overrides the configured step limit.
func (b DriverBuilder) WithStepLimit(n int64) DriverBuilder {
	b.stepLimit = n
	return b
}

// Build validates the configuration and creates a driver.
func (b DriverBuilder) Build() (Driver, error) {
	cfg := b.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.stepLimit > 0 {
		cfg.StepLimit = b.stepLimit
	}

	eof, err := cfg.EOFPolicy()
	if err != nil {
		return nil, err
	}

	target := b.target
	if target == "" {
		if target, err = cfg.CodegenTarget(); err != nil {
			return nil, err
		}
	}

	var tracer *core.Tracer
	if b.traceOut != nil {
		tracer = core.NewTracer(b.traceOut, cfg.DebugWindow)
	}

	d := &driverImpl{
		cfg:        cfg,
		eof:        eof,
		target:     target,
		input:      b.input,
		output:     b.output,
		tracer:     tracer,
		newBackend: codegen.New,
	}

	return d, nil
}
