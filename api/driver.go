// Package api defines the driver API of the optimizing pipeline.
package api

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/tapeopt/codegen"
	"github.com/sarchlab/tapeopt/config"
	"github.com/sarchlab/tapeopt/core"
	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

// Driver runs source programs through the pipeline: sanitize, optimize and
// hand the result to a backend.
type Driver interface {
	// Lower sanitizes src and returns the decision stream the static
	// backends consume.
	Lower(src []byte) (*optimizer.Result, error)

	// Interpret runs src to completion on a fresh machine. The machine is
	// returned even when the run fails so its counters can be inspected.
	Interpret(src []byte) (*core.Machine, error)

	// Compile emits a complete program for the configured target.
	Compile(src []byte) (string, optimizer.Stats, error)

	// Session creates an incremental session with the driver's settings.
	Session() (*core.Session, error)
}

type backendFactory func(
	target codegen.Target,
	tapeSize int,
	eof program.EOFPolicy,
) (codegen.Backend, error)

type driverImpl struct {
	cfg    config.Config
	eof    program.EOFPolicy
	target codegen.Target

	input  io.Reader
	output io.Writer
	tracer *core.Tracer

	newBackend backendFactory
}

func (d *driverImpl) Lower(src []byte) (*optimizer.Result, error) {
	return optimizer.Lower(program.Sanitize(src), d.cfg.Options())
}

func (d *driverImpl) machineBuilder() core.Builder {
	return core.NewBuilder().
		WithTapeSize(d.cfg.TapeSize).
		WithEOF(d.eof).
		WithOptions(d.cfg.Options()).
		WithInput(d.input).
		WithOutput(d.output).
		WithTracer(d.tracer).
		WithStepLimit(d.cfg.StepLimit)
}

func (d *driverImpl) Interpret(src []byte) (*core.Machine, error) {
	m, err := d.machineBuilder().Build(program.Sanitize(src))
	if err != nil {
		return nil, err
	}

	err = m.Run()

	c := m.Counters()
	slog.Debug("Interpreted",
		"steps", c.Steps,
		"folded", c.Folded(),
		"outputs", c.Outputs,
		"eofs", c.EOFs,
		"clamps", c.Clamps,
	)

	return m, err
}

func (d *driverImpl) Compile(src []byte) (string, optimizer.Stats, error) {
	res, err := d.Lower(src)
	if err != nil {
		return "", optimizer.Stats{}, err
	}

	b, err := d.newBackend(d.target, d.cfg.TapeSize, d.eof)
	if err != nil {
		return "", res.Stats, fmt.Errorf("backend %s: %w", d.target, err)
	}

	out := codegen.Emit(res.Insts, b)

	core.Trace("Compiled", "target", d.target, "insts", len(res.Insts), "bytes", len(out))

	return out, res.Stats, nil
}

func (d *driverImpl) Session() (*core.Session, error) {
	return d.machineBuilder().BuildSession()
}
