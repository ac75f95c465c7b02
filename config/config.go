// Package config holds the settings shared by the interpreter, the compiler
// and the verifier. Values come from defaults, an optional YAML file and
// TAPEOPT_* environment variables, in that order.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/tapeopt/codegen"
	"github.com/sarchlab/tapeopt/core"
	"github.com/sarchlab/tapeopt/optimizer"
	"github.com/sarchlab/tapeopt/program"
)

// Passes switches individual optimizer rewrites.
type Passes struct {
	DeadPairs bool `yaml:"dead_pairs"`
	RunLength bool `yaml:"run_length"`
	Clear     bool `yaml:"clear"`
	Scan      bool `yaml:"scan"`
	MulCopy   bool `yaml:"mulcopy"`
}

// Config is the full set of settings.
type Config struct {
	TapeSize    int    `yaml:"tape_size"`
	EOF         string `yaml:"eof"`
	MaxDepth    int    `yaml:"max_depth"`
	MaxTerms    int    `yaml:"max_terms"`
	DebugWindow int    `yaml:"debug_window"`
	Target      string `yaml:"target"`
	StepLimit   int64  `yaml:"step_limit"`
	Passes      Passes `yaml:"passes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TapeSize:    core.DefaultTapeSize,
		EOF:         program.EOFZero.String(),
		MaxDepth:    program.DefaultMaxDepth,
		MaxTerms:    optimizer.DefaultMaxTerms,
		DebugWindow: core.DefaultWindow,
		Target:      string(codegen.TargetX8664),
		Passes: Passes{
			DeadPairs: true,
			RunLength: true,
			Clear:     true,
			Scan:      true,
			MulCopy:   true,
		},
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("%w: %w", program.ErrRead, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}

	return c, nil
}

// ApplyEnv overrides settings from TAPEOPT_* environment variables.
func (c *Config) ApplyEnv() {
	if env.Has("TAPEOPT_TAPE_SIZE") {
		c.TapeSize = env.Int("TAPEOPT_TAPE_SIZE", c.TapeSize)
	}

	if env.Has("TAPEOPT_MAX_DEPTH") {
		c.MaxDepth = env.Int("TAPEOPT_MAX_DEPTH", c.MaxDepth)
	}

	if env.Has("TAPEOPT_MAX_TERMS") {
		c.MaxTerms = env.Int("TAPEOPT_MAX_TERMS", c.MaxTerms)
	}

	if env.Has("TAPEOPT_DEBUG_WINDOW") {
		c.DebugWindow = env.Int("TAPEOPT_DEBUG_WINDOW", c.DebugWindow)
	}

	if env.Has("TAPEOPT_STEP_LIMIT") {
		c.StepLimit = int64(env.Int("TAPEOPT_STEP_LIMIT", int(c.StepLimit)))
	}

	c.EOF = env.Str("TAPEOPT_EOF", c.EOF)
	c.Target = env.Str("TAPEOPT_TARGET", c.Target)

	if env.Bool("TAPEOPT_NO_OPT") {
		c.Passes = Passes{}
	}
}

// Validate checks every setting and clamps the debug window to [1, 64].
func (c *Config) Validate() error {
	if c.TapeSize < 1 || c.TapeSize > core.MaxTapeSize {
		return fmt.Errorf("%w: tape_size %d", core.ErrAllocation, c.TapeSize)
	}

	if c.MaxTerms < 0 {
		return fmt.Errorf("max_terms must not be negative, got %d", c.MaxTerms)
	}

	if c.StepLimit < 0 {
		return fmt.Errorf("step_limit must not be negative, got %d", c.StepLimit)
	}

	if _, err := program.ParseEOFPolicy(c.EOF); err != nil {
		return err
	}

	if _, err := codegen.ParseTarget(c.Target); err != nil {
		return err
	}

	c.DebugWindow = core.ClampWindow(c.DebugWindow)

	return nil
}

// Options converts the pass switches into optimizer options.
func (c Config) Options() optimizer.Options {
	return optimizer.Options{
		DeadPairs: c.Passes.DeadPairs,
		RunLength: c.Passes.RunLength,
		Clear:     c.Passes.Clear,
		Scan:      c.Passes.Scan,
		MulCopy:   c.Passes.MulCopy,
		MaxTerms:  c.MaxTerms,
		MaxDepth:  c.MaxDepth,
	}
}

// EOFPolicy parses the eof setting.
func (c Config) EOFPolicy() (program.EOFPolicy, error) {
	return program.ParseEOFPolicy(c.EOF)
}

// CodegenTarget parses the target setting.
func (c Config) CodegenTarget() (codegen.Target, error) {
	return codegen.ParseTarget(c.Target)
}
