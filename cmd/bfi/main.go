// Command bfi interprets a tape program, taking the optimizer's fast paths.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapeopt/api"
	"github.com/sarchlab/tapeopt/internal/cli"
	"github.com/sarchlab/tapeopt/core"
	"github.com/sarchlab/tapeopt/program"
)

func main() {
	var debug bool
	var window int

	flag.BoolVar(&debug, "d", false, "Trace every instruction on stderr")
	flag.BoolVar(&debug, "debug", false, "Same as -d")
	flag.IntVar(&window, "w", core.DefaultWindow, "Cells shown on each side of the pointer in the trace (1-64)")
	flag.IntVar(&window, "debug-window", core.DefaultWindow, "Same as -w")

	configPath := flag.String("config", "", "YAML configuration file")
	eof := flag.String("eof", "", "Cell value on end of input: zero, unchanged or max")
	dump := flag.Bool("dump", false, "Print the tape on stderr when the program ends")
	stats := flag.Bool("stats", false, "Print optimizer and run counters on stderr")
	logPath := flag.String("log", "", "Write a JSON log to this file")
	verbose := flag.Bool("v", false, "Log debug records on stderr")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		cli.Usage("expected exactly one program file")
	}

	if err := cli.SetupLogging(*logPath, *verbose); err != nil {
		cli.Fatal(err)
	}

	cfg, err := cli.LoadConfig(*configPath)
	if err != nil {
		cli.Fatal(err)
	}

	if *eof != "" {
		cfg.EOF = *eof
	}

	if cli.IsSet("w") || cli.IsSet("debug-window") {
		cfg.DebugWindow = window
	}

	stdout := cli.Stdout()

	b := api.NewDriverBuilder().
		WithConfig(cfg).
		WithInput(os.Stdin).
		WithOutput(stdout)

	if debug {
		b = b.WithTrace(os.Stderr)
	}

	driver, err := b.Build()
	if err != nil {
		cli.Fatal(err)
	}

	src, err := program.LoadFile(flag.Arg(0))
	if err != nil {
		cli.Fatal(err)
	}

	m, err := driver.Interpret(src)
	stdout.Flush()

	if m != nil && *dump {
		core.PrintState(os.Stderr, m.Tape())
	}

	if m != nil && *stats {
		if res, lerr := driver.Lower(src); lerr == nil {
			fmt.Fprintln(os.Stderr, res.Stats.Table())
		}

		fmt.Fprintln(os.Stderr, m.Counters().Table())
	}

	if err != nil {
		cli.Fatal(err)
	}

	atexit.Exit(0)
}
