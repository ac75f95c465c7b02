// Command bfc compiles a tape program to i386 or x86-64 assembly or to LLVM
// IR.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapeopt/api"
	"github.com/sarchlab/tapeopt/internal/cli"
	"github.com/sarchlab/tapeopt/codegen"
	"github.com/sarchlab/tapeopt/instr"
	"github.com/sarchlab/tapeopt/program"
)

func main() {
	targets := make([]string, 0, len(codegen.Targets))
	for _, t := range codegen.Targets {
		targets = append(targets, string(t))
	}

	target := flag.String("target", "", "Output target: "+strings.Join(targets, ", "))
	outPath := flag.String("o", "", "Output file, stdout if empty")
	configPath := flag.String("config", "", "YAML configuration file")
	stats := flag.Bool("stats", false, "Print optimizer counters on stderr")
	dumpIR := flag.Bool("dump-ir", false, "Print the lowered instruction stream on stderr")
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

	b := api.NewDriverBuilder().WithConfig(cfg)

	if *target != "" {
		t, err := codegen.ParseTarget(*target)
		if err != nil {
			cli.Usage(err.Error())
		}

		b = b.WithTarget(t)
	}

	driver, err := b.Build()
	if err != nil {
		cli.Fatal(err)
	}

	src, err := program.LoadFile(flag.Arg(0))
	if err != nil {
		cli.Fatal(err)
	}

	if *dumpIR {
		res, err := driver.Lower(src)
		if err != nil {
			cli.Fatal(err)
		}

		fmt.Fprint(os.Stderr, instr.Format(res.Insts))
	}

	out, st, err := driver.Compile(src)
	if err != nil {
		cli.Fatal(err)
	}

	if *stats {
		fmt.Fprintln(os.Stderr, st.Table())
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(out), 0o644); err != nil {
			cli.Fatal(err)
		}

		atexit.Exit(0)
	}

	stdout := cli.Stdout()
	stdout.WriteString(out)

	atexit.Exit(0)
}
