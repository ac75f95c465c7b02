// Command bfverify lints a tape program and checks that the optimizing
// interpreter agrees with the reference simulator on it, and optionally on
// random programs.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapeopt/internal/cli"
	"github.com/sarchlab/tapeopt/util/progen"
	"github.com/sarchlab/tapeopt/verify"
)

func main() {
	in := flag.String("in", "", "Program file to verify")
	inputPath := flag.String("input", "", "File fed to the program's ',' reads")
	steps := flag.Int64("steps", verify.DefaultStepLimit, "Step limit of each run")
	random := flag.Int("random", 0, "Also check this many random programs")
	seed := flag.Int64("seed", 1, "Seed of the first random program")
	out := flag.String("out", "", "Also save the report to this file")
	configPath := flag.String("config", "", "YAML configuration file")
	logPath := flag.String("log", "", "Write a JSON log to this file")
	verbose := flag.Bool("v", false, "Log debug records on stderr")

	flag.Parse()

	if *in == "" {
		cli.Usage("-in is required")
	}

	if err := cli.SetupLogging(*logPath, *verbose); err != nil {
		cli.Fatal(err)
	}

	cfg, err := cli.LoadConfig(*configPath)
	if err != nil {
		cli.Fatal(err)
	}

	cfg.StepLimit = *steps

	if err := cfg.Validate(); err != nil {
		cli.Fatal(err)
	}

	src, err := os.ReadFile(*in)
	if err != nil {
		cli.Fatal(err)
	}

	var input []byte
	if *inputPath != "" {
		if input, err = os.ReadFile(*inputPath); err != nil {
			cli.Fatal(err)
		}
	}

	report := verify.GenerateReport(filepath.Base(*in), src, input, cfg)

	seeds := progen.MakeSeedGen(*seed)
	inputs := progen.MakeInputGen(*seed, 8)

	for i := 0; i < *random; i++ {
		s := seeds()
		code := progen.New(s, progen.DefaultOptions()).Program()
		report.AddCheck(fmt.Sprintf("random seed=%d", s), code, inputs())
	}

	stdout := cli.Stdout()
	report.WriteReport(stdout)

	if *out != "" {
		if err := report.SaveReportToFile(*out); err != nil {
			cli.Fatal(err)
		}
	}

	if !report.Passed() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
