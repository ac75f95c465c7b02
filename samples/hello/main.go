package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/tapeopt/api"
)

//go:embed hello.b
var hello []byte

func main() {
	driver, err := api.NewDriverBuilder().
		WithOutput(os.Stdout).
		Build()
	if err != nil {
		panic(err)
	}

	m, err := driver.Interpret(hello)
	if err != nil {
		panic(err)
	}

	c := m.Counters()
	fmt.Printf("%d steps, %d loops folded\n", c.Steps, c.Folded())

	asm, stats, err := driver.Compile(hello)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%d bytes of x86-64 assembly, %d loops folded\n", len(asm), stats.Folded())

	atexit.Exit(0)
}
