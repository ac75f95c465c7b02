// Package verify provides debugging tools for tape programs and for the
// optimizer that rewrites them.
//
// This package implements two complementary verification stages:
//
// 1. Static Lint (lint.go): fast structural checks on the sanitized stream
//   - STRUCT checks: unmatched brackets, nesting deeper than the matcher allows
//   - BOUND checks: pointer moves that run off the left end before any loop
//   - DEAD checks: inverse pairs that cancel, loops that can never run
//
// 2. Reference Simulator (funcsim.go): a naive one-symbol-at-a-time
// interpreter with no folding and no run-length collapsing. Running it next
// to the optimizing core.Machine on the same input isolates optimizer bugs
// from program bugs (equiv.go).
//
// # Pointer Model
//
// Both interpreters clamp the data pointer to the tape. A loop that scans
// for a zero cell that does not exist spins forever in the reference
// simulator, while the folded scan stops at the boundary. The step limit
// turns such runs into inconclusive results rather than mismatches.
//
// # Usage Example
//
//	code := program.Sanitize(src)
//
//	// Stage 1: Lint checks
//	for _, issue := range verify.RunLint(code, program.DefaultMaxDepth) {
//	    log.Printf("[%s] pos=%d: %s", issue.Type, issue.Pos, issue.Message)
//	}
//
//	// Stage 2: Reference simulation
//	rs := verify.NewReferenceSimulator(code, 30000, program.EOFZero)
//	if err := rs.Run(bytes.NewReader(input), 1_000_000); err != nil {
//	    panic(err)
//	}
//	fmt.Printf("%s", rs.Output())
//
//	// Stage 3: Compare with the optimizing interpreter
//	res := verify.CheckEquivalence(code, input, config.Default())
//	fmt.Println(res.Status)
package verify

import "fmt"

// IssueType classifies lint findings.
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Bracket structure error
	IssueBound  IssueType = "BOUND"  // Pointer leaves the tape
	IssueDead   IssueType = "DEAD"   // Code with no effect
)

// Issue is one lint finding.
type Issue struct {
	Type    IssueType              // STRUCT, BOUND or DEAD
	Pos     int                    // Offset in the sanitized stream, -1 if not applicable
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func (i Issue) String() string {
	if i.Pos < 0 {
		return fmt.Sprintf("[%s] %s", i.Type, i.Message)
	}

	return fmt.Sprintf("[%s] pos=%d: %s", i.Type, i.Pos, i.Message)
}

// HasErrors reports whether any issue prevents the program from running.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Type == IssueStruct {
			return true
		}
	}

	return false
}
