package verify

import (
	"fmt"

	"github.com/sarchlab/tapeopt/program"
)

// RunLint performs static lint checks on a sanitized stream.
// It validates bracket structure (STRUCT), pointer bounds of the straight-line
// prefix (BOUND) and code that has no effect (DEAD). maxDepth <= 0 disables
// the nesting check and tapeSize <= 0 disables the right-bound check.
// Returns a list of issues found, or empty list if no issues.
func RunLint(code []byte, maxDepth, tapeSize int) []Issue {
	var issues []Issue

	issues = append(issues, lintBrackets(code, maxDepth)...)
	issues = append(issues, lintBounds(code, tapeSize)...)
	issues = append(issues, lintDeadPairs(code)...)
	issues = append(issues, lintDeadLoops(code)...)

	return issues
}

func lintBrackets(code []byte, maxDepth int) []Issue {
	var (
		issues   []Issue
		opens    []int
		overflow bool
	)

	for i, c := range code {
		switch c {
		case program.OpOpen:
			opens = append(opens, i)

			if maxDepth > 0 && len(opens) > maxDepth && !overflow {
				overflow = true
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Pos:     i,
					Message: fmt.Sprintf("Nesting deeper than %d", maxDepth),
					Details: map[string]interface{}{"depth": len(opens), "limit": maxDepth},
				})
			}
		case program.OpClose:
			if len(opens) == 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					Pos:     i,
					Message: "Unmatched ']'",
					Details: map[string]interface{}{"symbol": "]"},
				})

				continue
			}

			opens = opens[:len(opens)-1]
		}
	}

	for _, pos := range opens {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Pos:     pos,
			Message: "Unclosed '['",
			Details: map[string]interface{}{"symbol": "["},
		})
	}

	return issues
}

// lintBounds follows the pointer through the prefix that runs before the
// first loop, where its position is known statically.
func lintBounds(code []byte, tapeSize int) []Issue {
	var issues []Issue

	dp := 0
	left, right := false, false

	for i, c := range code {
		switch c {
		case program.OpOpen:
			return issues
		case program.OpLeft:
			dp--
			if dp < 0 && !left {
				left = true
				issues = append(issues, Issue{
					Type:    IssueBound,
					Pos:     i,
					Message: "Pointer moves left of cell 0 and is clamped",
					Details: map[string]interface{}{"dp": dp},
				})
			}

			dp = max(dp, 0)
		case program.OpRight:
			dp++
			if tapeSize > 0 && dp >= tapeSize && !right {
				right = true
				issues = append(issues, Issue{
					Type:    IssueBound,
					Pos:     i,
					Message: fmt.Sprintf("Pointer moves past cell %d and is clamped", tapeSize-1),
					Details: map[string]interface{}{"dp": dp, "tape_size": tapeSize},
				})
			}

			if tapeSize > 0 {
				dp = min(dp, tapeSize-1)
			}
		}
	}

	return issues
}

func lintDeadPairs(code []byte) []Issue {
	var issues []Issue

	for i := 0; i+1 < len(code); i++ {
		inv, ok := program.Inverse(code[i+1])
		if !ok || inv != code[i] {
			continue
		}

		issues = append(issues, Issue{
			Type:    IssueDead,
			Pos:     i,
			Message: fmt.Sprintf("%q cancels out", code[i:i+2]),
			Details: map[string]interface{}{"pair": string(code[i : i+2])},
		})
		i++
	}

	return issues
}

// lintDeadLoops finds loops entered on a cell that is known to be zero: at
// the start of the program, or right after another loop.
func lintDeadLoops(code []byte) []Issue {
	var issues []Issue

	for i, c := range code {
		if c != program.OpOpen {
			continue
		}

		var reason string

		switch {
		case i == 0:
			reason = "Loop at program start never runs"
		case code[i-1] == program.OpClose:
			reason = "Loop right after a loop never runs"
		default:
			continue
		}

		end, _ := program.FindForward(code, i)
		issues = append(issues, Issue{
			Type:    IssueDead,
			Pos:     i,
			Message: reason,
			Details: map[string]interface{}{"end": end},
		})
	}

	return issues
}
