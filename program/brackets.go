package program

import (
	"errors"
	"fmt"
)

// DefaultMaxDepth is the number of brackets that may be open at once.
const DefaultMaxDepth = 100

var (
	// ErrUnmatchedBracket reports a '[' without ']' or a ']' without '['.
	ErrUnmatchedBracket = errors.New("unmatched bracket")

	// ErrStackOverflow reports bracket nesting deeper than the allowed depth.
	ErrStackOverflow = errors.New("bracket nesting too deep")
)

// BracketError locates a bracket failure in the instruction stream.
type BracketError struct {
	Err    error
	Pos    int
	Symbol byte
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("%v: '%c' at position %d", e.Err, e.Symbol, e.Pos)
}

func (e *BracketError) Unwrap() error {
	return e.Err
}

// Stack is a stack of ints with an optional capacity limit.
type Stack struct {
	items []int
	limit int
}

// NewStack creates a stack. A limit of zero or less means unbounded.
func NewStack(limit int) *Stack {
	return &Stack{limit: limit}
}

// Push adds x on top of the stack. It returns false if the stack is full.
func (s *Stack) Push(x int) bool {
	if s.limit > 0 && len(s.items) == s.limit {
		return false
	}

	s.items = append(s.items, x)

	return true
}

// Pop removes the top of the stack.
func (s *Stack) Pop() (int, bool) {
	if len(s.items) == 0 {
		return 0, false
	}

	x := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]

	return x, true
}

// Peek returns the top of the stack without removing it.
func (s *Stack) Peek() (int, bool) {
	if len(s.items) == 0 {
		return 0, false
	}

	return s.items[len(s.items)-1], true
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// BracketTable maps every bracket to its partner.
type BracketTable struct {
	match []int
	pairs int
}

// Match returns the position of the bracket paired with pos, or -1 if pos is
// not a bracket.
func (t *BracketTable) Match(pos int) int {
	if pos < 0 || pos >= len(t.match) {
		return -1
	}

	return t.match[pos]
}

// Pairs returns the number of bracket pairs.
func (t *BracketTable) Pairs() int {
	return t.pairs
}

// Match pairs all brackets of a complete program in one left-to-right pass.
// At most maxDepth brackets may be open at once; maxDepth <= 0 lifts the
// limit.
func Match(code []byte, maxDepth int) (*BracketTable, error) {
	t := &BracketTable{match: make([]int, len(code))}
	stack := NewStack(maxDepth)

	for i, c := range code {
		t.match[i] = -1

		switch c {
		case OpOpen:
			if !stack.Push(i) {
				return nil, &BracketError{Err: ErrStackOverflow, Pos: i, Symbol: c}
			}
		case OpClose:
			open, ok := stack.Pop()
			if !ok {
				return nil, &BracketError{Err: ErrUnmatchedBracket, Pos: i, Symbol: c}
			}

			t.match[open] = i
			t.match[i] = open
			t.pairs++
		}
	}

	if open, ok := stack.Peek(); ok {
		return nil, &BracketError{Err: ErrUnmatchedBracket, Pos: open, Symbol: OpOpen}
	}

	return t, nil
}

// FindForward looks for the ']' closing the '[' at open. The program may be
// a prefix that is still being typed: ok is false when the closing bracket
// has not been seen yet.
func FindForward(code []byte, open int) (end int, ok bool) {
	if open < 0 || open >= len(code) || code[open] != OpOpen {
		return -1, false
	}

	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case OpOpen:
			depth++
		case OpClose:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return -1, false
}

// FindBackward looks for the '[' opening the ']' at close, scanning right to
// left.
func FindBackward(code []byte, close int) (open int, ok bool) {
	if close < 0 || close >= len(code) || code[close] != OpClose {
		return -1, false
	}

	depth := 0
	for i := close; i >= 0; i-- {
		switch code[i] {
		case OpClose:
			depth++
		case OpOpen:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return -1, false
}
