package program

// Instruction symbols of the tape language.
const (
	OpRight  byte = '>'
	OpLeft   byte = '<'
	OpInc    byte = '+'
	OpDec    byte = '-'
	OpOutput byte = '.'
	OpInput  byte = ','
	OpOpen   byte = '['
	OpClose  byte = ']'
)

// ISA is a struct that represents the instruction set of the tape machine.
type ISA struct {
	// name of the ISA.
	isaName string
	// map from instruction symbol to its mnemonic.
	symbolToName map[byte]string
	// lookup table used by the sanitizer.
	valid [256]bool
}

// NewISA creates an empty ISA.
func NewISA(name string) *ISA {
	return &ISA{
		isaName:      name,
		symbolToName: make(map[byte]string),
	}
}

// register adds a new instruction symbol to the ISA.
func (isa *ISA) register(symbol byte, name string) {
	isa.symbolToName[symbol] = name
	isa.valid[symbol] = true
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

// Contains reports whether b is an instruction symbol.
func (isa *ISA) Contains(b byte) bool {
	return isa.valid[b]
}

// Mnemonic returns the readable name of an instruction symbol, or "" if b is
// not part of the ISA.
func (isa *ISA) Mnemonic(b byte) string {
	return isa.symbolToName[b]
}

// Len returns the number of instruction symbols.
func (isa *ISA) Len() int {
	return len(isa.symbolToName)
}

// DefaultISA is the eight-symbol instruction set.
var DefaultISA = newDefaultISA()

func newDefaultISA() *ISA {
	isa := NewISA("Tape Machine ISA")
	isa.register(OpRight, "right")
	isa.register(OpLeft, "left")
	isa.register(OpInc, "inc")
	isa.register(OpDec, "dec")
	isa.register(OpOutput, "output")
	isa.register(OpInput, "input")
	isa.register(OpOpen, "loop-open")
	isa.register(OpClose, "loop-close")
	return isa
}

// IsInstruction reports whether b belongs to the default ISA.
func IsInstruction(b byte) bool {
	return DefaultISA.Contains(b)
}

// Inverse returns the symbol that cancels b, if any. Only pointer moves and
// cell increments have inverses.
func Inverse(b byte) (byte, bool) {
	switch b {
	case OpInc:
		return OpDec, true
	case OpDec:
		return OpInc, true
	case OpRight:
		return OpLeft, true
	case OpLeft:
		return OpRight, true
	}
	return 0, false
}
