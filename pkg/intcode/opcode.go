package intcode

import (
	"fmt"
	"strings"
)

// Mode is a parameter addressing mode.
type Mode int

const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func parseMode(v int64) (Mode, error) {
	switch v {
	case 0:
		return Position, nil
	case 1:
		return Immediate, nil
	case 2:
		return Relative, nil
	default:
		return Position, fmt.Errorf("%w: %d", ErrBadMode, v)
	}
}

// Op identifies an instruction.
type Op int

const (
	OpAdd        Op = 1
	OpMul        Op = 2
	OpStore      Op = 3
	OpShow       Op = 4
	OpJumpTrue   Op = 5
	OpJumpFalse  Op = 6
	OpLessThan   Op = 7
	OpEquals     Op = 8
	OpAdjustBase Op = 9
	OpExit       Op = 99
)

// String returns the disassembly mnemonic.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "ADD"
	case OpMul:
		return "MUL"
	case OpStore:
		return "STORE"
	case OpShow:
		return "SHOW"
	case OpJumpTrue:
		return "JMPT"
	case OpJumpFalse:
		return "JMPF"
	case OpLessThan:
		return "LT"
	case OpEquals:
		return "EQ"
	case OpAdjustBase:
		return "BASE"
	case OpExit:
		return "EXIT"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Param is a read operand together with its addressing mode.
type Param struct {
	Value int64
	Mode  Mode
}

// String renders the operand for disassembly: position operands bare,
// immediate ones in square brackets, relative ones in braces.
func (p Param) String() string {
	switch p.Mode {
	case Immediate:
		return fmt.Sprintf("[%d]", p.Value)
	case Relative:
		return fmt.Sprintf("{%d}", p.Value)
	default:
		return fmt.Sprintf("%d", p.Value)
	}
}

// Address is a write operand. Position addresses resolve to their value,
// relative ones to base+value. Immediate mode never writes.
type Address struct {
	Value int64
	Mode  Mode
}

func (a Address) String() string {
	if a.Mode == Relative {
		return fmt.Sprintf("{%d}", a.Value)
	}
	return fmt.Sprintf("%d", a.Value)
}

// Instruction is a decoded opcode with its operands.
type Instruction struct {
	Op     Op
	Params []Param  // read operands, in order
	Dest   *Address // write operand, when the op has one
	Size   int      // words consumed, including the opcode word
}

// String renders the instruction as one line of disassembly,
// e.g. "ADD 8, [10], 8".
func (in Instruction) String() string {
	if len(in.Params) == 0 && in.Dest == nil {
		return in.Op.String()
	}
	parts := make([]string, 0, 3)
	for _, p := range in.Params {
		parts = append(parts, p.String())
	}
	if in.Dest != nil {
		parts = append(parts, in.Dest.String())
	}
	return in.Op.String() + " " + strings.Join(parts, ", ")
}

// Decode decodes the instruction at the head of words. The slice must hold
// at least the instruction's operands; the machine always decodes through a
// zero-padded window, so ErrTruncated only surfaces on standalone use.
func Decode(words []int64) (Instruction, error) {
	if len(words) == 0 {
		return Instruction{}, fmt.Errorf("%w: empty stream", ErrTruncated)
	}
	raw := words[0]
	if raw < 0 {
		return Instruction{}, fmt.Errorf("%w: %d", ErrBadOpcode, raw)
	}
	op := Op(raw % 100)
	modes := raw / 100

	modeAt := func(i int) (Mode, error) {
		d := modes
		for k := 0; k < i; k++ {
			d /= 10
		}
		return parseMode(d % 10)
	}
	operand := func(i int) (int64, error) {
		if 1+i >= len(words) {
			return 0, fmt.Errorf("%w: %v wants operand %d", ErrTruncated, op, i+1)
		}
		return words[1+i], nil
	}
	readParam := func(i int) (Param, error) {
		v, err := operand(i)
		if err != nil {
			return Param{}, err
		}
		m, err := modeAt(i)
		if err != nil {
			return Param{}, err
		}
		return Param{Value: v, Mode: m}, nil
	}
	writeAddr := func(i int) (*Address, error) {
		v, err := operand(i)
		if err != nil {
			return nil, err
		}
		m, err := modeAt(i)
		if err != nil {
			return nil, err
		}
		if m == Immediate {
			return nil, fmt.Errorf("%w: operand %d of %v", ErrBadWrite, i+1, op)
		}
		return &Address{Value: v, Mode: m}, nil
	}

	switch op {
	case OpAdd, OpMul, OpLessThan, OpEquals:
		p1, err := readParam(0)
		if err != nil {
			return Instruction{}, err
		}
		p2, err := readParam(1)
		if err != nil {
			return Instruction{}, err
		}
		dst, err := writeAddr(2)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Params: []Param{p1, p2}, Dest: dst, Size: 4}, nil

	case OpStore:
		dst, err := writeAddr(0)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Dest: dst, Size: 2}, nil

	case OpShow, OpAdjustBase:
		p, err := readParam(0)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Params: []Param{p}, Size: 2}, nil

	case OpJumpTrue, OpJumpFalse:
		p1, err := readParam(0)
		if err != nil {
			return Instruction{}, err
		}
		p2, err := readParam(1)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Params: []Param{p1, p2}, Size: 3}, nil

	case OpExit:
		return Instruction{Op: OpExit, Size: 1}, nil

	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrBadOpcode, raw%100)
	}
}
