// Package intcode implements the puzzle virtual machine shared by the
// solvers: a comma-separated program of 64-bit words with position,
// immediate and relative addressing, a FIFO input queue and an output
// stream. Memory grows on demand when a write lands past the loaded image.
package intcode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// State reports how the last Step left the machine.
type State int

const (
	Running State = iota // more instructions to execute
	Halted               // saw EXIT, or ran off the program
	Waiting              // input instruction with an empty queue
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Waiting:
		return "waiting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Interpreter executes an Intcode program.
type Interpreter struct {
	mem     []int64
	initial []int64
	ip      int64
	base    int64
	state   State
	inputs  []int64
	outputs []int64
}

// New builds an interpreter for program. The slice is copied.
func New(program []int64) *Interpreter {
	initial := make([]int64, len(program))
	copy(initial, program)
	mem := make([]int64, len(program))
	copy(mem, program)
	return &Interpreter{mem: mem, initial: initial}
}

// Parse reads a comma-separated program.
func Parse(src string) ([]int64, error) {
	fields := strings.Split(strings.TrimSpace(src), ",")
	program := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse program: %w", err)
		}
		program = append(program, v)
	}
	return program, nil
}

// NewFromSource parses src and builds an interpreter for it.
func NewFromSource(src string) (*Interpreter, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return New(program), nil
}

// State returns the state reported by the last Step.
func (it *Interpreter) State() State { return it.state }

// Base returns the relative base.
func (it *Interpreter) Base() int64 { return it.base }

// Push queues input values for the next input instructions.
func (it *Interpreter) Push(values ...int64) {
	it.inputs = append(it.inputs, values...)
}

// PopOutput removes and returns the oldest output value.
func (it *Interpreter) PopOutput() (int64, bool) {
	if len(it.outputs) == 0 {
		return 0, false
	}
	v := it.outputs[0]
	it.outputs = it.outputs[1:]
	return v, true
}

// Output returns the output stream. The slice aliases the machine's buffer.
func (it *Interpreter) Output() []int64 { return it.outputs }

// LastOutput returns the newest output value, or 0 when there is none.
func (it *Interpreter) LastOutput() int64 {
	if len(it.outputs) == 0 {
		return 0
	}
	return it.outputs[len(it.outputs)-1]
}

// Value returns the word at addr; ok is false when addr is outside memory.
func (it *Interpreter) Value(addr int64) (int64, bool) {
	if addr < 0 || addr >= int64(len(it.mem)) {
		return 0, false
	}
	return it.mem[addr], true
}

// SetValue writes the word at addr, growing memory as needed.
// addr must be non-negative.
func (it *Interpreter) SetValue(addr, v int64) {
	it.ensure(addr + 1)
	it.mem[addr] = v
}

// SetNounVerb sets memory cells 1 and 2.
func (it *Interpreter) SetNounVerb(noun, verb int64) {
	it.SetValue(1, noun)
	it.SetValue(2, verb)
}

// RestoreAlarmState applies the "1202 program alarm" state: noun 12, verb 2.
func (it *Interpreter) RestoreAlarmState() {
	it.SetNounVerb(12, 2)
}

// Dump returns memory as a comma-joined string.
func (it *Interpreter) Dump() string {
	return dumpWords(it.mem)
}

// DumpOutput returns the output stream as a comma-joined string.
func (it *Interpreter) DumpOutput() string {
	return dumpWords(it.outputs)
}

func dumpWords(words []int64) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = strconv.FormatInt(w, 10)
	}
	return strings.Join(parts, ",")
}

// Reset restores the initial program image and clears all machine state.
func (it *Interpreter) Reset() {
	it.mem = make([]int64, len(it.initial))
	copy(it.mem, it.initial)
	it.ip = 0
	it.base = 0
	it.state = Running
	it.inputs = nil
	it.outputs = nil
}

// Clone returns an independent copy of the machine.
func (it *Interpreter) Clone() *Interpreter {
	dup := &Interpreter{
		mem:     append([]int64(nil), it.mem...),
		initial: append([]int64(nil), it.initial...),
		ip:      it.ip,
		base:    it.base,
		state:   it.state,
	}
	if it.inputs != nil {
		dup.inputs = append([]int64(nil), it.inputs...)
	}
	if it.outputs != nil {
		dup.outputs = append([]int64(nil), it.outputs...)
	}
	return dup
}

// Step decodes and executes one instruction. On Waiting the machine is left
// untouched, so the same input instruction retries after Push. Stepping a
// halted machine stays halted.
func (it *Interpreter) Step() (Instruction, State, error) {
	if it.state == Halted {
		return Instruction{Op: OpExit, Size: 1}, Halted, nil
	}
	if it.ip < 0 {
		return Instruction{}, it.state, fmt.Errorf("%w: instruction pointer %d", ErrBadAddress, it.ip)
	}
	if it.ip >= int64(len(it.mem)) {
		// Fell off the program without an explicit EXIT.
		it.state = Halted
		return Instruction{Op: OpExit, Size: 1}, Halted, nil
	}

	// Decode through a zero-padded window so instructions at the end of the
	// image never grow memory.
	var window [4]int64
	for k := range window {
		window[k] = it.peek(it.ip + int64(k))
	}
	inst, err := Decode(window[:])
	if err != nil {
		return Instruction{}, it.state, fmt.Errorf("at %d: %w", it.ip, err)
	}

	switch inst.Op {
	case OpAdd, OpMul, OpLessThan, OpEquals:
		a, err := it.read(inst.Params[0])
		if err != nil {
			return inst, it.state, err
		}
		b, err := it.read(inst.Params[1])
		if err != nil {
			return inst, it.state, err
		}
		var v int64
		switch inst.Op {
		case OpAdd:
			v = a + b
		case OpMul:
			v = a * b
		case OpLessThan:
			if a < b {
				v = 1
			}
		case OpEquals:
			if a == b {
				v = 1
			}
		}
		if err := it.write(*inst.Dest, v); err != nil {
			return inst, it.state, err
		}
		it.ip += int64(inst.Size)

	case OpStore:
		if len(it.inputs) == 0 {
			it.state = Waiting
			return inst, Waiting, nil
		}
		v := it.inputs[0]
		it.inputs = it.inputs[1:]
		if err := it.write(*inst.Dest, v); err != nil {
			return inst, it.state, err
		}
		it.ip += int64(inst.Size)

	case OpShow:
		v, err := it.read(inst.Params[0])
		if err != nil {
			return inst, it.state, err
		}
		it.outputs = append(it.outputs, v)
		it.ip += int64(inst.Size)

	case OpJumpTrue, OpJumpFalse:
		cond, err := it.read(inst.Params[0])
		if err != nil {
			return inst, it.state, err
		}
		jump := cond != 0
		if inst.Op == OpJumpFalse {
			jump = cond == 0
		}
		if jump {
			target, err := it.read(inst.Params[1])
			if err != nil {
				return inst, it.state, err
			}
			it.ip = target
		} else {
			it.ip += int64(inst.Size)
		}

	case OpAdjustBase:
		v, err := it.read(inst.Params[0])
		if err != nil {
			return inst, it.state, err
		}
		it.base += v
		it.ip += int64(inst.Size)

	case OpExit:
		it.state = Halted
		return inst, Halted, nil
	}

	it.state = Running
	return inst, Running, nil
}

// Run executes until the program halts or blocks on input.
func (it *Interpreter) Run() (State, error) {
	for {
		_, st, err := it.Step()
		if err != nil || st != Running {
			return st, err
		}
	}
}

// RunTrace executes like Run and writes one line of disassembly per step,
// including the final EXIT line and a blocked input instruction.
func (it *Interpreter) RunTrace(w io.Writer) (State, error) {
	for {
		inst, st, err := it.Step()
		if err != nil {
			return st, err
		}
		if _, err := fmt.Fprintln(w, inst.String()); err != nil {
			return st, err
		}
		if st != Running {
			return st, nil
		}
	}
}

// RunAndDump runs src to completion and returns the final memory image.
func RunAndDump(src string) (string, error) {
	it, err := NewFromSource(src)
	if err != nil {
		return "", err
	}
	if _, err := it.Run(); err != nil {
		return "", err
	}
	return it.Dump(), nil
}

// RunAndDumpWithOutput runs src and returns the memory and output dumps.
func RunAndDumpWithOutput(src string) (string, string, error) {
	it, err := NewFromSource(src)
	if err != nil {
		return "", "", err
	}
	if _, err := it.Run(); err != nil {
		return "", "", err
	}
	return it.Dump(), it.DumpOutput(), nil
}

// RunWithInput runs src with inputs queued and returns the output dump.
func RunWithInput(src string, inputs ...int64) (string, error) {
	it, err := NewFromSource(src)
	if err != nil {
		return "", err
	}
	it.Push(inputs...)
	if _, err := it.Run(); err != nil {
		return "", err
	}
	return it.DumpOutput(), nil
}

// peek reads addr without growing memory; out-of-image reads are zero.
func (it *Interpreter) peek(addr int64) int64 {
	if addr < 0 || addr >= int64(len(it.mem)) {
		return 0
	}
	return it.mem[addr]
}

func (it *Interpreter) read(p Param) (int64, error) {
	switch p.Mode {
	case Immediate:
		return p.Value, nil
	case Relative:
		return it.readAt(it.base + p.Value)
	default:
		return it.readAt(p.Value)
	}
}

func (it *Interpreter) readAt(addr int64) (int64, error) {
	if addr < 0 {
		return 0, fmt.Errorf("%w: read at %d", ErrBadAddress, addr)
	}
	return it.peek(addr), nil
}

func (it *Interpreter) write(a Address, v int64) error {
	addr := a.Value
	if a.Mode == Relative {
		addr += it.base
	}
	if addr < 0 {
		return fmt.Errorf("%w: write at %d", ErrBadAddress, addr)
	}
	it.ensure(addr + 1)
	it.mem[addr] = v
	return nil
}

func (it *Interpreter) ensure(size int64) {
	if size <= int64(len(it.mem)) {
		return
	}
	grown := make([]int64, size)
	copy(grown, it.mem)
	it.mem = grown
}
