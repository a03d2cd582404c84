package intcode

import "errors"

// Machine errors. Step wraps these with the failing instruction pointer.
var (
	ErrBadOpcode  = errors.New("unsupported opcode")
	ErrBadMode    = errors.New("unsupported parameter mode")
	ErrBadWrite   = errors.New("immediate operand is not writable")
	ErrBadAddress = errors.New("address out of range")
	ErrTruncated  = errors.New("truncated instruction")
)
