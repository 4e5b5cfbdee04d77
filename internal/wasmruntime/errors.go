// Package wasmruntime holds the sentinel errors raised by the execution
// core, mirroring the teacher's internal/wasmruntime package: small,
// comparable error values that callers match with errors.Is, wrapped with
// %w as they propagate.
package wasmruntime

import "errors"

var (
	// ErrRuntimeStackOverflow is returned when growing the value stack or
	// pushing a call frame would exceed the configured limits (spec.md §4.A,
	// §4.B).
	ErrRuntimeStackOverflow = errors.New("wasmi: stack overflow")

	// ErrRuntimeOutOfFuel is returned when fuel metering is enabled and an
	// interpreted instruction or a code-map lookup would exhaust the
	// configured fuel budget (spec.md §5).
	ErrRuntimeOutOfFuel = errors.New("wasmi: out of fuel")

	// ErrRuntimeUnreachable is a semantic Wasm trap raised by an explicit
	// unreachable instruction.
	ErrRuntimeUnreachable = errors.New("wasmi: unreachable executed")

	// ErrRuntimeIntegerDivideByZero is a semantic Wasm trap.
	ErrRuntimeIntegerDivideByZero = errors.New("wasmi: integer divide by zero")

	// ErrRuntimeIntegerOverflow is a semantic Wasm trap (e.g. INT_MIN / -1).
	ErrRuntimeIntegerOverflow = errors.New("wasmi: integer overflow")

	// ErrRuntimeInvalidConversionToInteger is a semantic Wasm trap.
	ErrRuntimeInvalidConversionToInteger = errors.New("wasmi: invalid conversion to integer")

	// ErrRuntimeMemoryOutOfBounds is a semantic Wasm trap for out-of-bounds
	// linear memory access.
	ErrRuntimeMemoryOutOfBounds = errors.New("wasmi: out of bounds memory access")

	// ErrRuntimeIndirectCallTypeMismatch is raised when call_indirect
	// resolves a table slot whose signature does not match.
	ErrRuntimeIndirectCallTypeMismatch = errors.New("wasmi: indirect call type mismatch")
)
