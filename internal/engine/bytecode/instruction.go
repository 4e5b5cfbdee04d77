package bytecode

// Opcode identifies how the generic fields of an Instruction are to be
// interpreted. This follows the teacher's interpreterOp shape
// (internal/engine/interpreter/interpreter.go): one flat struct reused
// across all operation kinds rather than one Go type per opcode, which
// keeps the instruction vector a single contiguous, cache-friendly slice.
type Opcode int

const (
	OpUnreachable Opcode = iota
	OpConst
	OpCopy

	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32DivS
	OpI32DivU
	OpI32RemS
	OpI32RemU

	OpI64Add
	OpI64Sub
	OpI64Mul
	OpI64DivS
	OpI64DivU
	OpI64RemS
	OpI64RemU

	OpF32Add
	OpF32Sub
	OpF32Mul
	OpF32Div
	OpF32Min
	OpF32Max
	OpF32Copysign

	OpF64Add
	OpF64Sub
	OpF64Mul
	OpF64Div
	OpF64Min
	OpF64Max
	OpF64Copysign

	OpMemoryGrow

	OpCall
	OpReturnCall
	OpReturn
)

// String names an Opcode for trace dumps and panic messages.
func (o Opcode) String() string {
	switch o {
	case OpUnreachable:
		return "unreachable"
	case OpConst:
		return "const"
	case OpCopy:
		return "copy"
	case OpI32Add:
		return "i32.add"
	case OpI32Sub:
		return "i32.sub"
	case OpI32Mul:
		return "i32.mul"
	case OpI32DivS:
		return "i32.div_s"
	case OpI32DivU:
		return "i32.div_u"
	case OpI32RemS:
		return "i32.rem_s"
	case OpI32RemU:
		return "i32.rem_u"
	case OpI64Add:
		return "i64.add"
	case OpI64Sub:
		return "i64.sub"
	case OpI64Mul:
		return "i64.mul"
	case OpI64DivS:
		return "i64.div_s"
	case OpI64DivU:
		return "i64.div_u"
	case OpI64RemS:
		return "i64.rem_s"
	case OpI64RemU:
		return "i64.rem_u"
	case OpF32Add:
		return "f32.add"
	case OpF32Sub:
		return "f32.sub"
	case OpF32Mul:
		return "f32.mul"
	case OpF32Div:
		return "f32.div"
	case OpF32Min:
		return "f32.min"
	case OpF32Max:
		return "f32.max"
	case OpF32Copysign:
		return "f32.copysign"
	case OpF64Add:
		return "f64.add"
	case OpF64Sub:
		return "f64.sub"
	case OpF64Mul:
		return "f64.mul"
	case OpF64Div:
		return "f64.div"
	case OpF64Min:
		return "f64.min"
	case OpF64Max:
		return "f64.max"
	case OpF64Copysign:
		return "f64.copysign"
	case OpMemoryGrow:
		return "memory.grow"
	case OpCall:
		return "call"
	case OpReturnCall:
		return "return_call"
	case OpReturn:
		return "return"
	default:
		return "unknown"
	}
}

// IsI32BinOp reports whether the opcode is one of the i32 binary
// arithmetic operations the tracer models with full fidelity (spec.md §3
// "StepInfo... I32BinOp").
func (o Opcode) IsI32BinOp() bool {
	switch o {
	case OpI32Add, OpI32Sub, OpI32Mul, OpI32DivS, OpI32DivU, OpI32RemS, OpI32RemU:
		return true
	default:
		return false
	}
}

// Instruction is one decoded operation in a CompiledFunc's instruction
// vector. Fields are opaque and only relevant in the context of Op, the
// same union-of-fields shape the teacher's interpreterOp uses.
type Instruction struct {
	Op Opcode

	// Dst, Left, Right address registers relative to the executing frame's
	// base_ptr (spec.md §3 "Register span"). Binary ops read Left/Right and
	// write Dst; Copy reads Left and writes Dst; MemoryGrow reads Left
	// (delta pages) and writes Dst (previous page count).
	Dst, Left, Right Register

	// Imm carries the bit pattern for OpConst.
	Imm uint64

	// FuncIdx, CallParams and Results describe OpCall/OpReturnCall: the
	// callee is resolved via the current instance's Store, parameters are
	// read from CallParams (registers in the *caller's* frame) and, for a
	// Wasm callee, written into the callee's register file; Results names
	// where the caller expects the call's return values.
	FuncIdx    uint32
	CallParams []Register
	Results    RegisterSpan

	// ReturnValues names, for OpReturn, the registers (in the returning
	// frame's own register file) holding the values to propagate to the
	// caller, in order.
	ReturnValues []Register
}
