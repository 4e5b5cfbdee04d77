// Package api holds the value-level types shared by the engine and its
// embedders: the Wasm value types that describe function signatures and
// globals.
package api

// ValueType describes a numeric type used in WebAssembly. All wasmi values
// are untyped 64-bit slots at runtime (spec.md §3 "Value slot"); ValueType
// is only used to describe function signatures and to interpret a slot's
// bit pattern when it crosses the host boundary or is captured by the
// tracer.
type ValueType = byte

const (
	// ValueTypeI32 is a 32-bit integer.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 is a 64-bit integer.
	ValueTypeI64 ValueType = 0x7e
	// ValueTypeF32 is a 32-bit floating point number, bit-encoded as uint64.
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 is a 64-bit floating point number, bit-encoded as uint64.
	ValueTypeF64 ValueType = 0x7c
	// ValueTypeFuncref is an opaque handle to a function, stored as a
	// single 64-bit slot.
	ValueTypeFuncref ValueType = 0x70
	// ValueTypeExternref is an opaque handle to a host object, stored as a
	// single 64-bit slot.
	ValueTypeExternref ValueType = 0x6f
)

// ValueTypeName returns the type name of the given ValueType, or "unknown"
// for an undefined value.
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	default:
		return "unknown"
	}
}
