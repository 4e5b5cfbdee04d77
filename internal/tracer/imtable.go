package tracer

import "github.com/wuliuqii/wasmi/api"

// ValueType mirrors the Wasm value types relevant to an IMTable entry's bit
// pattern, following the original's own ValueType enum rather than reusing
// api.ValueType's byte encoding directly, since IMTable entries must be
// able to name I64 explicitly for 8-byte memory words regardless of the
// source value's declared type.
type ValueType int

const (
	ValueTypeI64 ValueType = iota
	ValueTypeI32
	ValueTypeF32
	ValueTypeF64
	ValueTypeFuncRef
	ValueTypeExternRef
)

// FromAPIValueType converts an api.ValueType into the tracer's ValueType.
func FromAPIValueType(v api.ValueType) ValueType {
	switch v {
	case api.ValueTypeI32:
		return ValueTypeI32
	case api.ValueTypeI64:
		return ValueTypeI64
	case api.ValueTypeF32:
		return ValueTypeF32
	case api.ValueTypeF64:
		return ValueTypeF64
	case api.ValueTypeFuncref:
		return ValueTypeFuncRef
	default:
		return ValueTypeExternRef
	}
}

// IMTableEntry is one entry of the initial-memory snapshot: either a
// linear-memory word, a global, or the terminator spanning the
// uninitialised tail up to the declared maximum (spec.md §3 "IMTable").
type IMTableEntry struct {
	LType       LocationType
	IsMutable   bool
	StartOffset uint32
	EndOffset   uint32
	VType       ValueType
	Value       uint64
}

// IMTable is the initial-memory table (spec.md §3 "IMTable").
type IMTable struct {
	entries []IMTableEntry
}

// Entries returns the recorded entries in insertion order.
func (t *IMTable) Entries() []IMTableEntry { return t.entries }

func (t *IMTable) push(isGlobal, isMutable bool, start, end uint32, vtype ValueType, value uint64) {
	lt := LocationTypeHeap
	if isGlobal {
		lt = LocationTypeGlobal
	}
	t.entries = append(t.entries, IMTableEntry{
		LType: lt, IsMutable: isMutable, StartOffset: start, EndOffset: end, VType: vtype, Value: value,
	})
}
