package tracer

import (
	"github.com/wuliuqii/wasmi/internal/wasm"
	"go.uber.org/zap"
)

// Tracer is the optional observer attached to an invocation (spec.md §4.H).
// Its presence never changes execution outcomes, only what is recorded.
type Tracer struct {
	IMTable IMTable
	ETable  ETable

	log *zap.Logger
}

// New creates an empty Tracer. A nil logger disables the Debug-level
// logging GetMTable's Unimplemented hook would otherwise emit.
func New(log *zap.Logger) *Tracer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracer{log: log}
}

// PushInitMemory walks mem in 8-byte words, emitting one IMTable entry per
// word plus a terminator for [init_size, maximum) valued Init (spec.md
// §4.H "push_init_memory"). Per the open question in spec.md §9, the
// terminator's EndOffset is math.MaxUint32 when mem has no declared
// maximum; callers must treat that as "unbounded", not a literal address.
func (t *Tracer) PushInitMemory(mem *wasm.MemoryInstance) {
	pages := mem.PageSize()
	for i := uint32(0); i < pages*wasm.MemoryPageWords; i++ {
		off := uint64(i) * 8
		buf := mem.Buffer[off : off+8]
		var v uint64
		for b := 7; b >= 0; b-- {
			v = v<<8 | uint64(buf[b])
		}
		t.IMTable.push(false, true, i, i, ValueTypeI64, v)
	}
	endOffset := uint32(0xFFFFFFFF)
	if mem.Max != nil {
		endOffset = *mem.Max*wasm.MemoryPageWords - 1
	}
	t.IMTable.push(false, true, pages*wasm.MemoryPageWords, endOffset, ValueTypeI64, 0)
}

// PushGlobal records a single IMTable entry for globalRef, keyed by
// globalIdx (spec.md §4.H "push_global").
func (t *Tracer) PushGlobal(globalIdx uint32, globalRef *wasm.GlobalInstance) {
	t.IMTable.push(true, globalRef.Mutable, globalIdx, globalIdx, FromAPIValueType(globalRef.Type), globalRef.Val)
}

// GetMTable folds the ETable into an MTable, iterating in EID order and
// threading a single emid counter across events (spec.md §4.H
// "get_mtable()"). It is pure and idempotent: calling it twice on the same
// ETable yields equal MTables (spec.md §8, testable property 5).
func (t *Tracer) GetMTable() *MTable {
	emid := uint32(1)
	var out []MemoryTableEntry
	for _, entry := range t.ETable.Entries() {
		out = append(out, memoryEventOfStep(entry, &emid, func(step StepInfo) {
			t.log.Debug("unimplemented step in trace", zap.String("opcode", step.Opcode.String()))
		})...)
	}
	return NewMTable(out)
}
