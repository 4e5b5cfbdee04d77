package tracer

// LocationType classifies where a memory-table event touched: the value
// stack, linear memory (heap), or a global.
type LocationType int

const (
	LocationTypeStack LocationType = iota
	LocationTypeHeap
	LocationTypeGlobal
)

// AccessType classifies a MemoryTableEntry as a read, write, or the initial
// value recorded by an IMTable entry.
type AccessType int

const (
	AccessTypeRead AccessType = iota
	AccessTypeWrite
	AccessTypeInit
)

// MemoryTableEntry is one derived memory-access event (spec.md §3
// "MTable is derived deterministically from the ETable").
type MemoryTableEntry struct {
	EID       uint32
	EMID      uint32
	Addr      int
	LType     LocationType
	AType     AccessType
	IsMutable bool
	Value     uint64
}

// MTable is the derived memory-access log (spec.md §3 "MTable").
type MTable struct {
	entries []MemoryTableEntry
}

// NewMTable wraps a slice of already-computed entries.
func NewMTable(entries []MemoryTableEntry) *MTable { return &MTable{entries: entries} }

// Entries returns the table's entries in emid order.
func (t *MTable) Entries() []MemoryTableEntry { return t.entries }

// memoryEventOfStep expands one ETableEntry into its Read/Write events,
// threading the shared emid counter (spec.md §3 "MTable... emid is a
// per-invocation monotonic sub-counter threaded across events"). This is
// the direct port of the original's memory_event_of_step /
// mem_op_from_stack_only_step.
func memoryEventOfStep(entry ETableEntry, emid *uint32, onUnimplemented func(StepInfo)) []MemoryTableEntry {
	switch entry.StepInfo.Kind {
	case StepI32BinOp:
		return memOpFromStackOnlyStep(
			entry.EID, emid,
			[]IVal{entry.StepInfo.Left, entry.StepInfo.Right},
			[]IVal{entry.StepInfo.Result},
		)
	case StepUnimplemented:
		if onUnimplemented != nil {
			onUnimplemented(entry.StepInfo)
		}
		return nil
	default:
		return nil
	}
}

func memOpFromStackOnlyStep(eid uint32, emid *uint32, reads, writes []IVal) []MemoryTableEntry {
	out := make([]MemoryTableEntry, 0, len(reads)+len(writes))
	for _, v := range reads {
		out = append(out, MemoryTableEntry{
			EID: eid, EMID: *emid, Addr: v.Addr,
			LType: LocationTypeStack, AType: AccessTypeRead, IsMutable: true, Value: v.Val,
		})
		*emid++
	}
	for _, v := range writes {
		out = append(out, MemoryTableEntry{
			EID: eid, EMID: *emid, Addr: v.Addr,
			LType: LocationTypeStack, AType: AccessTypeWrite, IsMutable: true, Value: v.Val,
		})
		*emid++
	}
	return out
}
