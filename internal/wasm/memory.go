package wasm

// MemoryPageSize is the Wasm linear-memory page size in bytes (64 KiB).
const MemoryPageSize = uint32(1) << 16

// MemoryPageWords is the number of 8-byte words per page (64 KiB / 8 B =
// 8192), named per the open question in spec.md §9 ("the initial-memory
// walker enumerates pages * 8192 words... make this a named constant").
const MemoryPageWords = MemoryPageSize / 8

// ResourceLimiter is consulted on memory and table growth inside
// instruction execution (spec.md §6, §4.G design notes). It is an external
// collaborator: the core never decides resource policy itself.
type ResourceLimiter interface {
	// CanGrowMemory reports whether a memory may grow from currentPages to
	// currentPages+deltaPages.
	CanGrowMemory(currentPages, deltaPages uint32) bool
}

// unlimitedResourceLimiter is the default ResourceLimiter: it bounds growth
// only by the memory's own declared maximum.
type unlimitedResourceLimiter struct{}

func (unlimitedResourceLimiter) CanGrowMemory(uint32, uint32) bool { return true }

// UnlimitedResourceLimiter returns a ResourceLimiter that imposes no policy
// beyond the memory's own declared maximum.
func UnlimitedResourceLimiter() ResourceLimiter { return unlimitedResourceLimiter{} }

// MemoryInstance is the linear memory of a module instance. The decoder,
// bounds-checked load/store opcodes and bulk-memory operations are out of
// scope for the core (spec.md §1); this type exists so the tracer's
// push_init_memory and the MemoryGrow instruction have something concrete
// to observe.
type MemoryInstance struct {
	Buffer []byte
	Max    *uint32 // nil means no declared maximum.
}

// PageSize returns the current size of the memory in pages.
func (m *MemoryInstance) PageSize() uint32 {
	return uint32(len(m.Buffer)) / MemoryPageSize
}

// Grow attempts to grow the memory by delta pages, consulting limiter. It
// returns the previous page count on success or ^uint32(0) on failure,
// mirroring the teacher's MemoryInstance.Grow contract.
func (m *MemoryInstance) Grow(delta uint32, limiter ResourceLimiter) uint32 {
	current := m.PageSize()
	if delta == 0 {
		return current
	}
	if m.Max != nil && current+delta > *m.Max {
		return ^uint32(0)
	}
	if limiter != nil && !limiter.CanGrowMemory(current, delta) {
		return ^uint32(0)
	}
	m.Buffer = append(m.Buffer, make([]byte, uint64(delta)*uint64(MemoryPageSize))...)
	return current
}
