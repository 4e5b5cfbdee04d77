package wasm

// Instance is a module instance: the owner of a function's linear memory
// and globals, and the unit InstanceCache keys its cached lookups by
// (spec.md §4.D). The decoder/linker that populates exports, tables and
// imports is out of scope for the core; Instance here only carries what the
// executor and tracer actually touch.
type Instance struct {
	// ID uniquely identifies this instance for cache-invalidation purposes
	// (spec.md §9 "Instance-cache invalidation... keyed by instance_id").
	ID uint32

	Memory  *MemoryInstance
	Globals []*GlobalInstance
}
