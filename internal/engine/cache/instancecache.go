// Package cache implements the per-invocation InstanceCache described in
// spec.md §4.D: a cache of the "current instance" so hot instructions
// avoid repeated lookups through the owning Instance.
package cache

import "github.com/wuliuqii/wasmi/internal/wasm"

// InstanceCache caches the memory and globals of the instance backing the
// topmost call frame. It is rebuilt whenever the executing frame's
// instance changes (spec.md §9 "Instance-cache invalidation... detach-on-
// call, reattach-on-return, keyed by instance_id").
type InstanceCache struct {
	instanceID uint32
	memory     *wasm.MemoryInstance
	globals    []*wasm.GlobalInstance
}

// NewInstanceCache builds a cache for instance.
func NewInstanceCache(instance *wasm.Instance) *InstanceCache {
	c := &InstanceCache{}
	c.reset(instance)
	return c
}

func (c *InstanceCache) reset(instance *wasm.Instance) {
	c.instanceID = instance.ID
	c.memory = instance.Memory
	c.globals = instance.Globals
}

// Refresh rebuilds the cache if instance differs from the one currently
// cached (a cross-instance call). It is a no-op otherwise, keeping cache
// invalidation off the hot path for same-instance calls.
func (c *InstanceCache) Refresh(instance *wasm.Instance) {
	if instance.ID == c.instanceID {
		return
	}
	c.reset(instance)
}

// Memory returns the cached memory instance.
func (c *InstanceCache) Memory() *wasm.MemoryInstance { return c.memory }

// Global returns the cached global at idx.
func (c *InstanceCache) Global(idx uint32) *wasm.GlobalInstance { return c.globals[idx] }
