package wasm

import "github.com/wuliuqii/wasmi/internal/wasmruntime"

// Fuel is the metering counter described in spec.md §5: each instruction
// (and, here, each function invocation resolved through the CodeMap)
// subtracts fuel; exhaustion traps with ErrRuntimeOutOfFuel. It implements
// code.FuelCharger without internal/engine/code needing to import this
// package.
type Fuel struct {
	enabled   bool
	remaining uint64
}

// NewFuel creates a Fuel counter with the given budget. enabled selects
// whether metering is active: when it is false Charge always succeeds,
// whatever the limit; when it is true a limit of 0 fails every charge.
func NewFuel(limit uint64, enabled bool) *Fuel {
	return &Fuel{enabled: enabled, remaining: limit}
}

// Charge subtracts amount from the remaining budget, returning
// ErrRuntimeOutOfFuel if metering is enabled and the budget would go
// negative.
func (f *Fuel) Charge(amount uint64) error {
	if f == nil || !f.enabled {
		return nil
	}
	if amount > f.remaining {
		f.remaining = 0
		return wasmruntime.ErrRuntimeOutOfFuel
	}
	f.remaining -= amount
	return nil
}

// Remaining returns the unspent fuel budget.
func (f *Fuel) Remaining() uint64 {
	if f == nil {
		return 0
	}
	return f.remaining
}

// Enabled reports whether fuel metering is active.
func (f *Fuel) Enabled() bool { return f != nil && f.enabled }
