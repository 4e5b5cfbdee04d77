// Package trap implements TaggedTrap (spec.md §3, §7): the sum that
// discriminates a non-resumable Wasm-originated trap from a host-function
// trap that is eligible to seed a ResumableInvocation.
package trap

import (
	"fmt"

	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

// TaggedTrap is returned by the pump loop on any execution failure. Exactly
// one of its two shapes applies, selected by Host being nil.
type TaggedTrap struct {
	// WasmErr is set when this trap is not resumable: everything
	// originating inside Wasm execution, and any host error reaching the
	// pump loop with no caller frame left on the call stack (spec.md §7).
	WasmErr error

	// Host carries the resumable-candidate payload: the trapping host
	// function, its error, and the register span the caller is waiting on.
	// Set only when WasmErr is nil.
	Host *HostTrap
}

// HostTrap is the resumable-candidate payload of a TaggedTrap.
type HostTrap struct {
	HostFunc      wasm.Func
	HostErr       error
	CallerResults bytecode.RegisterSpan
}

// Wasm builds a non-resumable TaggedTrap.
func Wasm(err error) TaggedTrap { return TaggedTrap{WasmErr: err} }

// Host builds a resumable-candidate TaggedTrap.
func Host(hostFunc wasm.Func, hostErr error, callerResults bytecode.RegisterSpan) TaggedTrap {
	return TaggedTrap{Host: &HostTrap{HostFunc: hostFunc, HostErr: hostErr, CallerResults: callerResults}}
}

// IsResumable reports whether this trap may seed a ResumableInvocation.
func (t TaggedTrap) IsResumable() bool { return t.Host != nil }

// IntoError flattens the TaggedTrap into a user-facing error, exactly as
// spec.md §7 describes: a TaggedTrap::Wasm always flattens; a
// TaggedTrap::Host flattens too, used only for the transient return at call
// sites that choose not to offer resumption.
func (t TaggedTrap) IntoError() error {
	if t.WasmErr != nil {
		return t.WasmErr
	}
	return fmt.Errorf("wasmi: host function trapped: %w", t.Host.HostErr)
}
