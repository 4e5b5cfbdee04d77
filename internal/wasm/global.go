package wasm

import "github.com/wuliuqii/wasmi/api"

// GlobalInstance is a module-instance-scoped global variable: a typed,
// optionally-mutable 64-bit slot (spec.md §4.H "push_global").
type GlobalInstance struct {
	Type    api.ValueType
	Mutable bool
	Val     uint64
}
