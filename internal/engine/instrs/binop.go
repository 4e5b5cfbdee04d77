package instrs

import (
	"math"

	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

func i32Add(a, b uint32) (uint32, error) { return a + b, nil }
func i32Sub(a, b uint32) (uint32, error) { return a - b, nil }
func i32Mul(a, b uint32) (uint32, error) { return a * b, nil }

func i32DivS(a, b int32) (int32, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	if a == math.MinInt32 && b == -1 {
		return 0, wasmruntime.ErrRuntimeIntegerOverflow
	}
	return a / b, nil
}

func i32DivU(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	return a / b, nil
}

func i32RemS(a, b int32) (int32, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	if a == math.MinInt32 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

func i32RemU(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	return a % b, nil
}

func i64Add(a, b uint64) (uint64, error) { return a + b, nil }
func i64Sub(a, b uint64) (uint64, error) { return a - b, nil }
func i64Mul(a, b uint64) (uint64, error) { return a * b, nil }

func i64DivS(a, b int64) (int64, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, wasmruntime.ErrRuntimeIntegerOverflow
	}
	return a / b, nil
}

func i64DivU(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	return a / b, nil
}

func i64RemS(a, b int64) (int64, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, nil
	}
	return a % b, nil
}

func i64RemU(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, wasmruntime.ErrRuntimeIntegerDivideByZero
	}
	return a % b, nil
}

func f32Add(a, b float32) float32 { return a + b }
func f32Sub(a, b float32) float32 { return a - b }
func f32Mul(a, b float32) float32 { return a * b }
func f32Div(a, b float32) float32 { return a / b }

func f32Min(a, b float32) float32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return float32(math.NaN())
	}
	return float32(math.Min(float64(a), float64(b)))
}

func f32Max(a, b float32) float32 {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return float32(math.NaN())
	}
	return float32(math.Max(float64(a), float64(b)))
}

func f32Copysign(a, b float32) float32 { return float32(math.Copysign(float64(a), float64(b))) }

func f64Add(a, b float64) float64        { return a + b }
func f64Sub(a, b float64) float64        { return a - b }
func f64Mul(a, b float64) float64        { return a * b }
func f64Div(a, b float64) float64        { return a / b }
func f64Min(a, b float64) float64        { return math.Min(a, b) }
func f64Max(a, b float64) float64        { return math.Max(a, b) }
func f64Copysign(a, b float64) float64   { return math.Copysign(a, b) }
