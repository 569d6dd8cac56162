package waypoint

import (
	"math"

	"github.com/milk9111/botnav/common"
)

// Oracle answers geometry questions about the surrounding world. Every
// walkable link created by the store is checked with HasLineOfSight.
type Oracle interface {
	// HasLineOfSight reports whether segment ab is free of solid geometry.
	// Zero-length segments report false.
	HasLineOfSight(a, b common.Vec3) bool
	// HitsLiquid reports whether segment ab touches a liquid volume.
	HitsLiquid(a, b common.Vec3) bool
	// Quantize compresses p to a level-relative 16-bit form.
	Quantize(p common.Vec3) [3]int16
	// Dequantize reverses Quantize.
	Dequantize(q [3]int16) common.Vec3
}

// OpenOracle is an empty world: everything is visible, nothing is liquid and
// quantization rounds to whole units.
type OpenOracle struct{}

func (OpenOracle) HasLineOfSight(a, b common.Vec3) bool {
	return a != b
}

func (OpenOracle) HitsLiquid(a, b common.Vec3) bool {
	return false
}

func (OpenOracle) Quantize(p common.Vec3) [3]int16 {
	return [3]int16{clampInt16(p.X), clampInt16(p.Y), clampInt16(p.Z)}
}

func (OpenOracle) Dequantize(q [3]int16) common.Vec3 {
	return common.V3(float64(q[0]), float64(q[1]), float64(q[2]))
}

func clampInt16(v float64) int16 {
	v = math.Round(v)
	if v < math.MinInt16 {
		return math.MinInt16
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}
