package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/botnav/common"
	"github.com/milk9111/botnav/levels"
)

const (
	categorySolid uint = 1 << iota
	categoryLiquid
)

var (
	solidFilter  = cp.NewShapeFilter(cp.NO_GROUP, categorySolid, categorySolid)
	liquidFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryLiquid, categoryLiquid)
)

// Oracle answers line-of-sight and liquid queries against a level's static
// geometry using a Chipmunk space that is never stepped. Chipmunk is 2D: X
// and Y form the physics plane and Z is ignored by every query.
type Oracle struct {
	space  *cp.Space
	bounds levels.Box
}

// NewOracle builds the query space for lvl.
func NewOracle(lvl *levels.Level) *Oracle {
	o := &Oracle{space: cp.NewSpace()}
	if lvl == nil {
		return o
	}
	o.bounds = lvl.Bounds
	for _, b := range lvl.Solids {
		o.addBox(b, solidFilter)
	}
	for _, b := range lvl.Liquids {
		o.addBox(b, liquidFilter)
	}
	return o
}

func (o *Oracle) addBox(b levels.Box, filter cp.ShapeFilter) {
	bb := cp.BB{
		L: math.Min(b.Min.X, b.Max.X),
		B: math.Min(b.Min.Y, b.Max.Y),
		R: math.Max(b.Min.X, b.Max.X),
		T: math.Max(b.Min.Y, b.Max.Y),
	}
	shape := cp.NewBox2(o.space.StaticBody, bb, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, filter.Categories, cp.ALL_CATEGORIES))
	o.space.AddShape(shape)
}

func vec(p common.Vec3) cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

func (o *Oracle) inside(p cp.Vector, filter cp.ShapeFilter) bool {
	info := o.space.PointQueryNearest(p, 0, filter)
	return info != nil && info.Shape != nil && info.Distance < 0
}

func (o *Oracle) touches(a, b common.Vec3, filter cp.ShapeFilter) bool {
	va, vb := vec(a), vec(b)
	if o.inside(va, filter) || o.inside(vb, filter) {
		return true
	}
	if va == vb {
		return false
	}
	hit := o.space.SegmentQueryFirst(va, vb, 0, filter)
	return hit.Shape != nil
}

// HasLineOfSight reports whether ab stays clear of solids. Zero-length
// segments never have line of sight.
func (o *Oracle) HasLineOfSight(a, b common.Vec3) bool {
	if a == b {
		return false
	}
	return !o.touches(a, b, solidFilter)
}

func (o *Oracle) HitsLiquid(a, b common.Vec3) bool {
	return o.touches(a, b, liquidFilter)
}

// Quantize maps p into the level bounds at 16 bits per axis. Points outside
// the bounds clamp to the nearest edge. An axis the bounds do not span keeps
// its raw value rounded to a whole unit.
func (o *Oracle) Quantize(p common.Vec3) [3]int16 {
	var q [3]int16
	for axis := 0; axis < 3; axis++ {
		lo, hi := o.bounds.Min.Axis(axis), o.bounds.Max.Axis(axis)
		if hi <= lo {
			q[axis] = rawInt16(p.Axis(axis))
			continue
		}
		t := (p.Axis(axis) - lo) / (hi - lo)
		t = math.Max(0, math.Min(1, t))
		q[axis] = int16(math.Round(t*math.MaxUint16) + math.MinInt16)
	}
	return q
}

func (o *Oracle) Dequantize(q [3]int16) common.Vec3 {
	var out [3]float64
	for axis := 0; axis < 3; axis++ {
		lo, hi := o.bounds.Min.Axis(axis), o.bounds.Max.Axis(axis)
		if hi <= lo {
			out[axis] = float64(q[axis])
			continue
		}
		t := (float64(q[axis]) - math.MinInt16) / math.MaxUint16
		out[axis] = lo + t*(hi-lo)
	}
	return common.V3(out[0], out[1], out[2])
}

// Resolution is the largest per-axis rounding error of Quantize.
func (o *Oracle) Resolution() float64 {
	worst := 0.0
	for axis := 0; axis < 3; axis++ {
		extent := o.bounds.Max.Axis(axis) - o.bounds.Min.Axis(axis)
		if extent <= 0 {
			worst = math.Max(worst, 0.5)
			continue
		}
		worst = math.Max(worst, extent/math.MaxUint16/2)
	}
	return worst
}

func rawInt16(v float64) int16 {
	return int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v))))
}
