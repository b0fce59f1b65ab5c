package quantity

import (
	"sync"

	"github.com/quantral/quantral/pkg/dimension"
	"github.com/quantral/quantral/pkg/unit"
)

// Process-wide multiplication cache. Dimensions are interned, so the
// (left, right, op) identity triple is a stable key; the cached entry
// carries the combined dimension and a default display unit so repeated
// same-shaped multiplications skip both the dimension algebra and the
// unit composition.

type combineOp byte

const (
	opMul combineOp = '*'
	opDiv combineOp = '/'
)

type dimPair struct {
	left  *dimension.Dimension
	right *dimension.Dimension
	op    combineOp
}

type dimEntry struct {
	dim     *dimension.Dimension
	display *unit.Unit // may be nil when no display unit is derivable
}

var (
	combineMu    sync.RWMutex
	combineCache = make(map[dimPair]dimEntry)
)

// combineDims returns the cached combination of two dimensions, computing
// and caching it on first use.
func combineDims(a, b *dimension.Dimension, op combineOp) (dimEntry, error) {
	key := dimPair{left: a, right: b, op: op}

	combineMu.RLock()
	ent, ok := combineCache[key]
	combineMu.RUnlock()
	if ok {
		return ent, nil
	}

	var d *dimension.Dimension
	var err error
	if op == opMul {
		d, err = a.Mul(b)
	} else {
		d, err = a.Div(b)
	}
	if err != nil {
		return dimEntry{}, err
	}

	ent = dimEntry{dim: d, display: defaultDisplay(a, b, d, op)}

	combineMu.Lock()
	combineCache[key] = ent
	combineMu.Unlock()
	return ent, nil
}

// defaultDisplay picks a display unit for a combined dimension: the
// registered SI unit when one exists, otherwise a composition of the
// operand dimensions' SI units ("m" / "s" → "m/s"). Returns nil when
// neither is derivable; such results render with their dimension.
// Dimensionless results carry no display unit so they render as plain
// numbers rather than "10 1".
func defaultDisplay(a, b, combined *dimension.Dimension, op combineOp) *unit.Unit {
	if combined.IsDimensionless() {
		return nil
	}
	if u, err := unit.SIUnitFor(combined); err == nil {
		return u
	}
	ua, err := unit.SIUnitFor(a)
	if err != nil {
		return nil
	}
	ub, err := unit.SIUnitFor(b)
	if err != nil {
		return nil
	}
	cop := unit.OpMul
	if op == opDiv {
		cop = unit.OpDiv
	}
	u, err := unit.Compose(ua, ub, cop)
	if err != nil {
		return nil
	}
	return u
}

// CombineCacheSize reports the number of cached dimension pairs. Exposed
// for tests asserting cache behavior.
func CombineCacheSize() int {
	combineMu.RLock()
	defer combineMu.RUnlock()
	return len(combineCache)
}
