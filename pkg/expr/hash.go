package expr

import "math"

// Structural content hashing (FNV-1a combination) for subexpression
// memoization. Structurally equal nodes hash equal; the memo trades the
// remote chance of a collision for re-evaluation savings on large
// equation sets, matching the caching contract of the evaluator.

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

func mix(h uint64, vals ...uint64) uint64 {
	for _, v := range vals {
		for i := 0; i < 8; i++ {
			h ^= (v >> (8 * i)) & 0xff
			h *= fnvPrime
		}
	}
	return h
}

func mixString(h uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

func (e *VarRef) hash() uint64 {
	return mixString(mix(fnvOffset, 1), e.Name)
}

func (e *Const) hash() uint64 {
	h := mix(fnvOffset, 2, math.Float64bits(e.Value.SI()))
	if d := e.Value.Dim(); d != nil {
		h = mix(h, d.Hash())
	}
	return h
}

func (e *Binary) hash() uint64 {
	return mixString(mix(fnvOffset, 3, e.Left.hash(), e.Right.hash()), string(e.Op))
}

func (e *Unary) hash() uint64 {
	return mixString(mix(fnvOffset, 4, e.Operand.hash()), string(e.Op))
}

func (e *Call) hash() uint64 {
	return mixString(mix(fnvOffset, 5, e.Operand.hash()), e.Name)
}

func (e *Conditional) hash() uint64 {
	return mix(fnvOffset, 6, e.Cond.hash(), e.Then.hash(), e.Else.hash())
}

func (e *RangeSelect) hash() uint64 {
	h := mix(fnvOffset, 7, e.Subject.hash())
	for _, b := range e.Buckets {
		h = mixString(mix(h, b.Bound.hash(), b.Result.hash()), string(b.Cmp))
	}
	if e.Otherwise != nil {
		h = mix(h, e.Otherwise.hash())
	}
	return h
}

func (e *Match) hash() uint64 {
	// OptionVar selection is mutable state, so a Match hashes by subject
	// identity and never joins the structural memo across selections.
	h := mixString(mix(fnvOffset, 8), e.Subject.Name)
	if sel := e.Subject.Selected(); sel != nil {
		h = mixString(h, sel.Value)
	}
	for _, c := range e.Cases {
		h = mixString(mix(h, c.Result.hash()), c.When.Value)
	}
	return h
}
