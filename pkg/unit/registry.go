package unit

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quantral/quantral/pkg/dimension"
)

// Registry resolves names, symbols, and aliases to units and interns
// derived (prefixed and composed) units by canonical symbol.
type Registry struct {
	mu sync.RWMutex

	// byName maps lowercase names and aliases: "meter" → m
	byName map[string]*Unit

	// bySymbol maps case-sensitive symbols: "m" → m, "Pa" → Pa
	bySymbol map[string]*Unit

	// derived interns prefixed/composed units by canonical symbol so
	// identical compositions return the same *Unit.
	derived map[string]*Unit

	// siByDim holds, per dimension, the unit with SIFactor 1 and no offset.
	siByDim map[*dimension.Dimension]*Unit

	// preferredByDim holds the preferred display unit per dimension.
	preferredByDim map[*dimension.Dimension]*Unit

	finalized bool
}

// NewRegistry creates an empty registry. Most callers use the package-level
// default registry, which the builtin catalog populates from init.
func NewRegistry() *Registry {
	return &Registry{
		byName:         make(map[string]*Unit),
		bySymbol:       make(map[string]*Unit),
		derived:        make(map[string]*Unit),
		siByDim:        make(map[*dimension.Dimension]*Unit),
		preferredByDim: make(map[*dimension.Dimension]*Unit),
	}
}

// Default registry, populated by builtin.go.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a unit under its name, symbol, and aliases. Before
// Finalize, redefinition is allowed to support staged bootstrap; after
// Finalize, a key colliding with a different unit fails with
// DuplicateUnitError.
func (r *Registry) Register(u *Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(u.Aliases)+2)
	keys = append(keys, strings.ToLower(u.Name))
	for _, a := range u.Aliases {
		keys = append(keys, strings.ToLower(a))
	}

	if r.finalized {
		if prev, ok := r.bySymbol[u.Symbol]; ok && prev != u {
			return &DuplicateUnitError{Key: u.Symbol, Existing: prev.Name, New: u.Name}
		}
		for _, k := range keys {
			if prev, ok := r.byName[k]; ok && prev != u {
				return &DuplicateUnitError{Key: k, Existing: prev.Name, New: u.Name}
			}
		}
	}

	r.bySymbol[u.Symbol] = u
	for _, k := range keys {
		r.byName[k] = u
	}

	if !u.derived && u.SIFactor == 1 && u.SIOffset == 0 {
		if _, ok := r.siByDim[u.Dim]; !ok {
			r.siByDim[u.Dim] = u
		}
	}
	if _, ok := r.preferredByDim[u.Dim]; !ok && !u.derived {
		r.preferredByDim[u.Dim] = u
	}
	return nil
}

// Finalize freezes the registry: later registrations may only re-confirm
// existing bindings. Derived-unit interning remains available, since it
// never rebinds a key.
func (r *Registry) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalized = true
}

// Resolve looks up a unit by name, symbol, or alias, applying SI prefixes
// and parsing composed spellings like "ft/s²", "kg*m/s2" or "N*m".
// Input is normalized first (superscripts, separators, whitespace).
func (r *Registry) Resolve(nameOrSymbol string) (*Unit, error) {
	s := Normalize(nameOrSymbol)
	if s == "" {
		return nil, &UnitNotFoundError{Name: nameOrSymbol}
	}

	if u, ok := r.lookup(s); ok {
		return u, nil
	}

	u, err := r.parseComposed(s)
	if err != nil {
		return nil, &UnitNotFoundError{Name: nameOrSymbol}
	}
	return u, nil
}

// lookup resolves a single (non-composed) spelling: symbol, name/alias,
// interned derived symbol, then prefixed forms.
func (r *Registry) lookup(s string) (*Unit, bool) {
	r.mu.RLock()
	if u, ok := r.bySymbol[s]; ok {
		r.mu.RUnlock()
		return u, true
	}
	if u, ok := r.derived[s]; ok {
		r.mu.RUnlock()
		return u, true
	}
	if u, ok := r.byName[strings.ToLower(s)]; ok {
		r.mu.RUnlock()
		return u, true
	}
	r.mu.RUnlock()

	return r.lookupPrefixed(s)
}

// lookupPrefixed tries to split s into an SI prefix and a prefixable base
// unit, by symbol first ("km") then by name ("kilometer"). Longest prefix
// wins so "da" (deka) is tried before "d" (deci).
func (r *Registry) lookupPrefixed(s string) (*Unit, bool) {
	for _, p := range prefixesBySymbolLen {
		base, ok := r.baseForPrefix(strings.TrimPrefix(s, p.Symbol), s, p.Symbol, false)
		if ok {
			return r.internPrefixed(p, base), true
		}
	}
	low := strings.ToLower(s)
	for _, p := range prefixesByNameLen {
		base, ok := r.baseForPrefix(strings.TrimPrefix(low, p.Name), low, p.Name, true)
		if ok {
			return r.internPrefixed(p, base), true
		}
	}
	return nil, false
}

// baseForPrefix validates a prefix split: the prefix must actually strip,
// and the remainder must resolve to a prefixable canonical unit.
func (r *Registry) baseForPrefix(rest, whole, prefix string, byName bool) (*Unit, bool) {
	if rest == whole || rest == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var u *Unit
	var ok bool
	if byName {
		u, ok = r.byName[rest]
	} else {
		u, ok = r.bySymbol[rest]
	}
	if !ok || !u.prefixable || u.derived {
		return nil, false
	}
	return u, true
}

// internPrefixed builds (or returns the interned) prefixed unit.
func (r *Registry) internPrefixed(p Prefix, base *Unit) *Unit {
	symbol := p.Symbol + base.Symbol
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.derived[symbol]; ok {
		return u
	}
	u := &Unit{
		Name:     p.Name + base.Name,
		Symbol:   symbol,
		SIFactor: p.Factor * base.SIFactor,
		Dim:      base.Dim,
		derived:  true,
	}
	r.derived[symbol] = u
	r.byName[strings.ToLower(u.Name)] = u
	return u
}

// Compose builds the derived unit a op b, interned by canonical symbol so
// identical compositions are the same object. Affine units cannot compose.
func (r *Registry) Compose(a, b *Unit, op ComposeOp) (*Unit, error) {
	if a.IsAffine() {
		return nil, &AffineComposeError{Symbol: a.Symbol}
	}
	if b.IsAffine() {
		return nil, &AffineComposeError{Symbol: b.Symbol}
	}

	symbol := composedSymbol(a, b, op)
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.derived[symbol]; ok {
		return u, nil
	}

	var dim *dimension.Dimension
	var factor float64
	var err error
	switch op {
	case OpMul:
		dim, err = a.Dim.Mul(b.Dim)
		factor = a.SIFactor * b.SIFactor
	case OpDiv:
		dim, err = a.Dim.Div(b.Dim)
		factor = a.SIFactor / b.SIFactor
	default:
		return nil, fmt.Errorf("unknown compose op %q", op)
	}
	if err != nil {
		return nil, err
	}

	u := &Unit{
		Name:     symbol,
		Symbol:   symbol,
		SIFactor: factor,
		Dim:      dim,
		derived:  true,
	}
	r.derived[symbol] = u
	return u, nil
}

// Pow builds the derived unit u^k, interned by canonical symbol.
// Pow(u, 0) is the dimensionless unit; Pow(u, 1) is u itself.
func (r *Registry) Pow(u *Unit, k int) (*Unit, error) {
	if k == 1 {
		return u, nil
	}
	if k == 0 {
		return r.SIUnitFor(dimension.Dimensionless)
	}
	if u.IsAffine() {
		return nil, &AffineComposeError{Symbol: u.Symbol}
	}

	symbol := powSymbol(u, k)
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.derived[symbol]; ok {
		return d, nil
	}

	dim, err := u.Dim.Pow(k)
	if err != nil {
		return nil, err
	}
	factor := 1.0
	for i := 0; i < abs(k); i++ {
		factor *= u.SIFactor
	}
	if k < 0 {
		factor = 1 / factor
	}

	d := &Unit{
		Name:     symbol,
		Symbol:   symbol,
		SIFactor: factor,
		Dim:      dim,
		derived:  true,
	}
	r.derived[symbol] = d
	return d, nil
}

// SIUnitFor returns the unit with SIFactor 1 and no offset for a dimension.
func (r *Registry) SIUnitFor(dim *dimension.Dimension) (*Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.siByDim[dim]
	if !ok {
		return nil, &NoUnitForDimensionError{Dim: dim}
	}
	return u, nil
}

// PreferredFor returns the preferred display unit for a dimension.
func (r *Registry) PreferredFor(dim *dimension.Dimension) (*Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.preferredByDim[dim]
	if !ok {
		return nil, &NoUnitForDimensionError{Dim: dim}
	}
	return u, nil
}

// SetPreferred overrides the preferred display unit for the unit's dimension.
func (r *Registry) SetPreferred(u *Unit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preferredByDim[u.Dim] = u
}

// List returns all canonical (non-derived) units sorted by symbol.
func (r *Registry) List() []*Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[*Unit]struct{})
	units := make([]*Unit, 0, len(r.bySymbol))
	for _, u := range r.bySymbol {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Symbol < units[j].Symbol })
	return units
}

func abs(k int) int {
	if k < 0 {
		return -k
	}
	return k
}

// Package-level helpers over the default registry.

// Resolve resolves against the default registry.
func Resolve(nameOrSymbol string) (*Unit, error) {
	return defaultRegistry.Resolve(nameOrSymbol)
}

// Register registers into the default registry.
func Register(u *Unit) error { return defaultRegistry.Register(u) }

// Compose composes in the default registry.
func Compose(a, b *Unit, op ComposeOp) (*Unit, error) {
	return defaultRegistry.Compose(a, b, op)
}

// Pow raises a unit to an integer power in the default registry.
func Pow(u *Unit, k int) (*Unit, error) { return defaultRegistry.Pow(u, k) }

// SIUnitFor queries the default registry.
func SIUnitFor(dim *dimension.Dimension) (*Unit, error) {
	return defaultRegistry.SIUnitFor(dim)
}

// PreferredFor queries the default registry.
func PreferredFor(dim *dimension.Dimension) (*Unit, error) {
	return defaultRegistry.PreferredFor(dim)
}

// Finalize freezes the default registry.
func Finalize() { defaultRegistry.Finalize() }

// List lists the default registry's canonical units.
func List() []*Unit { return defaultRegistry.List() }
