package problem

import "github.com/quantral/quantral/pkg/quantity"

// VariableState is one solved variable in a snapshot.
type VariableState struct {
	Symbol string
	Name   string
	Value  quantity.Quantity
}

// Snapshot is the immutable result of a successful solve: every variable
// with its value, in declaration order.
type Snapshot struct {
	Problem    string
	Iterations int

	states []VariableState
	bySym  map[string]int
}

func (p *Problem) snapshot(iterations int) *Snapshot {
	s := &Snapshot{
		Problem:    p.Name,
		Iterations: iterations,
		bySym:      make(map[string]int, len(p.order)),
	}
	for _, sym := range p.order {
		v := p.vars[sym]
		s.bySym[sym] = len(s.states)
		s.states = append(s.states, VariableState{Symbol: sym, Name: v.Name, Value: v.Value})
	}
	return s
}

// States returns the variables in declaration order.
func (s *Snapshot) States() []VariableState {
	return append([]VariableState(nil), s.states...)
}

// Get returns the value of a symbol.
func (s *Snapshot) Get(symbol string) (quantity.Quantity, bool) {
	i, ok := s.bySym[symbol]
	if !ok {
		return quantity.Quantity{}, false
	}
	return s.states[i].Value, true
}
