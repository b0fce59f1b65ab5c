package expr

import "fmt"

// OptionSet is a closed set of categorical options (e.g. bolt grades,
// section shapes). Options are identified by pointer: two sets never
// share an option, which is what makes Match's identity lookup sound.
type OptionSet struct {
	Name    string
	options []*Option
	byValue map[string]*Option
}

// NewOptionSet creates a set with the given option values.
func NewOptionSet(name string, values ...string) *OptionSet {
	s := &OptionSet{Name: name, byValue: make(map[string]*Option, len(values))}
	for _, v := range values {
		o := &Option{set: s, Value: v}
		s.options = append(s.options, o)
		s.byValue[v] = o
	}
	return s
}

// Option looks up an option by value.
func (s *OptionSet) Option(value string) (*Option, bool) {
	o, ok := s.byValue[value]
	return o, ok
}

// Options returns the options in declaration order.
func (s *OptionSet) Options() []*Option { return s.options }

// Option is one member of an OptionSet.
type Option struct {
	set   *OptionSet
	Value string
}

// Set returns the owning option set.
func (o *Option) Set() *OptionSet { return o.set }

func (o *Option) String() string { return o.Value }

// OptionVar is a selectable categorical input. Its selection is the one
// place in the expression layer that is set rather than computed; an
// unselected OptionVar makes every Match over it Unresolved.
type OptionVar struct {
	Name     string
	set      *OptionSet
	selected *Option
}

// NewOptionVar creates an unselected variable over a set.
func NewOptionVar(name string, set *OptionSet) *OptionVar {
	return &OptionVar{Name: name, set: set}
}

// Set returns the variable's option set.
func (v *OptionVar) Set() *OptionSet { return v.set }

// Selected returns the current selection, nil when unselected.
func (v *OptionVar) Selected() *Option { return v.selected }

// Select chooses an option by value. Selecting a value outside the set
// fails so a typo cannot silently leave the variable unselected.
func (v *OptionVar) Select(value string) error {
	o, ok := v.set.Option(value)
	if !ok {
		return fmt.Errorf("option %q not in set %q", value, v.set.Name)
	}
	v.selected = o
	return nil
}

// Clear removes the selection.
func (v *OptionVar) Clear() { v.selected = nil }
