// Package worksheet loads calculation worksheets from YAML files and
// builds solvable problems from them.
//
// A worksheet names its inputs, unknowns, and equations, and may attach
// other worksheets as prefixed subproblems:
//
//	name: Pipe wall thickness
//	inputs:
//	  P: 1200{psi}
//	  D:
//	    value: 6
//	    unit: in
//	    name: Outside diameter
//	  E: 0.85
//	unknowns:
//	  T: Required wall thickness
//	equations:
//	  t: P*D / (2*(S*E + P*0.4))
//	  T: t / (1 - U_m)
//	subproblems:
//	  branch: branch.yaml
//
// Equations are kept in declaration order, which the solver does not
// depend on but readers of the output do.
package worksheet

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quantral/quantral/pkg/expr"
	"github.com/quantral/quantral/pkg/parser"
	"github.com/quantral/quantral/pkg/problem"
	"github.com/quantral/quantral/pkg/quantity"
)

// Input is a named input value.
type Input struct {
	Symbol string
	Name   string
	Value  quantity.Quantity
}

// Unknown is a variable the solver should determine.
type Unknown struct {
	Symbol string
	Name   string
}

// EquationDecl pairs a target symbol with its parsed right-hand side.
type EquationDecl struct {
	Target string
	Source string
	RHS    expr.Expr
}

// SubproblemDecl attaches another worksheet under a prefix.
type SubproblemDecl struct {
	Prefix string
	Path   string
}

// Worksheet is a parsed worksheet file.
type Worksheet struct {
	Name        string
	Inputs      []Input
	Unknowns    []Unknown
	Equations   []EquationDecl
	Subproblems []SubproblemDecl

	dir string
}

// Error reports a problem in a worksheet file with its location.
type Error struct {
	File    string
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Load reads and parses the worksheet at path.
func Load(path string) (*Worksheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}
	return Parse(data, path)
}

// Parse parses worksheet YAML. The path is used for error reporting and
// to resolve subproblem references.
func Parse(data []byte, path string) (*Worksheet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{File: path, Message: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &Error{File: path, Message: "empty worksheet"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &Error{File: path, Line: root.Line, Message: "worksheet must be a mapping"}
	}

	ws := &Worksheet{dir: filepath.Dir(path)}
	errf := func(n *yaml.Node, format string, args ...any) error {
		return &Error{File: path, Line: n.Line, Message: fmt.Sprintf(format, args...)}
	}

	for i := 0; i < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			ws.Name = val.Value
		case "inputs":
			if err := ws.parseInputs(val, errf); err != nil {
				return nil, err
			}
		case "unknowns":
			if err := ws.parseUnknowns(val, errf); err != nil {
				return nil, err
			}
		case "equations":
			if err := ws.parseEquations(val, errf); err != nil {
				return nil, err
			}
		case "subproblems":
			if err := ws.parseSubproblems(val, errf); err != nil {
				return nil, err
			}
		default:
			return nil, errf(key, "unknown worksheet section %q", key.Value)
		}
	}
	return ws, nil
}

type errFunc func(n *yaml.Node, format string, args ...any) error

func (ws *Worksheet) parseInputs(node *yaml.Node, errf errFunc) error {
	if node.Kind != yaml.MappingNode {
		return errf(node, "inputs must be a mapping of symbol to value")
	}
	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		in := Input{Symbol: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			q, err := ParseQuantity(val.Value)
			if err != nil {
				return errf(val, "input %s: %v", key.Value, err)
			}
			in.Value = q
		case yaml.MappingNode:
			var spec struct {
				Value float64 `yaml:"value"`
				Unit  string  `yaml:"unit"`
				Name  string  `yaml:"name"`
			}
			if err := val.Decode(&spec); err != nil {
				return errf(val, "input %s: %v", key.Value, err)
			}
			if spec.Unit == "" {
				in.Value = quantity.Dimensionless(spec.Value)
			} else {
				q, err := quantity.New(spec.Value, spec.Unit)
				if err != nil {
					return errf(val, "input %s: %v", key.Value, err)
				}
				in.Value = q
			}
			in.Name = spec.Name
		default:
			return errf(val, "input %s must be a scalar or a mapping", key.Value)
		}
		ws.Inputs = append(ws.Inputs, in)
	}
	return nil
}

// ParseQuantity parses a scalar value as either a bare number or an
// expression literal like "1200{psi}".
func ParseQuantity(s string) (quantity.Quantity, error) {
	e, err := parser.Parse(s)
	if err != nil {
		return quantity.Quantity{}, err
	}
	res, err := expr.Evaluate(e, expr.MapBindings{})
	if err != nil {
		return quantity.Quantity{}, err
	}
	if !res.Resolved {
		return quantity.Quantity{}, fmt.Errorf("value must be a constant")
	}
	return res.Quantity, nil
}

func (ws *Worksheet) parseUnknowns(node *yaml.Node, errf errFunc) error {
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			ws.Unknowns = append(ws.Unknowns, Unknown{Symbol: item.Value})
		}
	case yaml.MappingNode:
		for i := 0; i < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			ws.Unknowns = append(ws.Unknowns, Unknown{Symbol: key.Value, Name: val.Value})
		}
	default:
		return errf(node, "unknowns must be a list of symbols or a symbol-to-name mapping")
	}
	return nil
}

func (ws *Worksheet) parseEquations(node *yaml.Node, errf errFunc) error {
	if node.Kind != yaml.MappingNode {
		return errf(node, "equations must be a mapping of target to expression")
	}
	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return errf(val, "equation %s must be an expression string", key.Value)
		}
		rhs, err := parser.Parse(val.Value)
		if err != nil {
			return errf(val, "equation %s: %v", key.Value, err)
		}
		ws.Equations = append(ws.Equations, EquationDecl{
			Target: key.Value,
			Source: val.Value,
			RHS:    rhs,
		})
	}
	return nil
}

func (ws *Worksheet) parseSubproblems(node *yaml.Node, errf errFunc) error {
	if node.Kind != yaml.MappingNode {
		return errf(node, "subproblems must be a mapping of prefix to path")
	}
	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		ws.Subproblems = append(ws.Subproblems, SubproblemDecl{
			Prefix: key.Value,
			Path:   val.Value,
		})
	}
	return nil
}

// Build constructs the problem described by the worksheet, loading and
// attaching any subproblem worksheets.
func (ws *Worksheet) Build() (*problem.Problem, error) {
	return ws.build(map[string]bool{})
}

func (ws *Worksheet) build(loading map[string]bool) (*problem.Problem, error) {
	p := problem.New(ws.Name)

	for _, in := range ws.Inputs {
		if err := p.Define(in.Symbol, in.Name, in.Value); err != nil {
			return nil, err
		}
	}
	for _, u := range ws.Unknowns {
		if err := p.DefineUnknown(u.Symbol, u.Name); err != nil {
			return nil, err
		}
	}

	for _, sub := range ws.Subproblems {
		path := sub.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(ws.dir, path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		if loading[abs] {
			return nil, fmt.Errorf("worksheet cycle through %s", sub.Path)
		}
		loading[abs] = true
		child, err := Load(path)
		if err != nil {
			return nil, err
		}
		cp, err := child.build(loading)
		if err != nil {
			return nil, err
		}
		delete(loading, abs)
		if _, err := p.Attach(cp, sub.Prefix); err != nil {
			return nil, err
		}
	}

	// Equation targets with no input or unknown declaration become
	// unknowns implicitly, in the order they first appear.
	for _, eq := range ws.Equations {
		if _, err := p.Var(eq.Target); err != nil {
			if err := p.DefineUnknown(eq.Target, ""); err != nil {
				return nil, err
			}
		}
		p.Equate(eq.Target, eq.RHS)
	}
	return p, nil
}
