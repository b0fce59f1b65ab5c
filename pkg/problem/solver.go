package problem

import (
	"log/slog"
	"sort"

	"github.com/quantral/quantral/pkg/expr"
)

// DefaultMaxIterations bounds the relaxation loop. Each pass can resolve
// at least one variable or the loop stops, so the bound only matters for
// pathologically deep chains.
const DefaultMaxIterations = 100

// SolveOptions configures a solve run.
type SolveOptions struct {
	// MaxIterations caps relaxation passes; 0 means DefaultMaxIterations.
	MaxIterations int

	// StrictRange makes a RangeSelect with no match and no otherwise an
	// error instead of leaving the target unresolved.
	StrictRange bool

	// Logger receives per-pass progress at debug level; nil discards.
	Logger *slog.Logger
}

// Solve relaxes the problem to a fixed point. Each pass evaluates every
// equation whose target is still unknown; a resolved evaluation fills
// the target. The loop stops when a full pass makes no progress, the
// iteration cap is reached, or every variable is known. Variables left
// unknown produce an UnsolvableError naming the root blockers.
func (p *Problem) Solve(opts SolveOptions) (*Snapshot, error) {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, eq := range p.eqs {
		if _, ok := p.vars[eq.Target]; !ok {
			return nil, &UnknownTargetError{Target: eq.Target}
		}
	}

	var evalOpts []expr.EvalOption
	if opts.StrictRange {
		evalOpts = append(evalOpts, expr.WithStrictRange())
	}

	iterations := 0
	for iterations < maxIter {
		iterations++
		progress := false

		for _, eq := range p.eqs {
			target := p.vars[eq.Target]
			if target.Known() {
				continue
			}

			// Fresh evaluator per equation: the table mutates within a
			// pass, and the memo must not outlive those writes.
			r, err := expr.NewEvaluator(p, evalOpts...).Eval(eq.RHS)
			if err != nil {
				return nil, &EquationError{Target: eq.Target, Err: err}
			}
			if !r.Resolved {
				continue
			}

			target.Value = r.Quantity
			progress = true
			logger.Debug("resolved variable",
				"problem", p.Name, "symbol", eq.Target, "value", r.Quantity.String(),
				"pass", iterations)
		}

		if !progress || p.allKnown() {
			break
		}
	}

	if blocked := p.blocked(); len(blocked) > 0 {
		return nil, &UnsolvableError{Blocked: blocked, Iterations: iterations}
	}
	return p.snapshot(iterations), nil
}

func (p *Problem) allKnown() bool {
	for _, v := range p.vars {
		if !v.Known() {
			return false
		}
	}
	return true
}

// blocked builds the diagnostic list of undetermined variables using the
// dependency graph: for each one, the root unknowns starving it.
func (p *Problem) blocked() []Blocked {
	var blockedSyms []string
	for sym, v := range p.vars {
		if !v.Known() {
			blockedSyms = append(blockedSyms, sym)
		}
	}
	if len(blockedSyms) == 0 {
		return nil
	}
	sort.Strings(blockedSyms)

	g := p.dependencyGraph()
	isBlocked := func(sym string) bool {
		v, ok := p.vars[sym]
		return ok && !v.Known()
	}

	out := make([]Blocked, 0, len(blockedSyms))
	for _, sym := range blockedSyms {
		b := Blocked{Symbol: sym}
		if len(g.parents[sym]) == 0 {
			b.NoEquation = true
		} else {
			roots := g.rootBlockers(sym, isBlocked)
			for _, r := range roots {
				if r != sym {
					b.MissingInputs = append(b.MissingInputs, r)
				}
			}
			if len(b.MissingInputs) == 0 {
				// Self-starving: its own equations wait on it.
				b.MissingInputs = roots
			}
		}
		out = append(out, b)
	}
	return out
}

// dependencyGraph builds the input → target graph over all equations.
func (p *Problem) dependencyGraph() *depGraph {
	g := newDepGraph()
	for sym := range p.vars {
		g.addNode(sym)
	}
	for _, eq := range p.eqs {
		for _, in := range expr.Vars(eq.RHS) {
			g.addEdge(in, eq.Target)
		}
	}
	return g
}
