package pathmodelfit

import (
	"fmt"
	"strings"
)

// EquationKind classifies a model equation by its operator.
type EquationKind int

const (
	// KindMeasurement links a latent variable to its indicators (=~).
	KindMeasurement EquationKind = iota
	// KindCovariance declares a variance or covariance (~~).
	KindCovariance
	// KindStructural declares a regression path (~).
	KindStructural
)

// String returns the kind's name.
func (k EquationKind) String() string {
	switch k {
	case KindMeasurement:
		return "measurement"
	case KindCovariance:
		return "covariance"
	case KindStructural:
		return "structural"
	}
	return fmt.Sprintf("EquationKind(%d)", int(k))
}

// Operator returns the syntax operator for the kind.
func (k EquationKind) Operator() string {
	switch k {
	case KindMeasurement:
		return "=~"
	case KindCovariance:
		return "~~"
	case KindStructural:
		return "~"
	}
	return "?"
}

// Term is one right-hand-side entry of an equation, optionally carrying a
// premultiplier such as a fixed value ("0*x") or a label ("b1*x").
type Term struct {
	Modifier string
	Name     string
}

// String renders the term back into model syntax.
func (t Term) String() string {
	if t.Modifier != "" {
		return t.Modifier + "*" + t.Name
	}
	return t.Name
}

// Equation is a single parsed model equation. Raw preserves the source line
// it came from; derived equations synthesized by the package carry a
// canonical rendering instead.
type Equation struct {
	Raw   string
	Kind  EquationKind
	Left  string
	Right []Term
}

// String renders the equation in canonical form.
func (e Equation) String() string {
	parts := make([]string, len(e.Right))
	for i, t := range e.Right {
		parts[i] = t.String()
	}
	return e.Left + " " + e.Kind.Operator() + " " + strings.Join(parts, " + ")
}

// Model is an ordered, immutable list of parsed equations. Construct one
// with ParseModel; derived models come from Subset and the fitting pipeline.
type Model struct {
	equations []Equation
}

// operatorsByPriority resolves lines containing several candidate
// operators: =~ embeds ~, and ~~ embeds ~, so the longer operators must be
// probed first.
var operatorsByPriority = []EquationKind{KindMeasurement, KindCovariance, KindStructural}

// ParseModel parses lavaan-style model syntax into its equations. Equations
// are separated by newlines or semicolons, and # or ! starts a comment that
// runs to the end of the line.
func ParseModel(text string) (*Model, error) {
	var equations []Equation
	for _, line := range strings.Split(text, "\n") {
		line = stripComment(line)
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			eq, err := parseEquation(stmt)
			if err != nil {
				return nil, err
			}
			equations = append(equations, eq)
		}
	}
	if len(equations) == 0 {
		return nil, fmt.Errorf("%w: model syntax contains no equations", ErrInvalidInput)
	}
	return &Model{equations: equations}, nil
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, "#!"); i >= 0 {
		return line[:i]
	}
	return line
}

func parseEquation(stmt string) (Equation, error) {
	for _, kind := range operatorsByPriority {
		op := kind.Operator()
		i := strings.Index(stmt, op)
		if i < 0 {
			continue
		}
		left := strings.TrimSpace(stmt[:i])
		if left == "" {
			return Equation{}, fmt.Errorf("%w: equation %q has an empty left side", ErrInvalidInput, stmt)
		}
		if strings.ContainsAny(left, " \t+*~=") {
			return Equation{}, fmt.Errorf("%w: left side of %q must be a single variable", ErrInvalidInput, stmt)
		}
		right, err := parseTerms(stmt, stmt[i+len(op):])
		if err != nil {
			return Equation{}, err
		}
		return Equation{Raw: stmt, Kind: kind, Left: left, Right: right}, nil
	}
	return Equation{}, fmt.Errorf("%w: equation %q has no =~, ~~, or ~ operator", ErrInvalidInput, stmt)
}

func parseTerms(stmt, rhs string) ([]Term, error) {
	fields := strings.Split(rhs, "+")
	terms := make([]Term, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("%w: equation %q has an empty right-hand term", ErrInvalidInput, stmt)
		}
		term, err := parseTerm(stmt, field)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func parseTerm(stmt, field string) (Term, error) {
	mod, name, found := strings.Cut(field, "*")
	if !found {
		if strings.ContainsAny(field, " \t") {
			return Term{}, fmt.Errorf("%w: term %q in %q must be a single variable", ErrInvalidInput, field, stmt)
		}
		return Term{Name: field}, nil
	}
	mod = strings.TrimSpace(mod)
	name = strings.TrimSpace(name)
	if mod == "" || name == "" {
		return Term{}, fmt.Errorf("%w: term %q in %q has a dangling *", ErrInvalidInput, field, stmt)
	}
	if strings.Contains(name, "*") {
		return Term{}, fmt.Errorf("%w: term %q in %q has more than one modifier", ErrInvalidInput, field, stmt)
	}
	if strings.ContainsAny(name, " \t") {
		return Term{}, fmt.Errorf("%w: term %q in %q must name a single variable", ErrInvalidInput, field, stmt)
	}
	return Term{Modifier: mod, Name: name}, nil
}

// Equations returns a copy of the parsed equations in source order.
func (m *Model) Equations() []Equation {
	out := make([]Equation, len(m.equations))
	copy(out, m.equations)
	return out
}

// Len returns the number of equations.
func (m *Model) Len() int { return len(m.equations) }

// Count returns how many equations have the given kind.
func (m *Model) Count(kind EquationKind) int {
	n := 0
	for _, eq := range m.equations {
		if eq.Kind == kind {
			n++
		}
	}
	return n
}

// Subset returns a new Model holding only the equations of the given kinds,
// preserving source order.
func (m *Model) Subset(kinds ...EquationKind) *Model {
	keep := make(map[EquationKind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}
	var equations []Equation
	for _, eq := range m.equations {
		if keep[eq.Kind] {
			equations = append(equations, eq)
		}
	}
	return &Model{equations: equations}
}

// Text renders the model back into syntax, one canonical equation per line.
func (m *Model) Text() string {
	lines := make([]string, len(m.equations))
	for i, eq := range m.equations {
		lines[i] = eq.String()
	}
	return strings.Join(lines, "\n")
}

// LatentNames returns the latent variable names, in first-appearance order
// of their measurement equations.
func (m *Model) LatentNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, eq := range m.equations {
		if eq.Kind != KindMeasurement || seen[eq.Left] {
			continue
		}
		seen[eq.Left] = true
		names = append(names, eq.Left)
	}
	return names
}

// ObservedNames returns the indicator names appearing on the right-hand
// side of measurement equations, in first-appearance order.
func (m *Model) ObservedNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, eq := range m.equations {
		if eq.Kind != KindMeasurement {
			continue
		}
		for _, t := range eq.Right {
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			names = append(names, t.Name)
		}
	}
	return names
}
