package pathmodelfit

// ParameterRow is one parameter of a fitted model, tagged with the operator
// of the equation it came from. Free is the engine's free-parameter index;
// zero means the parameter is fixed at Value.
type ParameterRow struct {
	Lhs   string
	Op    string
	Rhs   string
	Free  int
	Value float64
	Label string
}

// Fixed reports whether the row is held at Value rather than estimated.
func (r ParameterRow) Fixed() bool { return r.Free == 0 }

// ParameterTable is an immutable snapshot of a model's free/fixed parameter
// set, in engine row order.
type ParameterTable struct {
	rows []ParameterRow
}

// NewParameterTable copies the given rows into a table.
func NewParameterTable(rows []ParameterRow) *ParameterTable {
	copied := make([]ParameterRow, len(rows))
	copy(copied, rows)
	return &ParameterTable{rows: copied}
}

// Rows returns a copy of the table's rows.
func (t *ParameterTable) Rows() []ParameterRow {
	out := make([]ParameterRow, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len returns the number of rows.
func (t *ParameterTable) Len() int { return len(t.rows) }

// FreeCount returns the number of freely estimated parameters.
func (t *ParameterTable) FreeCount() int {
	n := 0
	for _, r := range t.rows {
		if !r.Fixed() {
			n++
		}
	}
	return n
}

// CountOp returns the number of rows whose equation operator is op.
func (t *ParameterTable) CountOp(op string) int {
	n := 0
	for _, r := range t.rows {
		if r.Op == op {
			n++
		}
	}
	return n
}
