package pathmodelfit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fittedTableFixture() *ParameterTable {
	return NewParameterTable([]ParameterRow{
		{Lhs: "f", Op: "=~", Rhs: "x1", Free: 0, Value: 1},
		{Lhs: "f", Op: "=~", Rhs: "x2", Free: 1, Value: 0.82},
		{Lhs: "g", Op: "=~", Rhs: "x3", Free: 0, Value: 1},
		{Lhs: "g", Op: "=~", Rhs: "x4", Free: 2, Value: 0.91},
		{Lhs: "y", Op: "~", Rhs: "f", Free: 3, Value: 0.40, Label: "b1"},
		{Lhs: "y", Op: "~", Rhs: "g", Free: 4, Value: 0.25},
		{Lhs: "f", Op: "~~", Rhs: "g", Free: 5, Value: 0.33},
		{Lhs: "x1", Op: "~~", Rhs: "x1", Free: 6, Value: 0.51},
	})
}

func TestNullStructuralTable(t *testing.T) {
	t.Parallel()

	original := fittedTableFixture()
	derived := nullStructuralTable(original)

	// Free-parameter count drops by exactly the number of structural rows.
	structural := original.CountOp("~")
	assert.Equal(t, 2, structural)
	assert.Equal(t, original.FreeCount()-structural, derived.FreeCount())

	rows := derived.Rows()
	require.Len(t, rows, original.Len())
	for _, r := range rows {
		if r.Op == "~" {
			assert.True(t, r.Fixed(), "structural row %s~%s must be fixed", r.Lhs, r.Rhs)
			assert.Zero(t, r.Value, "structural row %s~%s must be pinned at zero", r.Lhs, r.Rhs)
		}
	}

	// Non-structural rows keep their free/fixed status untouched.
	assert.Equal(t, 1, rows[1].Free)
	assert.Equal(t, 0.82, rows[1].Value)
	assert.Equal(t, 5, rows[6].Free)
	assert.Equal(t, "b1", rows[4].Label)
}

func TestNullStructuralTable_DoesNotAliasOriginal(t *testing.T) {
	t.Parallel()

	original := fittedTableFixture()
	before := original.Rows()

	_ = nullStructuralTable(original)
	if diff := cmp.Diff(before, original.Rows()); diff != "" {
		t.Errorf("original table changed (-want +got):\n%s", diff)
	}
}

// A structural parameter the user already fixed still ends up pinned at
// zero, not at its old fixed value.
func TestNullStructuralTable_RefixesFixedPaths(t *testing.T) {
	t.Parallel()

	table := NewParameterTable([]ParameterRow{
		{Lhs: "y", Op: "~", Rhs: "f", Free: 0, Value: 0.5},
	})
	rows := nullStructuralTable(table).Rows()
	assert.Zero(t, rows[0].Value)
	assert.True(t, rows[0].Fixed())
}

func TestSaturatedStructuralModel(t *testing.T) {
	t.Parallel()

	m, err := ParseModel(mediationSyntax)
	require.NoError(t, err)

	sat := saturatedStructuralModel(m)
	assert.Equal(t, 4, sat.Len())
	assert.Equal(t, 0, sat.Count(KindStructural))
	assert.Equal(t, []string{"Ldrrew", "Jobcom", "Jobsat", "Orgcom"}, sat.LatentNames())
}

func TestLatentStructuralModel(t *testing.T) {
	t.Parallel()

	m, err := ParseModel(mediationSyntax)
	require.NoError(t, err)

	latent := latentStructuralModel(m)
	require.Equal(t, 2, latent.Len())
	assert.Equal(t, "Jobsat ~ Ldrrew + Jobcom\nOrgcom ~ Jobsat", latent.Text())
}

// A model with no structural equations degenerates: nothing gets fixed and
// nothing gets dropped. The builders pass it through rather than erroring.
func TestNestedBuilders_NoStructuralEquations(t *testing.T) {
	t.Parallel()

	m, err := ParseModel("f =~ x1 + x2\ng =~ x3 + x4\nf ~~ g")
	require.NoError(t, err)

	table := NewParameterTable([]ParameterRow{
		{Lhs: "f", Op: "=~", Rhs: "x2", Free: 1, Value: 0.8},
		{Lhs: "f", Op: "~~", Rhs: "g", Free: 2, Value: 0.4},
	})
	assert.Equal(t, table.FreeCount(), nullStructuralTable(table).FreeCount())
	assert.Equal(t, m.Len(), saturatedStructuralModel(m).Len())
	assert.Equal(t, 0, latentStructuralModel(m).Len())
}
