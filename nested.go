package pathmodelfit

// The three derived specifications are pure transformations of the original
// fit: no estimation happens here.

// nullStructuralTable returns a copy of the original parameter table with
// every structural (regression) parameter removed from the free set and
// fixed at zero. Measurement and covariance rows keep their free/fixed
// status; their prior estimates are discarded by the refit, not reused.
func nullStructuralTable(t *ParameterTable) *ParameterTable {
	op := KindStructural.Operator()
	rows := t.Rows()
	for i := range rows {
		if rows[i].Op == op {
			rows[i].Free = 0
			rows[i].Value = 0
		}
	}
	return NewParameterTable(rows)
}

// saturatedStructuralModel keeps only the measurement and covariance
// equations, leaving every latent covariance free. Dropping the structural
// equations saturates the structural part while preserving the measurement
// structure.
func saturatedStructuralModel(m *Model) *Model {
	return m.Subset(KindMeasurement, KindCovariance)
}

// latentStructuralModel keeps only the structural equations. The caller
// fits it against the implied latent covariance matrix of the
// saturated-structural solution, not against the sample matrix, so the
// paths are tested under error-free measurement.
func latentStructuralModel(m *Model) *Model {
	return m.Subset(KindStructural)
}
