package features

import "github.com/pcroft/gridiron/internal/contracts"

// AssignLabels derives the binary training target for each engineered row:
// 1 iff actual fantasy points strictly exceed projected points. An exact
// tie labels 0, since equaling the projection is not over-performing.
//
// The merger's inner join guarantees both point values are present on
// every row that reaches labeling.
func AssignLabels(rows []contracts.FeatureRow) []contracts.LabeledRow {
	labeled := make([]contracts.LabeledRow, 0, len(rows))
	for _, r := range rows {
		label := 0
		if r.ActualPoints > r.ProjectedPoints {
			label = 1
		}

		labeled = append(labeled, contracts.LabeledRow{
			FeatureRow:      r,
			Label:           label,
			PerformanceDiff: r.ActualPoints - r.ProjectedPoints,
		})
	}
	return labeled
}
