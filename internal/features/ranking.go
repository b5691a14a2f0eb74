package features

import (
	"sort"

	"github.com/pcroft/gridiron/internal/contracts"
)

// AssignRanks computes, per season/week/position, each player's rank by
// actual points and by projected points, descending. Ties keep stable
// input order. Ranks are 1-based.
func AssignRanks(records []contracts.PlayerWeek) []contracts.PlayerWeek {
	out := make([]contracts.PlayerWeek, len(records))
	copy(out, records)

	type groupKey struct {
		Season   int
		Week     int
		Position string
	}

	groups := make(map[groupKey][]int)
	for i, pw := range out {
		k := groupKey{Season: pw.Season, Week: pw.Week, Position: pw.Position}
		groups[k] = append(groups[k], i)
	}

	for _, idxs := range groups {
		rank(out, idxs, func(pw contracts.PlayerWeek) float64 { return pw.ActualPoints },
			func(pw *contracts.PlayerWeek, r int) { pw.ActualRank = r })
		rank(out, idxs, func(pw contracts.PlayerWeek) float64 { return pw.ProjectedPoints },
			func(pw *contracts.PlayerWeek, r int) { pw.ProjectedRank = r })
	}

	return out
}

func rank(rows []contracts.PlayerWeek, idxs []int, points func(contracts.PlayerWeek) float64, set func(*contracts.PlayerWeek, int)) {
	order := make([]int, len(idxs))
	copy(order, idxs)

	sort.SliceStable(order, func(a, b int) bool {
		return points(rows[order[a]]) > points(rows[order[b]])
	})

	for r, i := range order {
		set(&rows[i], r+1)
	}
}
