package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// Sample RB pool for generated fixtures and smoke runs.
var sampleNames = []string{
	"Christian McCaffrey", "Saquon Barkley", "Derrick Henry", "Nick Chubb",
	"Austin Ekeler", "Dalvin Cook", "Alvin Kamara", "Joe Mixon",
	"Josh Jacobs", "Miles Sanders", "Rhamondre Stevenson", "Tony Pollard",
	"Breece Hall", "Kenneth Walker", "Dameon Pierce", "Travis Etienne",
	"Jamaal Williams", "David Montgomery", "Aaron Jones", "AJ Dillon",
	"Ezekiel Elliott", "James Conner", "Cam Akers", "D'Andre Swift",
	"Raheem Mostert", "Kareem Hunt", "James Robinson", "Devin Singletary",
	"Rachaad White", "Tyler Allgeier", "Brian Robinson", "Isiah Pacheco",
}

var sampleTeams = []string{"SF", "NYG", "TEN", "CLE", "LAC", "MIN", "NO", "CIN", "LV", "PHI"}

// GenerateSample writes a deterministic synthetic RB dataset into the raw
// data root using the upstream file layout. Intended for fixtures and
// end-to-end smoke runs when no real data has been collected yet.
func GenerateSample(root string, seasons []int, weeks int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	for _, season := range seasons {
		for week := 1; week <= weeks; week++ {
			if err := writeSampleWeek(root, season, week, rng); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeSampleWeek(root string, season, week int, rng *rand.Rand) error {
	weekDir := filepath.Join(root, strconv.Itoa(season), strconv.Itoa(week))
	if err := os.MkdirAll(filepath.Join(weekDir, "projected"), 0o755); err != nil {
		return err
	}

	actualRows := [][]string{{
		"PlayerName", "Team", "Pos", "PlayerOpponent",
		"TouchCarries", "RushingYDS", "RushingTD",
		"ReceivingRec", "ReceivingYDS", "ReceivingTD", "Fum", "TotalPoints",
	}}
	projRows := [][]string{{
		"PlayerName", "Team", "Pos", "PlayerOpponent", "PlayerWeekProjectedPts",
	}}

	for i, name := range sampleNames {
		team := sampleTeams[i%len(sampleTeams)]
		opponent := sampleTeams[(i+1)%len(sampleTeams)]

		carries := poisson(rng, 14)
		rushYards := math.Max(0, rng.NormFloat64()*30+70)
		rushTDs := poisson(rng, 0.5)
		receptions := poisson(rng, 2.5)
		recYards := math.Max(0, rng.NormFloat64()*15+20)
		recTDs := poisson(rng, 0.2)
		fumbles := poisson(rng, 0.1)

		// Standard scoring.
		points := rushYards*0.1 + float64(rushTDs)*6 +
			float64(receptions)*1 + recYards*0.1 + float64(recTDs)*6 -
			float64(fumbles)*2

		projection := math.Max(0, points+rng.NormFloat64()*3)

		actualRows = append(actualRows, []string{
			name, team, "RB", opponent,
			strconv.Itoa(carries),
			fmt.Sprintf("%.0f", rushYards),
			strconv.Itoa(rushTDs),
			strconv.Itoa(receptions),
			fmt.Sprintf("%.0f", recYards),
			strconv.Itoa(recTDs),
			strconv.Itoa(fumbles),
			fmt.Sprintf("%.2f", points),
		})
		projRows = append(projRows, []string{
			name, team, "RB", opponent, fmt.Sprintf("%.2f", projection),
		})
	}

	if err := writeCSV(filepath.Join(weekDir, "RB.csv"), actualRows); err != nil {
		return err
	}
	return writeCSV(filepath.Join(weekDir, "projected", "RB_projected.csv"), projRows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// poisson draws a Poisson-distributed count via Knuth's method. Fine for
// the small lambdas used here.
func poisson(rng *rand.Rand, lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
