package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pcroft/gridiron/internal/contracts"
)

// Record is one row from a raw source file: one player, one week, one side
// (actual or projected). Points carries TotalPoints for actual files and
// PlayerWeekProjectedPts for projection files.
type Record struct {
	Name     string
	Team     string
	Position string
	Opponent string
	Season   int
	Week     int
	Stats    map[string]float64
	Points   float64
}

// MaxWeeks is the number of regular-season weeks since 2021.
const MaxWeeks = 18

// Source file column names. Everything else in the header is treated as a
// discovered stat column, not a fixed contract.
const (
	colPlayerName = "PlayerName"
	colTeam       = "Team"
	colPosition   = "Pos"
	colOpponent   = "PlayerOpponent"
	colActualPts  = "TotalPoints"
	colProjPts    = "PlayerWeekProjectedPts"
)

// columnAliases maps raw source column names to canonical stat names.
var columnAliases = map[string]string{
	"RushingYDS":   "rushing_yards",
	"RushingTD":    "rushing_touchdowns",
	"ReceivingRec": "receptions",
	"ReceivingYDS": "receiving_yards",
	"ReceivingTD":  "receiving_touchdowns",
	"Fum":          "fumbles_lost",
	"TouchCarries": "carries",
	"Targets":      "targets",
	"PassingYDS":   "passing_yards",
	"PassingTD":    "passing_touchdowns",
	"PassingInt":   "interceptions",
}

// Loader reads per-season, per-week CSV files from the raw data root.
// Layout: <root>/<season>/<week>/<POS>.csv for actuals and
// <root>/<season>/<week>/projected/<POS>_projected.csv for projections.
type Loader struct {
	root string
	log  zerolog.Logger
}

// NewLoader creates a loader rooted at the raw data directory.
func NewLoader(root string, log zerolog.Logger) *Loader {
	return &Loader{
		root: root,
		log:  log.With().Str("component", "dataset.loader").Logger(),
	}
}

// ActualPath returns the path of the actual-performance file.
func (l *Loader) ActualPath(season, week int, pos string) string {
	return filepath.Join(l.root, strconv.Itoa(season), strconv.Itoa(week), pos+".csv")
}

// ProjectedPath returns the path of the projection file.
func (l *Loader) ProjectedPath(season, week int, pos string) string {
	return filepath.Join(l.root, strconv.Itoa(season), strconv.Itoa(week), "projected", pos+"_projected.csv")
}

// LoadWeek loads the actual and projected records for one season/week/position.
// A missing file yields a MissingDataError; the caller decides whether to
// skip the week or abort.
func (l *Loader) LoadWeek(season, week int, pos string) (actuals, projections []Record, err error) {
	actuals, err = l.parseFile(l.ActualPath(season, week, pos), season, week, pos, colActualPts)
	if err != nil {
		return nil, nil, err
	}

	projections, err = l.parseFile(l.ProjectedPath(season, week, pos), season, week, pos, colProjPts)
	if err != nil {
		return nil, nil, err
	}

	return actuals, projections, nil
}

// LoadSeason loads all available weeks of a season. Weeks with missing
// source files are skipped and logged; if no week loads at all, the season
// itself is reported missing. Schema errors abort immediately.
func (l *Loader) LoadSeason(season int, pos string) (actuals, projections []Record, err error) {
	seasonDir := filepath.Join(l.root, strconv.Itoa(season))
	if _, statErr := os.Stat(seasonDir); os.IsNotExist(statErr) {
		return nil, nil, &contracts.MissingDataError{Season: season, Path: seasonDir}
	}

	loaded := 0
	for week := 1; week <= MaxWeeks; week++ {
		a, p, weekErr := l.LoadWeek(season, week, pos)
		if weekErr != nil {
			var missing *contracts.MissingDataError
			if errors.As(weekErr, &missing) {
				l.log.Debug().
					Int("season", season).
					Int("week", week).
					Str("pos", pos).
					Msg("week skipped: source file absent")
				continue
			}
			return nil, nil, weekErr
		}

		actuals = append(actuals, a...)
		projections = append(projections, p...)
		loaded++
	}

	if loaded == 0 {
		return nil, nil, &contracts.MissingDataError{Season: season, Path: seasonDir}
	}

	l.log.Info().
		Int("season", season).
		Str("pos", pos).
		Int("weeks", loaded).
		Int("actual_rows", len(actuals)).
		Int("projected_rows", len(projections)).
		Msg("season loaded")

	return actuals, projections, nil
}

// parseFile reads one CSV file into records. The header is discovered per
// file; only the identity columns and the points column are required.
// Stat values that fail to parse coerce to 0; rows whose points value is
// absent or unparseable are dropped. Both rules apply consistently.
func (l *Loader) parseFile(path string, season, week int, pos, pointsCol string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &contracts.MissingDataError{Season: season, Week: week, Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // malformed rows pass through, handled per row

	header, err := r.Read()
	if err != nil {
		return nil, &contracts.SchemaError{Path: path, Column: "", Reason: "empty or unreadable header"}
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}

	for _, required := range []string{colPlayerName, colTeam, pointsCol} {
		if _, ok := idx[required]; !ok {
			return nil, &contracts.SchemaError{Path: path, Column: required, Reason: "required column absent"}
		}
	}

	var records []Record
	dropped := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Malformed quoting or similar. The reader resumes at the
			// next line, so only this row is lost.
			dropped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		name := field(row, idx[colPlayerName])
		team := field(row, idx[colTeam])
		if name == "" {
			dropped++
			continue
		}

		points, ok := parsePoints(field(row, idx[pointsCol]))
		if !ok {
			dropped++
			continue
		}

		rec := Record{
			Name:     name,
			Team:     team,
			Position: pos,
			Season:   season,
			Week:     week,
			Stats:    make(map[string]float64),
			Points:   points,
		}

		if i, ok := idx[colPosition]; ok {
			if v := field(row, i); v != "" {
				rec.Position = v
			}
		}
		if i, ok := idx[colOpponent]; ok {
			rec.Opponent = field(row, i)
		}

		for col, i := range idx {
			switch col {
			case colPlayerName, colTeam, colPosition, colOpponent, pointsCol:
				continue
			}
			rec.Stats[canonicalStatName(col)] = parseStat(field(row, i))
		}

		records = append(records, rec)
	}

	if dropped > 0 {
		l.log.Warn().
			Str("path", path).
			Int("dropped", dropped).
			Msg("unusable rows dropped")
	}

	return records, nil
}

// canonicalStatName maps a raw column name to its canonical snake_case form.
func canonicalStatName(col string) string {
	if alias, ok := columnAliases[col]; ok {
		return alias
	}
	return strings.ToLower(col)
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseStat coerces a stat value to float64, with 0 as the sentinel for
// anything non-numeric.
func parseStat(s string) float64 {
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parsePoints(s string) (float64, bool) {
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
