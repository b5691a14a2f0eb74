package fetch

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Projection is one row scraped from an HTML projections table.
type Projection struct {
	Name     string
	Team     string
	Position string
	Points   float64
}

// ScrapeProjections fetches an HTML projections page and parses the
// first table whose header carries a player column. Used as a fallback
// source for weeks where the upstream has no projections CSV.
func (c *Collector) ScrapeProjections(ctx context.Context, url, pos string) ([]Projection, error) {
	body, err := c.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch projections page: %w", err)
	}

	projections, err := parseProjectionsHTML(body, pos)
	if err != nil {
		return nil, fmt.Errorf("parse projections page %s: %w", url, err)
	}

	c.log.Info().Int("rows", len(projections)).Str("position", pos).Msg("scraped projections")
	return projections, nil
}

// parseProjectionsHTML extracts (player, team, points) rows from the
// page. The projections table is identified by a header row containing
// a "player" column; the points column is the last numeric header cell
// matching "fpts" or "points".
func parseProjectionsHTML(html []byte, pos string) ([]Projection, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	var projections []Projection
	found := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		playerCol, teamCol, pointsCol := projectionColumns(table)
		if playerCol < 0 || pointsCol < 0 {
			return true // not the projections table, keep looking
		}
		found = true

		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= pointsCol {
				return
			}

			name := strings.TrimSpace(cells.Eq(playerCol).Text())
			if name == "" {
				return
			}

			points, err := strconv.ParseFloat(strings.TrimSpace(cells.Eq(pointsCol).Text()), 64)
			if err != nil {
				return // header repeats and ad rows parse as text
			}

			team := ""
			if teamCol >= 0 && cells.Length() > teamCol {
				team = strings.TrimSpace(cells.Eq(teamCol).Text())
			}

			projections = append(projections, Projection{
				Name:     name,
				Team:     team,
				Position: pos,
				Points:   points,
			})
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("no projections table in page")
	}
	return projections, nil
}

// projectionColumns locates the player, team and points columns from
// the table's header row. Returns -1 for columns it cannot find.
func projectionColumns(table *goquery.Selection) (player, team, points int) {
	player, team, points = -1, -1, -1
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		switch h := strings.ToLower(strings.TrimSpace(th.Text())); {
		case strings.Contains(h, "player") || strings.Contains(h, "name"):
			if player < 0 {
				player = i
			}
		case h == "team" || h == "tm":
			if team < 0 {
				team = i
			}
		case strings.Contains(h, "fpts") || strings.Contains(h, "points") || h == "proj":
			points = i
		}
	})
	return player, team, points
}

// WriteProjectedCSV writes scraped projections in the same layout the
// upstream projected CSVs use, so dataset.Loader reads them unchanged.
func WriteProjectedCSV(path, pos string, projections []Projection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create projected dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"PlayerName", "Team", "Pos", "PlayerWeekProjectedPts"}); err != nil {
		return fmt.Errorf("write projected header: %w", err)
	}
	for _, p := range projections {
		record := []string{p.Name, p.Team, pos, strconv.FormatFloat(p.Points, 'f', 2, 64)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write projected row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
