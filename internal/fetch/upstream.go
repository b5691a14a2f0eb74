package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pcroft/gridiron/internal/dataset"
	"github.com/pcroft/gridiron/pkg/httputil"
)

// Collector downloads weekly stat and projection CSVs from the upstream
// source into the local raw-data layout that dataset.Loader reads:
//
//	<root>/<season>/<week>/<POS>.csv
//	<root>/<season>/<week>/projected/<POS>_projected.csv
type Collector struct {
	client         *httputil.Client
	baseURL        string
	projectionsURL string // optional HTML fallback for missing projection CSVs
	root           string
	log            zerolog.Logger
}

func NewCollector(client *httputil.Client, baseURL, root string, log zerolog.Logger) *Collector {
	return &Collector{
		client:  client,
		baseURL: baseURL,
		root:    root,
		log:     log,
	}
}

// WithProjectionsFallback configures an HTML projections page to scrape
// when the upstream has no projections CSV for a week.
func (c *Collector) WithProjectionsFallback(url string) *Collector {
	c.projectionsURL = url
	return c
}

// WeekResult reports what a week's collection attempt found.
type WeekResult struct {
	Season  int
	Week    int
	Fetched bool // false when the upstream has no data for the week yet
}

// FetchWeek downloads the actual and projected CSVs for one
// position-week. A week the upstream does not have yet (404 on the
// actuals file) is not an error; it is reported as Fetched=false.
func (c *Collector) FetchWeek(ctx context.Context, pos string, season, week int) (WeekResult, error) {
	res := WeekResult{Season: season, Week: week}

	actualURL := fmt.Sprintf("%s/%d/%d/%s.csv", c.baseURL, season, week, pos)
	body, err := c.client.Get(ctx, actualURL)
	if errors.Is(err, httputil.ErrNotFound) {
		c.log.Debug().Int("season", season).Int("week", week).Msg("week not available upstream")
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("fetch %s: %w", actualURL, err)
	}

	weekDir := filepath.Join(c.root, fmt.Sprintf("%d", season), fmt.Sprintf("%d", week))
	if err := writeFile(filepath.Join(weekDir, pos+".csv"), body); err != nil {
		return res, err
	}

	projURL := fmt.Sprintf("%s/%d/%d/projected/%s_projected.csv", c.baseURL, season, week, pos)
	projBody, err := c.client.Get(ctx, projURL)
	if errors.Is(err, httputil.ErrNotFound) {
		projPath := filepath.Join(weekDir, "projected", pos+"_projected.csv")
		if c.projectionsURL != "" {
			projections, scrapeErr := c.ScrapeProjections(ctx, c.projectionsURL, pos)
			if scrapeErr == nil {
				if err := WriteProjectedCSV(projPath, pos, projections); err != nil {
					return res, err
				}
				res.Fetched = true
				return res, nil
			}
			c.log.Warn().Err(scrapeErr).Int("week", week).Msg("projections scrape failed")
		}
		// Actuals without projections still make a usable week for
		// reconciliation, so keep what we have.
		c.log.Warn().Int("season", season).Int("week", week).Msg("projections missing upstream")
		res.Fetched = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("fetch %s: %w", projURL, err)
	}
	if err := writeFile(filepath.Join(weekDir, "projected", pos+"_projected.csv"), projBody); err != nil {
		return res, err
	}

	res.Fetched = true
	c.log.Info().Int("season", season).Int("week", week).Str("position", pos).Msg("collected week")
	return res, nil
}

// FetchSeason collects every available week of a season. It walks weeks
// in order and stops at the first week the upstream does not have,
// returning the results for the weeks it fetched.
func (c *Collector) FetchSeason(ctx context.Context, pos string, season int) ([]WeekResult, error) {
	var results []WeekResult
	for week := 1; week <= dataset.MaxWeeks; week++ {
		res, err := c.FetchWeek(ctx, pos, season, week)
		if err != nil {
			return results, err
		}
		if !res.Fetched {
			break
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		c.log.Warn().Int("season", season).Msg("no weeks available upstream")
	}
	return results, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
