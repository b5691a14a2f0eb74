package predict

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pcroft/gridiron/internal/contracts"
)

// Recommendation labels a prediction for lineup decisions.
type Recommendation string

const (
	StrongStart      Recommendation = "STRONG START"
	ConsiderStart    Recommendation = "CONSIDER STARTING"
	Avoid            Recommendation = "AVOID"
	ConsiderBenching Recommendation = "CONSIDER BENCHING"
)

// Recommend maps a prediction to a lineup recommendation. Over-perform
// calls split at 70% probability; under-perform calls split at 70%
// probability of the negative class (i.e. P(over) < 0.3).
func Recommend(p contracts.Prediction) Recommendation {
	if p.Class == 1 {
		if p.Probability >= 0.7 {
			return StrongStart
		}
		return ConsiderStart
	}
	if p.Probability < 0.3 {
		return Avoid
	}
	return ConsiderBenching
}

// Confidence buckets the probability mass behind the predicted class.
func Confidence(p contracts.Prediction) string {
	prob := p.Probability
	if p.Class == 0 {
		prob = 1 - prob
	}
	switch {
	case prob >= 0.8:
		return "HIGH"
	case prob >= 0.6:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Report is a week's worth of predictions formatted for humans.
type Report struct {
	Season      int
	Week        int
	Predictions []contracts.Prediction
	GeneratedAt time.Time
}

// NewReport sorts the predictions by over-perform probability descending
// and wraps them for rendering.
func NewReport(season, week int, preds []contracts.Prediction) *Report {
	sorted := make([]contracts.Prediction, len(preds))
	copy(sorted, preds)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Probability > sorted[b].Probability
	})
	return &Report{
		Season:      season,
		Week:        week,
		Predictions: sorted,
		GeneratedAt: time.Now().UTC(),
	}
}

// Render formats the report as plain text: summary counts, one section
// per recommendation bucket, then the full probability-ordered ranking.
func (r *Report) Render() string {
	var b strings.Builder
	rule := strings.Repeat("=", 78)
	thin := strings.Repeat("-", 40)

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "WEEKLY LINEUP REPORT - WEEK %d, %d\n", r.Week, r.Season)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Players:   %d\n\n", len(r.Predictions))

	over := 0
	var probSum float64
	for _, p := range r.Predictions {
		over += p.Class
		probSum += p.Probability
	}
	fmt.Fprintln(&b, "SUMMARY")
	fmt.Fprintln(&b, thin)
	fmt.Fprintf(&b, "Over-perform:  %d\n", over)
	fmt.Fprintf(&b, "Under-perform: %d\n", len(r.Predictions)-over)
	if len(r.Predictions) > 0 {
		fmt.Fprintf(&b, "Mean P(over):  %.1f%%\n", 100*probSum/float64(len(r.Predictions)))
	}
	fmt.Fprintln(&b)

	for _, bucket := range []Recommendation{StrongStart, ConsiderStart, Avoid, ConsiderBenching} {
		var hits []contracts.Prediction
		for _, p := range r.Predictions {
			if Recommend(p) == bucket {
				hits = append(hits, p)
			}
		}
		if len(hits) == 0 {
			continue
		}
		fmt.Fprintln(&b, string(bucket))
		fmt.Fprintln(&b, thin)
		for _, p := range hits {
			fmt.Fprintf(&b, "  %-22s proj %5.1f | P(over) %5.1f%% | %s\n",
				p.Name, p.Projected, 100*p.Probability, Confidence(p))
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, "FULL RANKING (by over-perform probability)")
	fmt.Fprintln(&b, thin)
	fmt.Fprintf(&b, "%-4s %-22s %-10s %-10s %-8s %s\n",
		"Rank", "Player", "Proj", "P(over)", "Conf", "Recommendation")
	for i, p := range r.Predictions {
		fmt.Fprintf(&b, "%-4d %-22s %-10.1f %-9.1f%% %-8s %s\n",
			i+1, p.Name, p.Projected, 100*p.Probability, Confidence(p), Recommend(p))
	}
	fmt.Fprintln(&b, rule)

	return b.String()
}

// WriteCSV exports the sorted predictions for downstream tooling.
func (r *Report) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"name", "team", "position", "season", "week",
		"projected", "class", "probability", "confidence", "recommendation", "model_hash"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, p := range r.Predictions {
		record := []string{
			p.Name, p.Team, p.Position,
			strconv.Itoa(p.Season), strconv.Itoa(p.Week),
			strconv.FormatFloat(p.Projected, 'f', 2, 64),
			strconv.Itoa(p.Class),
			strconv.FormatFloat(p.Probability, 'f', 4, 64),
			Confidence(p), string(Recommend(p)), p.ModelHash,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
