package features

import "math"

// rollingMean returns the mean of the trailing window values of hist.
// hist holds prior-week values only; an empty history returns 0, the
// neutral default for all history-derived features.
func rollingMean(hist []float64, window int) float64 {
	tail := trailing(hist, window)
	return mean(tail)
}

// rollingStd returns the population standard deviation of the trailing
// window values of hist. Fewer than two values yield 0.
func rollingStd(hist []float64, window int) float64 {
	tail := trailing(hist, window)
	if len(tail) < 2 {
		return 0
	}

	m := mean(tail)
	var ss float64
	for _, v := range tail {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(tail)))
}

// weekChange returns the change between the two most recent prior weeks.
func weekChange(hist []float64) float64 {
	if len(hist) < 2 {
		return 0
	}
	return hist[len(hist)-1] - hist[len(hist)-2]
}

// recentVsPrevious returns mean(last k prior weeks) − mean(the k weeks
// before those). Defined only when 2k prior weeks exist; otherwise 0.
func recentVsPrevious(hist []float64, k int) float64 {
	if len(hist) < 2*k {
		return 0
	}
	recent := hist[len(hist)-k:]
	previous := hist[len(hist)-2*k : len(hist)-k]
	return mean(recent) - mean(previous)
}

// trailing returns the last window values of hist, or all of hist if it
// is shorter than the window.
func trailing(hist []float64, window int) []float64 {
	if len(hist) <= window {
		return hist
	}
	return hist[len(hist)-window:]
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func meanAbs(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += math.Abs(v)
	}
	return sum / float64(len(vals))
}
