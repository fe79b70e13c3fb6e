// internal/amplitude/extrema.go
// Package amplitude implements peak-trough amplitude measurement: locating the
// extrema that flank an analyst pick, building the raw measurement value,
// normalizing it through an instrument response curve, and flagging picks
// that fall outside the acceptable measurement window.
//
// Every function in this package is pure and synchronous. Values built here
// are safe to share between goroutines.
package amplitude

// Extremum is a located sample within a sample window.
type Extremum struct {
	Index int     `json:"index" yaml:"index"`
	Value float64 `json:"value" yaml:"value"`
}

// ExtremaPair holds the trough (Min) and peak (Max) candidates around a pick.
type ExtremaPair struct {
	Min Extremum `json:"min" yaml:"min"`
	Max Extremum `json:"max" yaml:"max"`
}

// scanDirection is the extremum type a run is hunting for.
type scanDirection int

const (
	huntingMinimum scanDirection = iota
	huntingMaximum
)

// Locate finds the flanking minimum and maximum samples around seedIndex.
//
// The window is split into a left run (seedIndex down to 0) and a right run
// (seedIndex up to the last sample). Each run is scanned away from the seed
// until the signal turns back against the direction it first moved in, which
// yields a hunted extremum plus the opposite extremum seen on the way. The
// four candidates are merged into a global min and max, ties going to the
// sample farther from the seed.
//
// A negative or out-of-range seed, or an empty window, returns the zero
// ExtremaPair. Locate never panics; a drag gesture must not be interrupted.
func Locate(seedIndex int, samples []float64) ExtremaPair {
	if seedIndex < 0 || seedIndex >= len(samples) {
		return ExtremaPair{}
	}

	left := make([]Extremum, 0, seedIndex+1)
	for i := seedIndex; i >= 0; i-- {
		left = append(left, Extremum{Index: i, Value: samples[i]})
	}
	right := make([]Extremum, 0, len(samples)-seedIndex)
	for i := seedIndex; i < len(samples); i++ {
		right = append(right, Extremum{Index: i, Value: samples[i]})
	}

	leftPair := scanRun(seedIndex, left)
	rightPair := scanRun(seedIndex, right)
	global := mergeCandidates(seedIndex, [4]Extremum{
		leftPair.Min, leftPair.Max, rightPair.Min, rightPair.Max,
	})

	// Flat line: stretch across the whole window so the marker stays drawable.
	if global.Min.Value == global.Max.Value {
		global.Min.Index = left[len(left)-1].Index
		global.Max.Index = right[len(right)-1].Index
	}
	return global
}

// directionOf compares the first sample of a run with the first sample that
// differs from it. A waveform is assumed to swing one way right after a pick
// before reversing, so a rise means the run holds a peak and anything else
// (including a run with no variation) means it holds a trough.
func directionOf(run []Extremum) scanDirection {
	first := run[0].Value
	for _, e := range run[1:] {
		if e.Value == first {
			continue
		}
		if e.Value > first {
			return huntingMaximum
		}
		return huntingMinimum
	}
	return huntingMinimum
}

// scanRun walks a run outward from the seed and stops at the first sample
// that moves against the hunted direction.
func scanRun(seedIndex int, run []Extremum) ExtremaPair {
	direction := directionOf(run)
	pair := ExtremaPair{Min: run[0], Max: run[0]}

	for _, e := range run[1:] {
		if direction == huntingMaximum && e.Value < pair.Max.Value {
			break
		}
		if direction == huntingMinimum && e.Value > pair.Min.Value {
			break
		}
		pair.Min = lowerOf(seedIndex, pair.Min, e)
		pair.Max = higherOf(seedIndex, pair.Max, e)
	}
	return pair
}

// mergeCandidates reduces left-min, left-max, right-min and right-max into a
// single pair. On equal value and equal distance the earlier candidate stays.
func mergeCandidates(seedIndex int, candidates [4]Extremum) ExtremaPair {
	merged := ExtremaPair{Min: candidates[0], Max: candidates[0]}
	for _, c := range candidates[1:] {
		merged.Min = lowerOf(seedIndex, merged.Min, c)
		merged.Max = higherOf(seedIndex, merged.Max, c)
	}
	return merged
}

// lowerOf returns the smaller of two extrema, preferring the one farther from
// the seed when their values tie.
func lowerOf(seedIndex int, current, candidate Extremum) Extremum {
	if candidate.Value < current.Value {
		return candidate
	}
	if candidate.Value == current.Value && distance(seedIndex, candidate) > distance(seedIndex, current) {
		return candidate
	}
	return current
}

// higherOf returns the larger of two extrema, preferring the one farther from
// the seed when their values tie.
func higherOf(seedIndex int, current, candidate Extremum) Extremum {
	if candidate.Value > current.Value {
		return candidate
	}
	if candidate.Value == current.Value && distance(seedIndex, candidate) > distance(seedIndex, current) {
		return candidate
	}
	return current
}

func distance(seedIndex int, e Extremum) int {
	if e.Index > seedIndex {
		return e.Index - seedIndex
	}
	return seedIndex - e.Index
}
