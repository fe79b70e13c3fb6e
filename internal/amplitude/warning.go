// internal/amplitude/warning.go
package amplitude

// WarningBand is the acceptable period range in seconds (inclusive).
type WarningBand struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// SelectionOffsets place the acceptable pick window relative to an arrival
// time. Either offset may be negative.
type SelectionOffsets struct {
	StartOffsetSecs float64 `json:"start_offset_secs" yaml:"start_offset_secs"`
	EndOffsetSecs   float64 `json:"end_offset_secs" yaml:"end_offset_secs"`
}

// SelectionWindow returns the absolute pick window around arrivalTime.
func SelectionWindow(arrivalTime float64, offsets SelectionOffsets) (start, end float64) {
	return arrivalTime + offsets.StartOffsetSecs, arrivalTime + offsets.EndOffsetSecs
}

// IsInWarning reports whether a peak/trough pick should be flagged: the
// period is outside band, the peak precedes the trough, or either pick lies
// outside the selection window around arrivalTime. Band and window edges are
// acceptable.
func IsInWarning(arrivalTime, period, troughTime, peakTime float64, band WarningBand, offsets SelectionOffsets) bool {
	start, end := SelectionWindow(arrivalTime, offsets)

	switch {
	case period < band.Min || period > band.Max:
		return true
	case peakTime < troughTime:
		return true
	case troughTime < start || troughTime > end:
		return true
	case peakTime < start || peakTime > end:
		return true
	}
	return false
}
