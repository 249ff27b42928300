package domain

import "time"

// Resolution is the sampling granularity (seconds) a historic row was
// pre-aggregated at before storage. Rows carry it as their weight tag.
type Resolution int

const (
	ResolutionRaw    Resolution = 1
	ResolutionMinute Resolution = 60
	ResolutionHour   Resolution = 3600
)

// ResolutionFor selects the bucket width for a query whose range begins at
// start. The comparator is strictly-before at both boundaries: a start
// exactly 24h old still selects raw rows, exactly 7d old selects minute
// rows.
func ResolutionFor(start, now time.Time) Resolution {
	switch {
	case start.Before(now.Add(-7 * 24 * time.Hour)):
		return ResolutionHour
	case start.Before(now.Add(-24 * time.Hour)):
		return ResolutionMinute
	default:
		return ResolutionRaw
	}
}

func (r Resolution) Seconds() int {
	return int(r)
}
