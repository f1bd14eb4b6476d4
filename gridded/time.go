package gridded

import (
	"fmt"
	"strings"
	"time"
)

// encodeTimeUnits is the units string written for time coordinates.
// Milliseconds keep sub-second offsets from fractional source units (e.g.
// "hours since ..." with 0.5-step values) intact across a write/read cycle.
const encodeTimeUnits = "milliseconds since 1970-01-01 00:00:00"

// epochLayouts are the timestamp formats accepted after "since" in a
// CF-style units attribute.
var epochLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimeUnits splits a CF-style units attribute such as
// "hours since 2021-03-04 00:00:00" into a step duration and an epoch.
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	unit, epoch, ok := strings.Cut(strings.TrimSpace(units), " since ")
	if !ok {
		return 0, time.Time{}, fmt.Errorf("time units %q missing \"since\"", units)
	}

	var step time.Duration
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "milliseconds", "millisecond", "ms":
		step = time.Millisecond
	case "seconds", "second", "s":
		step = time.Second
	case "minutes", "minute", "min":
		step = time.Minute
	case "hours", "hour", "h":
		step = time.Hour
	case "days", "day", "d":
		step = 24 * time.Hour
	default:
		return 0, time.Time{}, fmt.Errorf("unsupported time unit %q", unit)
	}

	epoch = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(epoch), " UTC"))
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, epoch); err == nil {
			return step, t.UTC(), nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("unparseable epoch %q in time units", epoch)
}

// decodeTimes converts numeric offsets with a CF-style units attribute into
// concrete timestamps.
func decodeTimes(offsets []float64, units string) ([]time.Time, error) {
	step, epoch, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(offsets))
	for i, off := range offsets {
		times[i] = epoch.Add(time.Duration(off * float64(step))).UTC()
	}
	return times, nil
}

// encodeTimes converts timestamps to int64 offsets matching encodeTimeUnits.
func encodeTimes(times []time.Time) []int64 {
	out := make([]int64, len(times))
	for i, t := range times {
		out[i] = t.UnixMilli()
	}
	return out
}
