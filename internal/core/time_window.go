package core

import "time"

// TimeWindow represents a selectable time window for usage queries.
type TimeWindow string

const (
	TimeWindow1d  TimeWindow = "1d"
	TimeWindow3d  TimeWindow = "3d"
	TimeWindow7d  TimeWindow = "7d"
	TimeWindow30d TimeWindow = "30d"
)

var ValidTimeWindows = []TimeWindow{
	TimeWindow1d,
	TimeWindow3d,
	TimeWindow7d,
	TimeWindow30d,
}

// Hours returns the window size in hours.
func (tw TimeWindow) Hours() int {
	switch tw {
	case TimeWindow1d:
		return 24
	case TimeWindow3d:
		return 3 * 24
	case TimeWindow7d:
		return 7 * 24
	case TimeWindow30d:
		return 30 * 24
	default:
		return 7 * 24
	}
}

func (tw TimeWindow) Duration() time.Duration {
	return time.Duration(tw.Hours()) * time.Hour
}

func (tw TimeWindow) Label() string {
	switch tw {
	case TimeWindow1d:
		return "Today"
	case TimeWindow3d:
		return "3 Days"
	case TimeWindow7d:
		return "7 Days"
	case TimeWindow30d:
		return "30 Days"
	default:
		return "7 Days"
	}
}

// Range returns the epoch-second bounds the gateway expects for this
// window, ending at now.
func (tw TimeWindow) Range(now time.Time) (start, end int64) {
	end = now.Unix()
	start = now.Add(-tw.Duration()).Unix()
	return start, end
}

func ParseTimeWindow(s string) TimeWindow {
	for _, tw := range ValidTimeWindows {
		if string(tw) == s {
			return tw
		}
	}
	return TimeWindow7d
}

// NextTimeWindow returns the next time window in the cycle.
func NextTimeWindow(current TimeWindow) TimeWindow {
	for i, tw := range ValidTimeWindows {
		if tw == current {
			return ValidTimeWindows[(i+1)%len(ValidTimeWindows)]
		}
	}
	return ValidTimeWindows[0]
}
