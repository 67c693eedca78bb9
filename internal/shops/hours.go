package shops

import "time"

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location (Local when unset)
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// IsOpenAt reports whether the shop is open at t, evaluated in t's location.
//
// 不定期 (irregular) enables every day. Equal start and end means open all
// day on enabled days. When start > end the window spans midnight: the late
// part belongs to today, the early-morning part to yesterday's flag.
// Records whose hours cannot be parsed are never open.
func IsOpenAt(rec Record, t time.Time) bool {
	start, ok := ParseTimeToMinutes(rec.Start())
	if !ok {
		return false
	}
	end, ok := ParseTimeToMinutes(rec.End())
	if !ok {
		return false
	}

	nowMin := t.Hour()*60 + t.Minute()

	today := DayKeyOf(t)
	yesterday := PreviousDay(today)

	irregular := rec.Flag(Irregular)
	todayOn := rec.Flag(today) || irregular
	yesterdayOn := rec.Flag(yesterday) || irregular

	switch {
	case start == end:
		return todayOn
	case start < end:
		return todayOn && nowMin >= start && nowMin < end
	default:
		return (todayOn && nowMin >= start) || (yesterdayOn && nowMin < end)
	}
}

// OpenNos returns the business keys of the records open at t.
// Records without a No. cannot be referenced and are left out.
func OpenNos(records []Record, t time.Time) []string {
	nos := []string{}
	for _, r := range records {
		if no := r.No(); no != "" && IsOpenAt(r, t) {
			nos = append(nos, no)
		}
	}
	return nos
}
