package leave

import "time"

// Overlaps reports whether the inclusive date ranges [aStart, aEnd] and
// [bStart, bEnd] share at least one day. a is the existing range.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	within := func(d time.Time) bool { return !d.Before(aStart) && !d.After(aEnd) }
	return within(bStart) ||
		within(bEnd) ||
		(!aStart.Before(bStart) && !aEnd.After(bEnd))
}

func overlapping(existing []LeaveRequest, start, end time.Time) []LeaveRequest {
	var out []LeaveRequest
	for _, e := range existing {
		if Overlaps(e.StartDate, e.EndDate, start, end) {
			out = append(out, e)
		}
	}
	return out
}
