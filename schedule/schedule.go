// Package schedule plans the fixed-width time windows a guide run fetches.
package schedule

import "time"

// guideDays is how far ahead the listings window extends.
const guideDays = 7

// First aligns now down to a multiple of spanHours, in epoch seconds. The
// alignment is epoch-based, not calendar-based, so it matches the keys of
// buckets cached by earlier runs.
func First(now time.Time, spanHours int) int64 {
	window := int64(spanHours) * 3600
	return now.Unix() - now.Unix()%window
}

// Buckets returns the ordered bucket start times covering the listings
// window, beginning at the bucket containing now. Spans that do not divide
// the window evenly lose the fractional remainder rather than rounding up.
func Buckets(now time.Time, spanHours int) []int64 {
	first := First(now, spanHours)
	window := int64(spanHours) * 3600

	count := guideDays * 24 / spanHours
	buckets := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		buckets = append(buckets, first+int64(i)*window)
	}
	return buckets
}
