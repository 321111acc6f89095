package schedule

import (
	"testing"
	"time"
)

func TestFirst(t *testing.T) {
	// 2020-06-01T01:23:45Z
	now := time.Unix(1590974625, 0)

	first := First(now, 3)
	if first%(3*3600) != 0 {
		t.Errorf("First bucket %d is not aligned to the 3h window", first)
	}
	if first > now.Unix() {
		t.Errorf("First bucket %d is after the reference time %d", first, now.Unix())
	}
	if now.Unix()-first >= 3*3600 {
		t.Errorf("First bucket %d is more than one window before the reference time", first)
	}
}

func TestFirstOnBoundary(t *testing.T) {
	aligned := int64(1591056000) // multiple of 3*3600
	if aligned%(3*3600) != 0 {
		t.Fatal("test fixture is not aligned")
	}
	if got := First(time.Unix(aligned, 0), 3); got != aligned {
		t.Errorf("Expected an aligned time to map to itself, got %d want %d", got, aligned)
	}
}

func TestBuckets(t *testing.T) {
	now := time.Unix(1590974625, 0)

	tests := []struct {
		spanHours int
		count     int
	}{
		{1, 168},
		{2, 84},
		{3, 56},
		{4, 42},
		{6, 28},
		{8, 21},
		{12, 14},
		{24, 7},
	}

	for _, tt := range tests {
		buckets := Buckets(now, tt.spanHours)
		if len(buckets) != tt.count {
			t.Errorf("span %dh: expected %d buckets, got %d", tt.spanHours, tt.count, len(buckets))
			continue
		}

		window := int64(tt.spanHours) * 3600
		if buckets[0] > now.Unix() {
			t.Errorf("span %dh: first bucket %d after reference time", tt.spanHours, buckets[0])
		}
		for i := 1; i < len(buckets); i++ {
			if buckets[i]-buckets[i-1] != window {
				t.Errorf("span %dh: buckets %d and %d are %d apart, want %d",
					tt.spanHours, i-1, i, buckets[i]-buckets[i-1], window)
			}
		}
	}
}

func TestBucketsDropFractionalRemainder(t *testing.T) {
	now := time.Unix(1590974625, 0)

	// 168 / 5 leaves a 3 hour remainder, which is dropped.
	buckets := Buckets(now, 5)
	if len(buckets) != 33 {
		t.Errorf("span 5h: expected 33 buckets, got %d", len(buckets))
	}
}
