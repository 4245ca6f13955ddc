package core

import (
	"testing"
	"time"
)

func TestDeriveKeys(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	cases := []struct {
		name       string
		ts         time.Time
		day, month string
	}{
		{"utc", time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC), "2025-11-15", "2025-11"},
		{"year boundary", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "2024-12-31", "2024-12"},
		// Own calendar fields: 01:00 IST on Jan 1st is still Dec 31st in UTC.
		{"no tz conversion", time.Date(2025, 1, 1, 1, 0, 0, 0, ist), "2025-01-01", "2025-01"},
		{"leap day", time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), "2024-02-29", "2024-02"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			day, month := DeriveKeys(tc.ts)
			if day != tc.day || month != tc.month {
				t.Fatalf("DeriveKeys = (%s, %s), want (%s, %s)", day, month, tc.day, tc.month)
			}
			// Deterministic.
			day2, month2 := DeriveKeys(tc.ts)
			if day2 != day || month2 != month {
				t.Fatalf("non-deterministic keys")
			}
			if day[:7] != month {
				t.Fatalf("month %s is not a prefix of day %s", month, day)
			}
		})
	}
}

func TestValidTimestamp(t *testing.T) {
	cases := []struct {
		ts time.Time
		ok bool
	}{
		{time.Date(2025, 11, 15, 10, 30, 0, 0, time.UTC), true},
		{time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2262, 4, 11, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2262, 4, 12, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{time.Date(1677, 1, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		if got := ValidTimestamp(tc.ts); got != tc.ok {
			t.Errorf("ValidTimestamp(%v) = %v, want %v", tc.ts, got, tc.ok)
		}
	}

	in := NewTransaction{Source: Manual, Timestamp: time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := in.Validate(); err != ErrInvalidTimestamp {
		t.Errorf("Validate() = %v, want ErrInvalidTimestamp", err)
	}
	in.Timestamp = time.Time{}
	if err := in.Validate(); err != nil {
		t.Errorf("zero timestamp should mean now, got %v", err)
	}
}
