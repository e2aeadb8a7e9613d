package suncalc

import (
	"math"
	"testing"
	"time"
)

// diffMinutes returns the absolute difference between two times in minutes.
func diffMinutes(a, b time.Time) float64 {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d.Minutes()
}

// The lunar series keeps one term per coordinate, so rise/set is only good
// to several minutes.
const moonToleranceMinutes = 45.0

// TestMoonRiseSet_Reference compares moonrise/moonset against published
// ephemeris tables for 2025-11-30 (local times).
func TestMoonRiseSet_Reference(t *testing.T) {
	tests := []struct {
		name       string
		tz         string
		lat, lng   float64
		riseH      int
		riseM      int
		setH, setM int
	}{
		// Moonrise ≈ 14:10, moonset ≈ 02:13
		{"Phoenix", "America/Phoenix", 33.4484, -112.0740, 14, 10, 2, 13},
		// Moonrise ≈ 13:30, moonset ≈ 01:36
		{"NewYork", "America/New_York", 40.7128, -74.0060, 13, 30, 1, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.tz)
			if err != nil {
				t.Fatalf("failed to load %s: %v", tt.tz, err)
			}

			date := time.Date(2025, time.November, 30, 0, 0, 0, 0, loc)

			mt, err := GetMoonTimes(date, tt.lat, tt.lng, false)
			if err != nil {
				t.Fatalf("GetMoonTimes returned error: %v", err)
			}
			if !mt.HasRise || !mt.HasSet {
				t.Fatalf("expected rise and set, got %+v", mt)
			}

			expectedRise := time.Date(2025, time.November, 30, tt.riseH, tt.riseM, 0, 0, loc)
			expectedSet := time.Date(2025, time.November, 30, tt.setH, tt.setM, 0, 0, loc)

			if got := diffMinutes(mt.Rise, expectedRise); got > moonToleranceMinutes {
				t.Errorf("moonrise off by %.1f minutes (got %v, want ~%v)", got, mt.Rise, expectedRise)
			}
			if got := diffMinutes(mt.Set, expectedSet); got > moonToleranceMinutes {
				t.Errorf("moonset off by %.1f minutes (got %v, want ~%v)", got, mt.Set, expectedSet)
			}

			// Rise and set need not be ordered: the Moon often sets in the
			// early morning and rises in the afternoon.
		})
	}
}

// TestMoonTimes_Polar walks a month near the pole, where the Moon's
// altitude barely changes over a day and it is mostly always up or down.
func TestMoonTimes_Polar(t *testing.T) {
	var up, down int

	start := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		date := start.AddDate(0, 0, day)

		mt, err := GetMoonTimes(date, 89.5, 0, true)
		if err != nil {
			t.Fatalf("%s: GetMoonTimes returned error: %v", date.Format(time.DateOnly), err)
		}
		checkMoonTimesExclusive(t, date, mt)

		if mt.AlwaysUp {
			up++
		}
		if mt.AlwaysDown {
			down++
		}
	}

	if up == 0 || down == 0 {
		t.Errorf("expected both always-up and always-down days near the pole, got up=%d down=%d", up, down)
	}
}

func TestMoonTimes_Exclusive(t *testing.T) {
	sites := []struct{ lat, lng float64 }{
		{refLatitude, refLongitude},
		{51.5, -0.1},
		{69.6, 18.9},
		{-77.8, 166.7},
	}

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range sites {
		for day := 0; day < 60; day += 3 {
			date := start.AddDate(0, 0, day)

			mt, err := GetMoonTimes(date, s.lat, s.lng, true)
			if err != nil {
				t.Fatalf("GetMoonTimes returned error: %v", err)
			}
			checkMoonTimesExclusive(t, date, mt)

			if mt.HasRise && (mt.Rise.Before(date) || mt.Rise.After(date.Add(24*time.Hour))) {
				t.Errorf("%v at %v: rise %v outside the day", date, s, mt.Rise)
			}
			if mt.HasSet && (mt.Set.Before(date) || mt.Set.After(date.Add(24*time.Hour))) {
				t.Errorf("%v at %v: set %v outside the day", date, s, mt.Set)
			}
		}
	}
}

func checkMoonTimesExclusive(t *testing.T, date time.Time, mt MoonTimes) {
	t.Helper()

	if mt.AlwaysUp && mt.AlwaysDown {
		t.Errorf("%s: both AlwaysUp and AlwaysDown", date.Format(time.DateOnly))
	}
	if (mt.AlwaysUp || mt.AlwaysDown) && (mt.HasRise || mt.HasSet) {
		t.Errorf("%s: always flag set alongside rise/set %+v", date.Format(time.DateOnly), mt)
	}
	if !mt.AlwaysUp && !mt.AlwaysDown && !mt.HasRise && !mt.HasSet {
		t.Errorf("%s: no rise, no set and no always flag", date.Format(time.DateOnly))
	}
	if !mt.HasRise && !mt.Rise.IsZero() {
		t.Errorf("%s: rise time set without HasRise", date.Format(time.DateOnly))
	}
}

func TestMoonIllumination_Bounds(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	for h := 0; h < 24*365; h += 7 {
		at := start.Add(time.Duration(h) * time.Hour)
		il := GetMoonIllumination(at)

		if math.IsNaN(il.Fraction) || math.IsNaN(il.Phase) {
			t.Fatalf("%v: NaN illumination %+v", at, il)
		}
		if il.Fraction < 0 || il.Fraction > 1 {
			t.Fatalf("%v: fraction %v outside [0,1]", at, il.Fraction)
		}
		if il.Phase < 0 || il.Phase > 1 {
			t.Fatalf("%v: phase %v outside [0,1]", at, il.Phase)
		}
	}
}

func TestMoonIllumination_Quarters(t *testing.T) {
	tests := []struct {
		name    string
		at      time.Time
		minFrac float64
		maxFrac float64
		waxing  bool
	}{
		// First quarter 2025-11-28 06:59 UTC.
		{"first quarter", time.Date(2025, time.November, 28, 6, 59, 0, 0, time.UTC), 0.35, 0.65, true},
		// Last quarter 2025-11-12 05:28 UTC.
		{"last quarter", time.Date(2025, time.November, 12, 5, 28, 0, 0, time.UTC), 0.35, 0.65, false},
		// Full moon 2025-11-05 13:19 UTC.
		{"full", time.Date(2025, time.November, 5, 13, 19, 0, 0, time.UTC), 0.85, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			il := GetMoonIllumination(tt.at)

			if il.Fraction < tt.minFrac || il.Fraction > tt.maxFrac {
				t.Errorf("fraction = %.3f, want between %.2f and %.2f", il.Fraction, tt.minFrac, tt.maxFrac)
			}
			if tt.name != "full" && il.Waxing() != tt.waxing {
				t.Errorf("Waxing() = %v (phase %.3f), want %v", il.Waxing(), il.Phase, tt.waxing)
			}
		})
	}
}

func TestClassifyMoonPhaseName(t *testing.T) {
	tests := []struct {
		fraction float64
		waxing   bool
		want     string
	}{
		{0.001, true, "New Moon"},
		{0.995, false, "Full Moon"},
		{0.5, true, "First Quarter"},
		{0.52, false, "Last Quarter"},
		{0.2, true, "Waxing Crescent"},
		{0.2, false, "Waning Crescent"},
		{0.8, true, "Waxing Gibbous"},
		{0.8, false, "Waning Gibbous"},
	}

	for _, tt := range tests {
		if got := classifyMoonPhaseName(tt.fraction, tt.waxing); got != tt.want {
			t.Errorf("classifyMoonPhaseName(%v, %v) = %q, want %q", tt.fraction, tt.waxing, got, tt.want)
		}
	}
}
