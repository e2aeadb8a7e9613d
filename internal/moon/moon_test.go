package moon

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"

	"github.com/thurmanmarka/suncalc/internal/coord"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

// The series keeps only the largest term of each coordinate; evection and
// variation alone account for about two degrees and several thousand km.
func TestCoordinates_MatchesMeeus(t *testing.T) {
	const (
		tolDeg  = 3.0
		tolDist = 10000.0
	)

	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*60; h += 29 {
		at := start.Add(time.Duration(h) * time.Hour)

		got := Coordinates(timeutil.DaysSinceJ2000(at))
		lon, lat, dist := moonposition.Position(julian.TimeToJD(at))
		want := coord.EclipticToEquatorial(lon.Rad(), lat.Rad())

		if d := math.Abs(math.Remainder(got.RA-want.RA, 2*math.Pi)) / rad; d > tolDeg {
			t.Errorf("%v: RA off by %.3f deg", at, d)
		}
		if d := math.Abs(got.Dec-want.Dec) / rad; d > tolDeg {
			t.Errorf("%v: Dec off by %.3f deg", at, d)
		}
		if d := math.Abs(got.Distance - dist); d > tolDist {
			t.Errorf("%v: distance off by %.0f km", at, d)
		}
	}
}

func TestRiseSetFrom_Flags(t *testing.T) {
	start := time.Date(2016, time.November, 16, 0, 0, 0, 0, time.FixedZone("AEST", 10*60*60))

	rs := RiseSetFrom(start, -27.4774, 153.0271)
	if !rs.HasRise || !rs.HasSet {
		t.Fatalf("expected rise and set, got %+v", rs)
	}
	if rs.AlwaysUp || rs.AlwaysDown {
		t.Errorf("always flags set alongside events: %+v", rs)
	}
	for _, h := range []float64{rs.Rise, rs.Set} {
		if h < 0 || h > 24 {
			t.Errorf("event %v hours outside the scanned day", h)
		}
	}

	// The Moon is above the horizon just after the rise and below it just
	// after the set.
	after := func(hours float64) float64 {
		return PositionAt(timeutil.HoursLater(start, hours+0.1), -27.4774, 153.0271).Altitude - horizonCorrection
	}
	if after(rs.Rise) <= 0 {
		t.Errorf("Moon not up after rise at %.3f h", rs.Rise)
	}
	if after(rs.Set) >= 0 {
		t.Errorf("Moon not down after set at %.3f h", rs.Set)
	}
}

func TestIlluminationAt_Brisbane(t *testing.T) {
	at := time.Date(2016, time.November, 16, 3, 37, 0, 0, time.UTC)
	il := IlluminationAt(timeutil.DaysSinceJ2000(at))

	if math.Abs(il.Fraction-0.9633750476377128) > 1e-9 {
		t.Errorf("fraction = %.16f", il.Fraction)
	}
	if math.Abs(il.Phase-0.5612951343240598) > 1e-9 {
		t.Errorf("phase = %.16f", il.Phase)
	}
}

// samples turns hourly values into an altitude curve; Scan only reads whole
// hours.
func samples(vals ...float64) func(float64) float64 {
	return func(h float64) float64 {
		if i := int(h); i < len(vals) {
			return vals[i]
		}
		return vals[len(vals)-1]
	}
}

func TestScan(t *testing.T) {
	tests := []struct {
		name      string
		altitude  func(float64) float64
		want      RiseSet
		wantCalls int // 0 means the full 25 samples
	}{
		{
			name:     "rise only",
			altitude: func(h float64) float64 { return 100 - (h-20.5)*(h-20.5) },
			want:     RiseSet{Rise: 10.5, HasRise: true},
		},
		{
			name:     "set only",
			altitude: func(h float64) float64 { return 100 - (h+6.5)*(h+6.5) },
			want:     RiseSet{Set: 3.5, HasSet: true},
		},
		{
			name:      "rise then set in one window",
			altitude:  func(h float64) float64 { return 0.25 - (h-5)*(h-5) },
			want:      RiseSet{Rise: 4.5, Set: 5.5, HasRise: true, HasSet: true},
			wantCalls: 7,
		},
		{
			name:      "set then rise in one window",
			altitude:  func(h float64) float64 { return (h-5)*(h-5) - 0.25 },
			want:      RiseSet{Rise: 5.5, Set: 4.5, HasRise: true, HasSet: true},
			wantCalls: 7,
		},
		{
			name:     "later window overwrites rise",
			altitude: samples(-1, 1, 2, 3, 2, 3, 2, 3, 2, 3, 1, -1, 1, 2),
			want: RiseSet{
				Rise: 11 + math.Sqrt(0.5), Set: 11 - math.Sqrt(0.5),
				HasRise: true, HasSet: true,
			},
			wantCalls: 13,
		},
		{
			name:     "always up",
			altitude: func(h float64) float64 { return 1 + 0.001*(h-12)*(h-12) },
			want:     RiseSet{AlwaysUp: true},
		},
		{
			name:     "always down",
			altitude: func(h float64) float64 { return -1 - 0.001*(h-12)*(h-12) },
			want:     RiseSet{AlwaysDown: true},
		},
		{
			// Last vertex touches the horizon outside its window.
			name:     "vertex at zero",
			altitude: func(h float64) float64 { return -(h - 30) * (h - 30) },
			want:     RiseSet{AlwaysDown: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got := Scan(func(h float64) float64 {
				calls++
				return tt.altitude(h)
			})

			if got.HasRise != tt.want.HasRise || got.HasSet != tt.want.HasSet ||
				got.AlwaysUp != tt.want.AlwaysUp || got.AlwaysDown != tt.want.AlwaysDown {
				t.Fatalf("Scan = %+v, want %+v", got, tt.want)
			}
			if got.HasRise && math.Abs(got.Rise-tt.want.Rise) > 1e-9 {
				t.Errorf("rise = %v, want %v", got.Rise, tt.want.Rise)
			}
			if got.HasSet && math.Abs(got.Set-tt.want.Set) > 1e-9 {
				t.Errorf("set = %v, want %v", got.Set, tt.want.Set)
			}

			wantCalls := tt.wantCalls
			if wantCalls == 0 {
				wantCalls = 25
			}
			if calls != wantCalls {
				t.Errorf("altitude sampled %d times, want %d", calls, wantCalls)
			}
		})
	}
}
