package main

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestParseSites(t *testing.T) {
	data := []byte(`
sites:
  - name: Phoenix
    lat: 33.4484
    lon: -112.0740
    tz: America/Phoenix
    refcsv: phoenix.csv
  - lat: -27.4774
    lon: 153.0271
`)

	sites, err := parseSites(data)
	if err != nil {
		t.Fatalf("parseSites returned error: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("got %d sites, want 2", len(sites))
	}

	if sites[0].Name != "Phoenix" || sites[0].Loc.String() != "America/Phoenix" || sites[0].RefCSV != "phoenix.csv" {
		t.Errorf("site 0 = %+v", sites[0])
	}
	if sites[1].Loc != time.UTC {
		t.Errorf("site 1 location = %v, want UTC default", sites[1].Loc)
	}
	if sites[1].Name != "-27.4774,153.0271" {
		t.Errorf("site 1 name = %q", sites[1].Name)
	}
}

func TestParseSites_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "sites: []\n", "no sites"},
		{"bad latitude", "sites:\n  - name: x\n    lat: 91\n    lon: 0\n", "out of range"},
		{"bad zone", "sites:\n  - name: x\n    lat: 10\n    lon: 0\n    tz: Nowhere/Special\n", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSites([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSeriesSummarize(t *testing.T) {
	s := series{name: "test"}
	for _, v := range []float64{-2, -1, 0, 1, 2, math.NaN()} {
		s.add(v)
	}

	sum := s.summarize()
	if sum.Count != 5 || sum.Skipped != 1 {
		t.Fatalf("count/skipped = %d/%d, want 5/1", sum.Count, sum.Skipped)
	}
	if sum.Mean != 0 {
		t.Errorf("mean = %v, want 0", sum.Mean)
	}
	if sum.Min != -2 || sum.Max != 2 {
		t.Errorf("min/max = %v/%v", sum.Min, sum.Max)
	}
	if sum.MeanAbs != 1.2 {
		t.Errorf("mean abs = %v, want 1.2", sum.MeanAbs)
	}
	if sum.P95Abs != 2 {
		t.Errorf("p95 abs = %v, want 2", sum.P95Abs)
	}
	if math.Abs(sum.StdDev-math.Sqrt(2.5)) > 1e-12 {
		t.Errorf("stddev = %v, want sqrt(2.5)", sum.StdDev)
	}

	if empty := (&series{}).summarize(); !math.IsNaN(empty.Mean) {
		t.Errorf("empty mean = %v, want NaN", empty.Mean)
	}
}

func TestProfileDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Fatalf("failed to load Phoenix tz: %v", err)
	}

	p := newProfile(site{Name: "Phoenix", Lat: 33.4484, Lon: -112.0740, Loc: loc})
	date := time.Date(2025, time.November, 28, 0, 0, 0, 0, loc)

	refs := map[string]refTimes{
		"2025-11-28": {
			rise: time.Date(2025, time.November, 28, 7, 11, 0, 0, loc),
			set:  time.Date(2025, time.November, 28, 17, 21, 0, 0, loc),
		},
	}

	row := p.day(date, refs)

	// Same model: sub-second agreement.
	for name, v := range map[string]float64{"rise": row.sdRise, "set": row.sdSet, "noon": row.sdNoon} {
		if math.IsNaN(v) || math.Abs(v) > 1.0/60 {
			t.Errorf("sixdouglas %s diff = %v min", name, v)
		}
	}
	// The closed form fixes declination at transit, the bisection follows
	// the full altitude curve.
	for name, v := range map[string]float64{"rise": row.bisectRise, "set": row.bisectSet} {
		if math.IsNaN(v) || math.Abs(v) > 3 {
			t.Errorf("bisection %s diff = %v min", name, v)
		}
	}
	// J2000 low-precision model against VSOP87 of date; 25 years of
	// precession alone move the Sun about a third of a degree.
	if math.Abs(row.meeusAlt) > 0.5 || math.Abs(row.meeusAz) > 0.5 {
		t.Errorf("meeus alt/az diff = %v/%v deg", row.meeusAlt, row.meeusAz)
	}
	if math.Abs(row.refRise) > 3 || math.Abs(row.refSet) > 3 {
		t.Errorf("reference diff rise=%v set=%v min", row.refRise, row.refSet)
	}

	if got := len(row.record()); got != len(csvHeader) {
		t.Errorf("record has %d fields, header %d", got, len(csvHeader))
	}
	if p.sdRise.summarize().Count != 1 {
		t.Errorf("sdRise series not updated")
	}
}

func TestParseLocalTime(t *testing.T) {
	date := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	got, err := parseLocalTime(date, "07:32:15", time.UTC)
	if err != nil {
		t.Fatalf("parseLocalTime returned error: %v", err)
	}
	if want := time.Date(2025, time.January, 2, 7, 32, 15, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := parseLocalTime(date, "7h32", time.UTC); err == nil {
		t.Errorf("expected error for malformed time")
	}
}
