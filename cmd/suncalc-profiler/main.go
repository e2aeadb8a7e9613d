package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	sixdouglas "github.com/sixdouglas/suncalc"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/thurmanmarka/suncalc"
	"github.com/thurmanmarka/suncalc/internal/coord"
	"github.com/thurmanmarka/suncalc/internal/log"
	"github.com/thurmanmarka/suncalc/internal/solver"
	"github.com/thurmanmarka/suncalc/internal/sun"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

// Reference CSV format:
//
// date,rise,set
// 2025-01-01,07:32,17:12
// 2025-01-02,07:32,17:13
//
// - date is YYYY-MM-DD
// - rise/set are local times in HH:MM (24-hour clock)
// - All times are in the site's time zone.
func main() {
	var (
		configFile = flag.String("config", "", "YAML file listing sites to profile (overrides -lat/-lon/-tz)")
		lat        = flag.Float64("lat", 0, "latitude in degrees (north positive)")
		lon        = flag.Float64("lon", 0, "longitude in degrees (east positive, west negative)")
		tzName     = flag.String("tz", "UTC", "IANA time zone name (e.g. America/Phoenix)")
		startS     = flag.String("start", "", "first date YYYY-MM-DD (defaults to January 1 of this year)")
		days       = flag.Int("days", 365, "number of days to profile")
		refCSV     = flag.String("refcsv", "", "optional reference ephemeris CSV (date,rise,set) for the -lat/-lon site")
		outCSV     = flag.String("outcsv", "", "optional path to write per-day error CSV")
		verbose    = flag.Bool("verbose", false, "log per-day errors instead of only summary")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)

	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	sites, err := resolveSites(*configFile, *lat, *lon, *tzName, *refCSV)
	if err != nil {
		log.Fatalf("failed to load sites: %v", err)
	}

	if *days < 1 {
		log.Fatalf("-days must be positive, got %d", *days)
	}

	var out *csv.Writer
	if *outCSV != "" {
		outFile, err := os.Create(*outCSV)
		if err != nil {
			log.Fatalf("failed to create outcsv %q: %v", *outCSV, err)
		}
		defer outFile.Close()

		out = csv.NewWriter(outFile)
		defer out.Flush()

		if err := out.Write(csvHeader); err != nil {
			log.Fatalf("failed to write outcsv header: %v", err)
		}
	}

	for _, s := range sites {
		start, err := startDate(*startS, s.Loc)
		if err != nil {
			log.Fatalf("invalid -start %q: %v", *startS, err)
		}

		var refs map[string]refTimes
		if s.RefCSV != "" {
			refs, err = loadRefCSV(s.RefCSV, s.Loc)
			if err != nil {
				log.Fatalf("site %s: %v", s.Name, err)
			}
		}

		p := newProfile(s)
		for d := 0; d < *days; d++ {
			date := start.AddDate(0, 0, d)
			row := p.day(date, refs)

			if *verbose {
				log.Infow("day", row.logFields()...)
			}
			if out != nil {
				if err := out.Write(row.record()); err != nil {
					log.Errorf("%s %s: failed to write outcsv: %v", s.Name, row.date, err)
				}
			}
		}

		p.print(*days)
	}
}

func resolveSites(configFile string, lat, lon float64, tzName, refCSV string) ([]site, error) {
	if configFile != "" {
		return loadSites(configFile)
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tzName, err)
	}
	if lat == 0 && lon == 0 {
		log.Warnf("lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	return []site{{
		Name:   fmt.Sprintf("%.4f,%.4f", lat, lon),
		Lat:    lat,
		Lon:    lon,
		Loc:    loc,
		RefCSV: refCSV,
	}}, nil
}

func startDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc), nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

// profile collects the error series for one site.
type profile struct {
	site site

	// against github.com/sixdouglas/suncalc
	sdRise, sdSet, sdNoon series
	sdAltitude, sdAzimuth series
	sdFraction            series

	// against meeus (VSOP87 Sun, ELP Moon)
	meeusAltitude, meeusAzimuth series
	meeusMoonDistance           series

	// closed-form sunrise/sunset against bisection on the altitude curve
	bisectRise, bisectSet series

	// against the reference CSV
	refRise, refSet series
}

func newProfile(s site) *profile {
	minutes := func(name string) series { return series{name: name, unit: "min"} }
	degrees := func(name string) series { return series{name: name, unit: "deg"} }

	return &profile{
		site:              s,
		sdRise:            minutes("sixdouglas sunrise"),
		sdSet:             minutes("sixdouglas sunset"),
		sdNoon:            minutes("sixdouglas solar noon"),
		sdAltitude:        degrees("sixdouglas sun altitude"),
		sdAzimuth:         degrees("sixdouglas sun azimuth"),
		sdFraction:        series{name: "sixdouglas moon fraction", unit: ""},
		meeusAltitude:     degrees("meeus sun altitude"),
		meeusAzimuth:      degrees("meeus sun azimuth"),
		meeusMoonDistance: series{name: "meeus moon distance", unit: "km"},
		bisectRise:        minutes("bisection sunrise"),
		bisectSet:         minutes("bisection sunset"),
		refRise:           minutes("reference sunrise"),
		refSet:            minutes("reference sunset"),
	}
}

// dayRow is one day's signed errors (ours - reference).
type dayRow struct {
	site, date            string
	sdRise, sdSet, sdNoon float64
	sdAlt, sdFraction     float64
	meeusAlt, meeusAz     float64
	moonDistKm            float64
	bisectRise, bisectSet float64
	refRise, refSet       float64
}

var csvHeader = []string{
	"site", "date",
	"sd_rise_min", "sd_set_min", "sd_noon_min", "sd_alt_deg", "sd_moon_fraction",
	"meeus_alt_deg", "meeus_az_deg", "meeus_moon_dist_km",
	"bisect_rise_min", "bisect_set_min",
	"ref_rise_min", "ref_set_min",
}

func (r dayRow) record() []string {
	f := func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return fmt.Sprintf("%.6f", v)
	}
	return []string{
		r.site, r.date,
		f(r.sdRise), f(r.sdSet), f(r.sdNoon), f(r.sdAlt), f(r.sdFraction),
		f(r.meeusAlt), f(r.meeusAz), f(r.moonDistKm),
		f(r.bisectRise), f(r.bisectSet),
		f(r.refRise), f(r.refSet),
	}
}

func (r dayRow) logFields() []interface{} {
	return []interface{}{
		"site", r.site, "date", r.date,
		"sdRiseMin", r.sdRise, "sdSetMin", r.sdSet,
		"meeusAltDeg", r.meeusAlt,
		"bisectRiseMin", r.bisectRise, "bisectSetMin", r.bisectSet,
		"refRiseMin", r.refRise, "refSetMin", r.refSet,
	}
}

func (p *profile) day(date time.Time, refs map[string]refTimes) dayRow {
	s := p.site
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, s.Loc)
	nan := math.NaN()

	row := dayRow{
		site: s.Name, date: noon.Format(time.DateOnly),
		sdRise: nan, sdSet: nan, sdNoon: nan, sdAlt: nan, sdFraction: nan,
		meeusAlt: nan, meeusAz: nan, moonDistKm: nan,
		bisectRise: nan, bisectSet: nan, refRise: nan, refSet: nan,
	}

	times, err := suncalc.GetTimes(noon, s.Lat, s.Lon)
	if err != nil {
		log.Errorf("%s %s: %v", s.Name, row.date, err)
		return row
	}
	rise, set := times[suncalc.Sunrise], times[suncalc.Sunset]

	// github.com/sixdouglas/suncalc implements the same model, so these
	// should agree to well under a second.
	sd := sixdouglas.GetTimes(noon, s.Lat, s.Lon)
	row.sdRise = eventDiff(rise, sd["sunrise"].Value)
	row.sdSet = eventDiff(set, sd["sunset"].Value)
	row.sdNoon = eventDiff(times[suncalc.SolarNoon], sd["solarNoon"].Value)
	p.sdRise.add(row.sdRise)
	p.sdSet.add(row.sdSet)
	p.sdNoon.add(row.sdNoon)

	pos := suncalc.GetPosition(noon, s.Lat, s.Lon)
	sdPos := sixdouglas.GetPosition(noon, s.Lat, s.Lon)
	row.sdAlt = deg(pos.Altitude - sdPos.Altitude)
	p.sdAltitude.add(row.sdAlt)
	p.sdAzimuth.add(deg(math.Remainder(pos.Azimuth-sdPos.Azimuth, 2*math.Pi)))

	il := suncalc.GetMoonIllumination(noon)
	row.sdFraction = il.Fraction - sixdouglas.GetMoonIllumination(noon).Fraction
	p.sdFraction.add(row.sdFraction)

	ref := meeusSunPosition(noon, s.Lat, s.Lon)
	row.meeusAlt = deg(pos.Altitude - ref.Altitude)
	row.meeusAz = deg(math.Remainder(pos.Azimuth-ref.Azimuth, 2*math.Pi))
	p.meeusAltitude.add(row.meeusAlt)
	p.meeusAzimuth.add(row.meeusAz)

	_, _, dist := moonposition.Position(julian.TimeToJD(noon))
	row.moonDistKm = suncalc.GetMoonPosition(noon, s.Lat, s.Lon).Distance - dist
	p.meeusMoonDistance.add(row.moonDistKm)

	row.bisectRise, row.bisectSet = bisectSunEvents(times[suncalc.SolarNoon], s, rise, set)
	p.bisectRise.add(row.bisectRise)
	p.bisectSet.add(row.bisectSet)

	if r, ok := refs[row.date]; ok {
		row.refRise = eventDiff(rise, r.rise)
		row.refSet = eventDiff(set, r.set)
		p.refRise.add(row.refRise)
		p.refSet.add(row.refSet)
	}

	return row
}

// meeusSunPosition computes the Sun's horizontal position from meeus'
// apparent equatorial coordinates and apparent Greenwich sidereal time.
func meeusSunPosition(t time.Time, lat, lon float64) coord.Horizontal {
	jd := julian.TimeToJD(t)
	ra, dec := solar.ApparentEquatorial(jd)
	gst := sidereal.Apparent(jd).Angle().Rad()

	H := gst + timeutil.Deg2Rad(lon) - ra.Rad()
	return coord.ToHorizontal(H, timeutil.Deg2Rad(lat), dec.Rad())
}

// bisectSunEvents finds sunrise and sunset by bisecting the altitude curve
// in the twelve hours either side of solar noon, and returns the signed
// differences (minutes) from the closed-form events.
func bisectSunEvents(noon suncalc.Event, s site, rise, set suncalc.Event) (float64, float64) {
	if !noon.OK {
		return math.NaN(), math.NaN()
	}

	altitude := func(t time.Time) float64 {
		return deg(suncalc.GetPosition(t, s.Lat, s.Lon).Altitude)
	}

	const steps = 97 // every 7.5 minutes
	up := solver.FindAltitudeEvent(altitude, noon.Time.Add(-12*time.Hour), noon.Time,
		sun.ApparentHorizonAltitude, solver.CrossingUp, steps, time.Second)
	down := solver.FindAltitudeEvent(altitude, noon.Time, noon.Time.Add(12*time.Hour),
		sun.ApparentHorizonAltitude, solver.CrossingDown, steps, time.Second)

	riseErr, setErr := math.NaN(), math.NaN()
	if up.OK {
		riseErr = eventDiff(rise, up.Time)
	}
	if down.OK {
		setErr = eventDiff(set, down.Time)
	}
	return riseErr, setErr
}

// eventDiff returns ev - ref in minutes, or NaN when either is missing.
func eventDiff(ev suncalc.Event, ref time.Time) float64 {
	if !ev.OK || ref.IsZero() {
		return math.NaN()
	}
	return ev.Time.Sub(ref).Minutes()
}

func deg(r float64) float64 {
	return timeutil.Rad2Deg(r)
}

func (p *profile) print(days int) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("=== suncalc profiler: %s ===", p.site.Name)))
	fmt.Printf("Lat/Lon: %.4f / %.4f\n", p.site.Lat, p.site.Lon)
	fmt.Printf("TZ:      %s\n", p.site.Loc.String())
	fmt.Printf("Days:    %d\n\n", days)

	fmt.Printf("%-26s %6s %6s %10s %10s %10s %10s %10s %10s\n",
		"metric (ours - ref)", "n", "skip", "mean", "stddev", "min", "max", "mean|e|", "p95|e|")

	for _, s := range []*series{
		&p.sdRise, &p.sdSet, &p.sdNoon, &p.sdAltitude, &p.sdAzimuth, &p.sdFraction,
		&p.meeusAltitude, &p.meeusAzimuth, &p.meeusMoonDistance,
		&p.bisectRise, &p.bisectSet,
		&p.refRise, &p.refSet,
	} {
		if len(s.values) == 0 && s.skipped == 0 {
			continue
		}
		sum := s.summarize()
		label := s.name
		if s.unit != "" {
			label += " (" + s.unit + ")"
		}
		fmt.Printf("%-26s %6d %6d %10.4f %10.4f %10.4f %10.4f %10.4f %10.4f\n",
			label, sum.Count, sum.Skipped, sum.Mean, sum.StdDev, sum.Min, sum.Max, sum.MeanAbs, sum.P95Abs)
	}
	fmt.Println()
}

type refTimes struct {
	rise, set time.Time
}

// loadRefCSV reads date,rise,set rows keyed by date.
func loadRefCSV(path string, loc *time.Location) (map[string]refTimes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open refcsv %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // allow variable, we validate

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	refs := make(map[string]refTimes, len(records))
	for i, row := range records {
		// If first row looks like a header, skip it.
		if i == 0 && len(row) >= 1 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}
		if len(row) < 3 {
			log.Warnf("row %d: expected at least 3 columns (date,rise,set), got %d, skipping", i+1, len(row))
			continue
		}

		dateStr := strings.TrimSpace(row[0])
		date, err := time.ParseInLocation(time.DateOnly, dateStr, loc)
		if err != nil {
			log.Warnf("row %d: invalid date %q: %v, skipping", i+1, dateStr, err)
			continue
		}

		rise, err := parseLocalTime(date, strings.TrimSpace(row[1]), loc)
		if err != nil {
			log.Warnf("row %d: invalid rise time %q: %v, skipping", i+1, row[1], err)
			continue
		}
		set, err := parseLocalTime(date, strings.TrimSpace(row[2]), loc)
		if err != nil {
			log.Warnf("row %d: invalid set time %q: %v, skipping", i+1, row[2], err)
			continue
		}

		refs[dateStr] = refTimes{rise: rise, set: set}
	}

	log.Debugf("loaded %d reference rows from %s", len(refs), path)
	return refs, nil
}

func parseLocalTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	// Expect HH:MM (optionally HH:MM:SS).
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}

	parsed, err := time.ParseInLocation(layout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}
