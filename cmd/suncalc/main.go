package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thurmanmarka/suncalc"
	"github.com/thurmanmarka/suncalc/internal/log"
	"github.com/thurmanmarka/suncalc/internal/timeutil"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
)

func main() {
	// No args or a leading flag runs the default "times" mode.
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		runTimes(os.Args[1:])
		return
	}

	switch os.Args[1] {
	case "times":
		runTimes(os.Args[2:])
	case "position":
		runPosition(os.Args[2:])
	case "moon":
		runMoon(os.Args[2:])
	case "phase":
		runPhase(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `suncalc - sun and moon positions, phases and event times

Usage:
  suncalc [times] [flags]      # sunrise, sunset, twilight and golden hour
  suncalc position [flags]     # Sun and Moon azimuth/altitude
  suncalc moon [flags]         # moonrise and moonset
  suncalc phase [flags]        # Moon illumination and phase

Common flags:
  -lat float      latitude in degrees (north positive)
  -lon float      longitude in degrees (east positive, west negative)
  -time string    RFC3339, YYYY-MM-DDTHH:MM or YYYY-MM-DD (defaults to now)
  -tz string      IANA time zone name (default "Local")
  -json           output result as JSON
  -debug          verbose logging

Run "suncalc <subcommand> -h" for subcommand flags.
`)
}

// options are the flags shared by every subcommand.
type options struct {
	lat, lon float64
	timeStr  string
	tzName   string
	jsonOut  bool
	debug    bool
}

func newFlagSet(name string) (*flag.FlagSet, *options) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	o := &options{}

	fs.Float64Var(&o.lat, "lat", 0, "latitude in degrees (north positive)")
	fs.Float64Var(&o.lon, "lon", 0, "longitude in degrees (east positive, west negative)")
	fs.StringVar(&o.timeStr, "time", "", "time in RFC3339, 'YYYY-MM-DDTHH:MM' or 'YYYY-MM-DD' (optional, defaults to now)")
	fs.StringVar(&o.tzName, "tz", "Local", "IANA time zone name (e.g. America/Phoenix)")
	fs.BoolVar(&o.jsonOut, "json", false, "output result as JSON")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: suncalc %s [flags]\n\nFlags:\n", name)
		fs.PrintDefaults()
	}

	return fs, o
}

// parse parses args, initializes logging and resolves the requested instant.
func (o *options) parse(fs *flag.FlagSet, args []string) time.Time {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	if err := log.Init(o.debug); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if o.lat == 0 && o.lon == 0 {
		log.Warnf("lat=0 lon=0 (Gulf of Guinea); use -lat and -lon to set a real location")
	}
	if o.lat < -90 || o.lat > 90 {
		log.Fatalf("invalid -lat %v: must be within [-90, 90]", o.lat)
	}

	loc, err := time.LoadLocation(o.tzName)
	if err != nil {
		log.Fatalf("invalid time zone %q: %v", o.tzName, err)
	}

	t, err := parseTime(o.timeStr, loc)
	if err != nil {
		log.Fatalf("could not parse -time %q: %v", o.timeStr, err)
	}

	log.Debugw("resolved observer", "lat", o.lat, "lon", o.lon, "time", t.Format(time.RFC3339))
	return t
}

// parseTime accepts a few common layouts. A bare date resolves to local
// noon so that the nearest solar transit falls on that date.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}

	if d, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return d.Add(12 * time.Hour), nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	var parseErr error
	for _, layout := range layouts {
		var t time.Time
		t, parseErr = time.ParseInLocation(layout, s, loc)
		if parseErr == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, parseErr
}

// ---------------------
// Times (default) mode
// ---------------------

// addFlag collects repeated -add angle:morning:evening definitions.
type addFlag []suncalc.TimeDefinition

func (a *addFlag) String() string {
	parts := make([]string, 0, len(*a))
	for _, d := range *a {
		parts = append(parts, fmt.Sprintf("%g:%s:%s", d.Angle, d.MorningName, d.EveningName))
	}
	return strings.Join(parts, ",")
}

func (a *addFlag) Set(v string) error {
	fields := strings.SplitN(v, ":", 3)
	if len(fields) != 3 || fields[1] == "" || fields[2] == "" {
		return fmt.Errorf("want angle:morningName:eveningName, got %q", v)
	}
	angle, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("invalid angle %q: %w", fields[0], err)
	}
	*a = append(*a, suncalc.TimeDefinition{Angle: angle, MorningName: fields[1], EveningName: fields[2]})
	return nil
}

type namedEvent struct {
	Name string
	suncalc.Event
}

func runTimes(args []string) {
	fs, o := newFlagSet("times")
	var extra addFlag
	fs.Var(&extra, "add", "extra event `angle:morning:evening` in degrees (repeatable)")

	t := o.parse(fs, args)
	defer log.Sync()

	for _, d := range extra {
		log.Debugw("adding time definition", "angle", d.Angle, "morning", d.MorningName, "evening", d.EveningName)
		suncalc.AddTime(d.Angle, d.MorningName, d.EveningName)
	}

	times, err := suncalc.GetTimes(t, o.lat, o.lon)
	if err != nil {
		log.Fatalf("error computing sun times: %v", err)
	}

	events := make([]namedEvent, 0, len(times))
	for name, ev := range times {
		events = append(events, namedEvent{Name: name, Event: ev})
	}
	// Chronological, with events that do not occur last.
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.OK != b.OK {
			return a.OK
		}
		if !a.OK || a.JulianDay == b.JulianDay {
			return a.Name < b.Name
		}
		return a.JulianDay < b.JulianDay
	})

	daylight, dlErr := suncalc.DaylightHours(t, o.lat, o.lon)
	if dlErr != nil {
		log.Debugw("no daylight span", "err", dlErr)
	}

	if o.jsonOut {
		out := struct {
			Latitude  float64               `json:"latitude"`
			Longitude float64               `json:"longitude"`
			Time      time.Time             `json:"time"`
			Timezone  string                `json:"timezone"`
			Daylight  *float64              `json:"daylightHours,omitempty"`
			Events    map[string]*time.Time `json:"events"`
		}{
			Latitude:  o.lat,
			Longitude: o.lon,
			Time:      t,
			Timezone:  t.Location().String(),
			Events:    make(map[string]*time.Time, len(events)),
		}
		if dlErr == nil {
			out.Daylight = &daylight
		}
		for _, ev := range events {
			if ev.OK {
				at := ev.Time
				out.Events[ev.Name] = &at
			} else {
				out.Events[ev.Name] = nil
			}
		}
		printJSON(out)
		return
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Sun times for lat=%.6f lon=%.6f", o.lat, o.lon)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("%s (%s)", t.Format(time.DateOnly), t.Location())))
	fmt.Println()
	for _, ev := range events {
		fmt.Println(row(ev.Name, formatEvent(ev.Event)))
	}
	if dlErr == nil {
		fmt.Println()
		fmt.Println(row("daylight", fmt.Sprintf("%.2f h", daylight)))
	}
}

func formatEvent(ev suncalc.Event) string {
	if !ev.OK {
		return dimStyle.Render("-")
	}
	return valueStyle.Render(ev.Time.Format("15:04:05 MST"))
}

// ---------------------
// Position subcommand
// ---------------------

func runPosition(args []string) {
	fs, o := newFlagSet("position")
	t := o.parse(fs, args)
	defer log.Sync()

	sun := suncalc.GetPosition(t, o.lat, o.lon)
	moon := suncalc.GetMoonPosition(t, o.lat, o.lon)

	if o.jsonOut {
		type body struct {
			AzimuthDeg  float64  `json:"azimuthDeg"`
			AltitudeDeg float64  `json:"altitudeDeg"`
			DistanceKm  *float64 `json:"distanceKm,omitempty"`
		}
		out := struct {
			Time time.Time `json:"time"`
			Sun  body      `json:"sun"`
			Moon body      `json:"moon"`
		}{
			Time: t,
			Sun:  body{AzimuthDeg: compassDeg(sun.Azimuth), AltitudeDeg: deg(sun.Altitude)},
			Moon: body{AzimuthDeg: compassDeg(moon.Azimuth), AltitudeDeg: deg(moon.Altitude), DistanceKm: &moon.Distance},
		}
		printJSON(out)
		return
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Positions at %s", t.Format(time.RFC3339))))
	fmt.Println(dimStyle.Render(fmt.Sprintf("lat=%.6f lon=%.6f, azimuth from north", o.lat, o.lon)))
	fmt.Println()
	fmt.Println(row("sun azimuth", valueStyle.Render(fmt.Sprintf("%.2f°", compassDeg(sun.Azimuth)))))
	fmt.Println(row("sun altitude", valueStyle.Render(fmt.Sprintf("%.2f°", deg(sun.Altitude)))))
	fmt.Println(row("moon azimuth", valueStyle.Render(fmt.Sprintf("%.2f°", compassDeg(moon.Azimuth)))))
	fmt.Println(row("moon altitude", valueStyle.Render(fmt.Sprintf("%.2f°", deg(moon.Altitude)))))
	fmt.Println(row("moon distance", valueStyle.Render(fmt.Sprintf("%.0f km", moon.Distance))))
}

// ---------------------
// Moon subcommand
// ---------------------

func runMoon(args []string) {
	fs, o := newFlagSet("moon")
	inUTC := fs.Bool("utc", false, "use the UTC calendar day instead of the local one")
	t := o.parse(fs, args)
	defer log.Sync()

	mt, err := suncalc.GetMoonTimes(t, o.lat, o.lon, *inUTC)
	if err != nil {
		log.Fatalf("error computing moon times: %v", err)
	}

	if o.jsonOut {
		out := struct {
			Latitude   float64    `json:"latitude"`
			Longitude  float64    `json:"longitude"`
			Date       string     `json:"date"`
			Rise       *time.Time `json:"rise,omitempty"`
			Set        *time.Time `json:"set,omitempty"`
			AlwaysUp   bool       `json:"alwaysUp,omitempty"`
			AlwaysDown bool       `json:"alwaysDown,omitempty"`
		}{
			Latitude:   o.lat,
			Longitude:  o.lon,
			Date:       t.Format(time.DateOnly),
			AlwaysUp:   mt.AlwaysUp,
			AlwaysDown: mt.AlwaysDown,
		}
		if mt.HasRise {
			out.Rise = &mt.Rise
		}
		if mt.HasSet {
			out.Set = &mt.Set
		}
		printJSON(out)
		return
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Moon rise/set for lat=%.6f lon=%.6f", o.lat, o.lon)))
	fmt.Println(dimStyle.Render(fmt.Sprintf("%s (%s)", t.Format(time.DateOnly), t.Location())))
	fmt.Println()

	switch {
	case mt.AlwaysUp:
		fmt.Println(valueStyle.Render("Moon is above the horizon all day"))
	case mt.AlwaysDown:
		fmt.Println(valueStyle.Render("Moon is below the horizon all day"))
	default:
		fmt.Println(row("rise", formatOptional(mt.Rise, mt.HasRise)))
		fmt.Println(row("set", formatOptional(mt.Set, mt.HasSet)))
	}
}

func formatOptional(t time.Time, ok bool) string {
	if !ok {
		return dimStyle.Render("-")
	}
	return valueStyle.Render(t.Format("15:04:05 MST"))
}

// ---------------------
// Phase subcommand
// ---------------------

func runPhase(args []string) {
	fs, o := newFlagSet("phase")
	t := o.parse(fs, args)
	defer log.Sync()

	il := suncalc.GetMoonIllumination(t)
	log.Debugw("moon illumination", "fraction", il.Fraction, "phase", il.Phase, "angle", il.Angle)

	if o.jsonOut {
		out := struct {
			Time     time.Time `json:"time"`
			Name     string    `json:"name"`
			Fraction float64   `json:"fraction"`
			Phase    float64   `json:"phase"`
			AngleDeg float64   `json:"angleDeg"`
			Waxing   bool      `json:"waxing"`
		}{
			Time:     t,
			Name:     il.PhaseName(),
			Fraction: il.Fraction,
			Phase:    il.Phase,
			AngleDeg: deg(il.Angle),
			Waxing:   il.Waxing(),
		}
		printJSON(out)
		return
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Moon phase at %s (%s)", t.Format(time.RFC3339), t.Location())))
	fmt.Println()
	fmt.Println(row("name", valueStyle.Render(il.PhaseName())))
	fmt.Println(row("fraction", valueStyle.Render(fmt.Sprintf("%.3f (%.1f%% illuminated)", il.Fraction, il.Fraction*100))))
	fmt.Println(row("phase", valueStyle.Render(fmt.Sprintf("%.3f", il.Phase))))
	fmt.Println(row("limb angle", valueStyle.Render(fmt.Sprintf("%.2f°", deg(il.Angle)))))
	if il.Waxing() {
		fmt.Println(row("trend", valueStyle.Render("Waxing (illumination increasing)")))
	} else {
		fmt.Println(row("trend", valueStyle.Render("Waning (illumination decreasing)")))
	}
}

// ---------------------
// Shared helpers
// ---------------------

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func deg(r float64) float64 {
	return timeutil.Rad2Deg(r)
}

// compassDeg converts a south-based azimuth to degrees clockwise from north.
func compassDeg(az float64) float64 {
	return timeutil.Normalize360(deg(az) + 180)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("failed to encode JSON: %v", err)
	}
}
