package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// site is one observer location to profile.
type site struct {
	Name   string
	Lat    float64
	Lon    float64
	Loc    *time.Location
	RefCSV string
}

// siteYAML mirrors one entry of the sites file:
//
//	sites:
//	  - name: Phoenix
//	    lat: 33.4484
//	    lon: -112.0740
//	    tz: America/Phoenix
//	    refcsv: testdata/phoenix-2025.csv
type siteYAML struct {
	Name   string  `yaml:"name"`
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
	TZ     string  `yaml:"tz,omitempty"`
	RefCSV string  `yaml:"refcsv,omitempty"`
}

// loadSites reads a YAML sites file.
func loadSites(filename string) ([]site, error) {
	cfgFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseSites(cfgFile)
}

func parseSites(data []byte) ([]site, error) {
	var yamlConfig struct {
		Sites []siteYAML `yaml:"sites"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}
	if len(yamlConfig.Sites) == 0 {
		return nil, fmt.Errorf("no sites defined")
	}

	sites := make([]site, 0, len(yamlConfig.Sites))
	for i, s := range yamlConfig.Sites {
		if s.Lat < -90 || s.Lat > 90 {
			return nil, fmt.Errorf("site %d (%s): latitude %v out of range", i, s.Name, s.Lat)
		}

		tz := s.TZ
		if tz == "" {
			tz = "UTC"
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("site %d (%s): %w", i, s.Name, err)
		}

		name := s.Name
		if name == "" {
			name = fmt.Sprintf("%.4f,%.4f", s.Lat, s.Lon)
		}

		sites = append(sites, site{
			Name:   name,
			Lat:    s.Lat,
			Lon:    s.Lon,
			Loc:    loc,
			RefCSV: s.RefCSV,
		})
	}

	return sites, nil
}
