package ingest

import (
	"maps"
	"strings"
)

// DefaultStations maps full station names seen in source files to their codes.
var DefaultStations = map[string]string{
	"Austin":            "AUS",
	"Dallas":            "DAL",
	"Dallas Love Field": "DAL",
	"Dallas Lovefield":  "DAL",
	"Houston":           "HOU",
	"Houston Hobby":     "HOU",
}

// StationMap resolves station names to short codes. Lookups are
// case-insensitive; unknown names pass through unchanged.
type StationMap struct {
	codes map[string]string
}

// NewStationMap layers overrides on top of DefaultStations.
func NewStationMap(overrides map[string]string) StationMap {
	merged := maps.Clone(DefaultStations)
	maps.Copy(merged, overrides)

	codes := make(map[string]string, len(merged))
	for name, code := range merged {
		codes[strings.ToLower(strings.TrimSpace(name))] = code
	}
	return StationMap{codes: codes}
}

// Code returns the code for name, or name itself when it is not mapped.
func (m StationMap) Code(name string) string {
	if code, ok := m.codes[strings.ToLower(name)]; ok {
		return code
	}
	return name
}
