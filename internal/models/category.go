package models

import (
	"encoding/json"
	"fmt"
)

// TrafficDensity is the road congestion level at order time.
type TrafficDensity int

const (
	TrafficLow TrafficDensity = iota
	TrafficMedium
	TrafficHigh
	TrafficJam
)

// TrafficDensities lists every traffic density in display order.
var TrafficDensities = []TrafficDensity{TrafficLow, TrafficMedium, TrafficHigh, TrafficJam}

var trafficNames = map[TrafficDensity]string{
	TrafficLow:    "Low",
	TrafficMedium: "Medium",
	TrafficHigh:   "High",
	TrafficJam:    "Jam",
}

func (t TrafficDensity) String() string {
	if name, ok := trafficNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TrafficDensity(%d)", int(t))
}

func (t TrafficDensity) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ParseTrafficDensity maps a trimmed label to its TrafficDensity.
func ParseTrafficDensity(s string) (TrafficDensity, error) {
	for t, name := range trafficNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown traffic density %q", ErrUnknownCategory, s)
}

// City is the urbanization tier of the delivery area.
type City int

const (
	CityMetropolitan City = iota
	CityUrban
	CitySemiUrban
)

// Cities lists every city category in the order the courier ranking uses.
var Cities = []City{CityMetropolitan, CityUrban, CitySemiUrban}

var cityNames = map[City]string{
	CityMetropolitan: "Metropolitan",
	CityUrban:        "Urban",
	CitySemiUrban:    "Semi-Urban",
}

func (c City) String() string {
	if name, ok := cityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("City(%d)", int(c))
}

func (c City) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// ParseCity maps a trimmed label to its City. The dataset spells the
// metropolitan tier "Metropolitian"; both spellings are accepted.
func ParseCity(s string) (City, error) {
	if s == "Metropolitian" {
		return CityMetropolitan, nil
	}
	for c, name := range cityNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown city %q", ErrUnknownCategory, s)
}

// Festival tells whether the order was placed during a festival.
type Festival bool

const (
	FestivalYes Festival = true
	FestivalNo  Festival = false
)

func (f Festival) String() string {
	if f {
		return "Yes"
	}
	return "No"
}

func (f Festival) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func ParseFestival(s string) (Festival, error) {
	switch s {
	case "Yes":
		return FestivalYes, nil
	case "No":
		return FestivalNo, nil
	}
	return false, fmt.Errorf("%w: unknown festival flag %q", ErrUnknownCategory, s)
}
