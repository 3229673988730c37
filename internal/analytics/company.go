// Package analytics computes the dashboard aggregations over cleaned orders.
// Every function is pure and recomputes from the records it is given.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/jouaraujo/curry-company/internal/models"
)

type DateCount struct {
	Date   time.Time `json:"date"`
	Orders int       `json:"orders"`
}

// OrdersPerDay counts orders per order date, ascending.
func OrdersPerDay(records []models.OrderRecord) []DateCount {
	groups := groupBy(records, func(r models.OrderRecord) time.Time { return r.OrderDate })
	keys := sortedKeys(groups, func(a, b time.Time) bool { return a.Before(b) })

	out := make([]DateCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, DateCount{Date: k, Orders: len(groups[k])})
	}
	return out
}

type TrafficPortion struct {
	Traffic models.TrafficDensity `json:"traffic"`
	Orders  int                   `json:"orders"`
	Share   float64               `json:"share"`
}

// TrafficShare returns the fraction of orders under each traffic density.
// The shares sum to 1 for non-empty input.
func TrafficShare(records []models.OrderRecord) []TrafficPortion {
	groups := groupBy(records, func(r models.OrderRecord) models.TrafficDensity { return r.Traffic })
	keys := sortedKeys(groups, func(a, b models.TrafficDensity) bool { return a < b })

	out := make([]TrafficPortion, 0, len(keys))
	for _, k := range keys {
		n := len(groups[k])
		out = append(out, TrafficPortion{
			Traffic: k,
			Orders:  n,
			Share:   float64(n) / float64(len(records)),
		})
	}
	return out
}

type CityTrafficCount struct {
	City    models.City           `json:"city"`
	Traffic models.TrafficDensity `json:"traffic"`
	Orders  int                   `json:"orders"`
}

// TrafficByCity counts orders per (city, traffic) pair.
func TrafficByCity(records []models.OrderRecord) []CityTrafficCount {
	groups := groupBy(records, byCityTraffic)
	keys := sortedKeys(groups, lessCityTraffic)

	out := make([]CityTrafficCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, CityTrafficCount{City: k.City, Traffic: k.Traffic, Orders: len(groups[k])})
	}
	return out
}

// WeekLabel returns the zero padded week of the year with weeks starting on
// Sunday. Days before the first Sunday of the year fall in week "00".
func WeekLabel(t time.Time) string {
	yday := t.YearDay() - 1
	wday := int(t.Weekday())
	return fmt.Sprintf("%02d", (yday+7-wday)/7)
}

type WeekCount struct {
	Week   string `json:"week"`
	Orders int    `json:"orders"`
}

func byWeek(r models.OrderRecord) string { return WeekLabel(r.OrderDate) }

func lessString(a, b string) bool { return a < b }

// OrdersPerWeek counts orders per week label, ascending.
func OrdersPerWeek(records []models.OrderRecord) []WeekCount {
	groups := groupBy(records, byWeek)
	keys := sortedKeys(groups, lessString)

	out := make([]WeekCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, WeekCount{Week: k, Orders: len(groups[k])})
	}
	return out
}

type WeekRatio struct {
	Week             string  `json:"week"`
	Orders           int     `json:"orders"`
	Couriers         int     `json:"couriers"`
	OrdersPerCourier float64 `json:"orders_per_courier"`
}

// OrdersPerCourierPerWeek divides each week's order count by the number of
// distinct couriers that delivered in that week. Blank courier ids are not
// counted; a week left with none yields ErrNoCouriers.
func OrdersPerCourierPerWeek(records []models.OrderRecord) ([]WeekRatio, error) {
	groups := groupBy(records, byWeek)
	keys := sortedKeys(groups, lessString)

	out := make([]WeekRatio, 0, len(keys))
	for _, k := range keys {
		couriers := distinctCouriers(groups[k])
		if couriers == 0 {
			return nil, fmt.Errorf("week %s: %w", k, ErrNoCouriers)
		}
		orders := len(groups[k])
		out = append(out, WeekRatio{
			Week:             k,
			Orders:           orders,
			Couriers:         couriers,
			OrdersPerCourier: float64(orders) / float64(couriers),
		})
	}
	return out, nil
}

func distinctCouriers(records []models.OrderRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.DeliveryPersonID != "" {
			seen[r.DeliveryPersonID] = struct{}{}
		}
	}
	return len(seen)
}

type CellLocation struct {
	City     models.City           `json:"city"`
	Traffic  models.TrafficDensity `json:"traffic"`
	Location models.Location       `json:"location"`
}

// MedianLocations returns the median delivery coordinates of each
// (city, traffic) cell.
func MedianLocations(records []models.OrderRecord) []CellLocation {
	groups := groupBy(records, byCityTraffic)
	keys := sortedKeys(groups, lessCityTraffic)

	out := make([]CellLocation, 0, len(keys))
	for _, k := range keys {
		cell := groups[k]
		loc := models.Location{
			Lat: median(pluck(cell, func(r models.OrderRecord) float64 { return r.Delivery.Lat })),
			Lon: median(pluck(cell, func(r models.OrderRecord) float64 { return r.Delivery.Lon })),
		}
		if math.IsNaN(loc.Lat) || math.IsNaN(loc.Lon) {
			continue
		}
		out = append(out, CellLocation{City: k.City, Traffic: k.Traffic, Location: loc})
	}
	return out
}
