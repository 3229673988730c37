package analytics

import (
	"fmt"

	"github.com/jouaraujo/curry-company/internal/models"
)

// UniqueCouriers counts distinct non-blank courier ids.
func UniqueCouriers(records []models.OrderRecord) int {
	return distinctCouriers(records)
}

type CityDistance struct {
	City   models.City `json:"city"`
	MeanKm float64     `json:"mean_km"`
	Share  float64     `json:"share"`
}

// DistanceSummary is the overall mean distance, or the per-city breakdown
// when requested by city.
type DistanceSummary struct {
	MeanKm float64        `json:"mean_km"`
	ByCity []CityDistance `json:"by_city,omitempty"`
}

func distance(r models.OrderRecord) float64 {
	return Haversine(r.Restaurant, r.Delivery)
}

// AverageDistance returns the mean restaurant to delivery distance in km,
// rounded to two decimals. With byCity set, ByCity holds each city's mean
// and its share of the sum of city means.
func AverageDistance(records []models.OrderRecord, byCity bool) (DistanceSummary, error) {
	if len(records) == 0 {
		return DistanceSummary{}, models.ErrNoData
	}

	overall, _ := summarize(pluck(records, distance))
	summary := DistanceSummary{MeanKm: round2(overall.Mean)}
	if !byCity {
		return summary, nil
	}

	groups := groupBy(records, func(r models.OrderRecord) models.City { return r.City })
	keys := sortedKeys(groups, func(a, b models.City) bool { return a < b })

	var total float64
	for _, k := range keys {
		s, _ := summarize(pluck(groups[k], distance))
		summary.ByCity = append(summary.ByCity, CityDistance{City: k, MeanKm: s.Mean})
		total += s.Mean
	}
	for i := range summary.ByCity {
		if total > 0 {
			summary.ByCity[i].Share = summary.ByCity[i].MeanKm / total
		}
	}
	return summary, nil
}

// TimeByCity returns delivery time mean and std per city.
func TimeByCity(records []models.OrderRecord) []GroupStats {
	groups := groupBy(records, func(r models.OrderRecord) models.City { return r.City })
	keys := sortedKeys(groups, func(a, b models.City) bool { return a < b })

	out := make([]GroupStats, 0, len(keys))
	for _, k := range keys {
		s, _ := summarize(pluck(groups[k], timeTaken))
		out = append(out, GroupStats{Group: k.String(), Summary: s})
	}
	return out
}

type CityTrafficStats struct {
	City    models.City           `json:"city"`
	Traffic models.TrafficDensity `json:"traffic"`
	Summary
}

// TrafficTimeTree feeds the city/traffic sunburst. StdMidpoint is the mean of
// the cell standard deviations and centers the color scale.
type TrafficTimeTree struct {
	Cells       []CityTrafficStats `json:"cells"`
	StdMidpoint float64            `json:"std_midpoint"`
}

// TimeByCityTraffic returns delivery time mean and std per (city, traffic).
func TimeByCityTraffic(records []models.OrderRecord) TrafficTimeTree {
	groups := groupBy(records, byCityTraffic)
	keys := sortedKeys(groups, lessCityTraffic)

	tree := TrafficTimeTree{Cells: make([]CityTrafficStats, 0, len(keys))}
	var stdSum float64
	for _, k := range keys {
		s, _ := summarize(pluck(groups[k], timeTaken))
		tree.Cells = append(tree.Cells, CityTrafficStats{City: k.City, Traffic: k.Traffic, Summary: s})
		stdSum += s.Std
	}
	if len(tree.Cells) > 0 {
		tree.StdMidpoint = stdSum / float64(len(tree.Cells))
	}
	return tree
}

type TimeMetric string

const (
	AvgTime TimeMetric = "avg_time"
	StdTime TimeMetric = "std_time"
)

// ParseTimeMetric accepts "avg_time" and "std_time".
func ParseTimeMetric(s string) (TimeMetric, error) {
	switch m := TimeMetric(s); m {
	case AvgTime, StdTime:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// FestivalTime returns the delivery time mean or std, rounded to two
// decimals, of the orders with the given festival flag. ErrNoData means no
// order has that flag.
func FestivalTime(records []models.OrderRecord, festival models.Festival, metric TimeMetric) (float64, error) {
	if _, err := ParseTimeMetric(string(metric)); err != nil {
		return 0, err
	}

	groups := groupBy(records, func(r models.OrderRecord) models.Festival { return r.Festival })
	group, ok := groups[festival]
	if !ok {
		return 0, fmt.Errorf("festival %s: %w", festival, models.ErrNoData)
	}

	s, _ := summarize(pluck(group, timeTaken))
	if metric == StdTime {
		return round2(s.Std), nil
	}
	return round2(s.Mean), nil
}

type CityOrderTypeStats struct {
	City      models.City `json:"city"`
	OrderType string      `json:"type_of_order"`
	Summary
}

// TimeByCityOrderType returns delivery time mean and std per
// (city, order type).
func TimeByCityOrderType(records []models.OrderRecord) []CityOrderTypeStats {
	type cityOrderType struct {
		City      models.City
		OrderType string
	}

	groups := groupBy(records, func(r models.OrderRecord) cityOrderType {
		return cityOrderType{City: r.City, OrderType: r.OrderType}
	})
	keys := sortedKeys(groups, func(a, b cityOrderType) bool {
		if a.City != b.City {
			return a.City < b.City
		}
		return a.OrderType < b.OrderType
	})

	out := make([]CityOrderTypeStats, 0, len(keys))
	for _, k := range keys {
		s, _ := summarize(pluck(groups[k], timeTaken))
		out = append(out, CityOrderTypeStats{City: k.City, OrderType: k.OrderType, Summary: s})
	}
	return out
}
