package analytics

import (
	"math"
	"sort"

	"github.com/jouaraujo/curry-company/internal/models"
)

// TopN is the number of couriers ranked per city.
const TopN = 10

type SortDirection int

const (
	Fastest SortDirection = iota
	Slowest
)

func (d SortDirection) String() string {
	if d == Slowest {
		return "slowest"
	}
	return "fastest"
}

type CourierTime struct {
	City         models.City `json:"city"`
	CourierID    string      `json:"delivery_person_id"`
	MaxTimeTaken int         `json:"max_time_taken_min"`
}

// TopCouriers ranks couriers within each city by their longest delivery time
// and keeps the first TopN per city. Cities follow models.Cities order.
func TopCouriers(records []models.OrderRecord, dir SortDirection) []CourierTime {
	type cityCourier struct {
		City      models.City
		CourierID string
	}

	longest := make(map[cityCourier]int)
	for _, r := range records {
		k := cityCourier{City: r.City, CourierID: r.DeliveryPersonID}
		if cur, ok := longest[k]; !ok || r.TimeTaken > cur {
			longest[k] = r.TimeTaken
		}
	}

	perCity := make(map[models.City][]CourierTime)
	for k, t := range longest {
		perCity[k.City] = append(perCity[k.City], CourierTime{City: k.City, CourierID: k.CourierID, MaxTimeTaken: t})
	}

	var out []CourierTime
	for _, city := range models.Cities {
		ranked := perCity[city]
		sort.Slice(ranked, func(i, j int) bool {
			a, b := ranked[i], ranked[j]
			if a.MaxTimeTaken != b.MaxTimeTaken {
				if dir == Slowest {
					return a.MaxTimeTaken > b.MaxTimeTaken
				}
				return a.MaxTimeTaken < b.MaxTimeTaken
			}
			return a.CourierID < b.CourierID
		})
		if len(ranked) > TopN {
			ranked = ranked[:TopN]
		}
		out = append(out, ranked...)
	}
	if out == nil {
		out = []CourierTime{}
	}
	return out
}

type CourierRating struct {
	CourierID  string  `json:"delivery_person_id"`
	Ratings    int     `json:"ratings"`
	MeanRating float64 `json:"mean_rating"`
}

// RatingPerCourier averages each courier's ratings. Couriers with no rating
// at all are left out.
func RatingPerCourier(records []models.OrderRecord) []CourierRating {
	groups := groupBy(records, func(r models.OrderRecord) string { return r.DeliveryPersonID })
	keys := sortedKeys(groups, lessString)

	out := make([]CourierRating, 0, len(keys))
	for _, k := range keys {
		s, ok := summarize(pluck(groups[k], rating))
		if !ok {
			continue
		}
		out = append(out, CourierRating{CourierID: k, Ratings: s.Count, MeanRating: s.Mean})
	}
	return out
}

// GroupStats summarizes one group keyed by a single label.
type GroupStats struct {
	Group string `json:"group"`
	Summary
}

// RatingByTraffic returns rating mean and std per traffic density.
func RatingByTraffic(records []models.OrderRecord) []GroupStats {
	groups := groupBy(records, func(r models.OrderRecord) models.TrafficDensity { return r.Traffic })
	keys := sortedKeys(groups, func(a, b models.TrafficDensity) bool { return a < b })

	out := make([]GroupStats, 0, len(keys))
	for _, k := range keys {
		if s, ok := summarize(pluck(groups[k], rating)); ok {
			out = append(out, GroupStats{Group: k.String(), Summary: s})
		}
	}
	return out
}

// RatingByWeather returns rating mean and std per weather label.
func RatingByWeather(records []models.OrderRecord) []GroupStats {
	groups := groupBy(records, func(r models.OrderRecord) string { return r.Weather })
	keys := sortedKeys(groups, lessString)

	out := make([]GroupStats, 0, len(keys))
	for _, k := range keys {
		if s, ok := summarize(pluck(groups[k], rating)); ok {
			out = append(out, GroupStats{Group: k, Summary: s})
		}
	}
	return out
}

type Overview struct {
	OldestAge             int `json:"oldest_age"`
	YoungestAge           int `json:"youngest_age"`
	BestVehicleCondition  int `json:"best_vehicle_condition"`
	WorstVehicleCondition int `json:"worst_vehicle_condition"`
}

// CourierOverview returns the age and vehicle condition extremes.
func CourierOverview(records []models.OrderRecord) (Overview, error) {
	if len(records) == 0 {
		return Overview{}, models.ErrNoData
	}

	o := Overview{
		OldestAge:             math.MinInt,
		YoungestAge:           math.MaxInt,
		BestVehicleCondition:  math.MinInt,
		WorstVehicleCondition: math.MaxInt,
	}
	for _, r := range records {
		o.OldestAge = max(o.OldestAge, r.DeliveryPersonAge)
		o.YoungestAge = min(o.YoungestAge, r.DeliveryPersonAge)
		o.BestVehicleCondition = max(o.BestVehicleCondition, r.VehicleCondition)
		o.WorstVehicleCondition = min(o.WorstVehicleCondition, r.VehicleCondition)
	}
	return o, nil
}
