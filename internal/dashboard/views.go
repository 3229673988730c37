package dashboard

import (
	"errors"
	"strconv"

	"github.com/jouaraujo/curry-company/internal/analytics"
	"github.com/jouaraujo/curry-company/internal/models"
)

// View identifiers.
const (
	OrdersPerDay            = "orders_per_day"
	TrafficShare            = "traffic_share"
	TrafficByCity           = "traffic_by_city"
	OrdersPerWeek           = "orders_per_week"
	OrdersPerCourierPerWeek = "orders_per_courier_per_week"
	MedianLocations         = "median_locations"
	CourierOverview         = "courier_overview"
	TopFastestCouriers      = "top_fastest_couriers"
	TopSlowestCouriers      = "top_slowest_couriers"
	RatingPerCourier        = "rating_per_courier"
	RatingByTraffic         = "rating_by_traffic"
	RatingByWeather         = "rating_by_weather"
	UniqueCouriers          = "unique_couriers"
	AverageDistance         = "average_distance"
	DistanceByCity          = "distance_by_city"
	TimeByCity              = "time_by_city"
	TimeByCityTraffic       = "time_by_city_traffic"
	FestivalTime            = "festival_time"
	TimeByCityOrderType     = "time_by_city_order_type"
)

type result struct {
	value any
	table Table
}

type view struct {
	name string
	run  func([]models.OrderRecord) (result, error)
}

// define binds a typed aggregation to its table layout.
func define[T any](name string, compute func([]models.OrderRecord) (T, error), header []string, rows func(T) [][]string) view {
	return view{
		name: name,
		run: func(records []models.OrderRecord) (result, error) {
			v, err := compute(records)
			if err != nil {
				return result{}, err
			}
			return result{value: v, table: Table{Name: name, Header: header, Rows: rows(v)}}, nil
		},
	}
}

// infallible adapts an aggregation that cannot fail.
func infallible[T any](f func([]models.OrderRecord) T) func([]models.OrderRecord) (T, error) {
	return func(records []models.OrderRecord) (T, error) { return f(records), nil }
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func summaryCells(s analytics.Summary) []string {
	return []string{strconv.Itoa(s.Count), num(s.Mean), num(s.Std)}
}

func groupRows(stats []analytics.GroupStats) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, append([]string{s.Group}, summaryCells(s.Summary)...))
	}
	return rows
}

func courierRows(ranked []analytics.CourierTime) [][]string {
	rows := make([][]string, 0, len(ranked))
	for _, c := range ranked {
		rows = append(rows, []string{c.City.String(), c.CourierID, strconv.Itoa(c.MaxTimeTaken)})
	}
	return rows
}

// FestivalMetric is one cell of the festival lookup table.
type FestivalMetric struct {
	Festival models.Festival      `json:"festival"`
	Metric   analytics.TimeMetric `json:"metric"`
	Value    float64              `json:"value"`
}

// festivalTable evaluates every festival flag and metric. Flags absent from
// the records are skipped.
func festivalTable(records []models.OrderRecord) ([]FestivalMetric, error) {
	out := make([]FestivalMetric, 0, 4)
	for _, f := range []models.Festival{models.FestivalYes, models.FestivalNo} {
		for _, m := range []analytics.TimeMetric{analytics.AvgTime, analytics.StdTime} {
			v, err := analytics.FestivalTime(records, f, m)
			if errors.Is(err, models.ErrNoData) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, FestivalMetric{Festival: f, Metric: m, Value: v})
		}
	}
	return out, nil
}

var views = []view{
	define(OrdersPerDay, infallible(analytics.OrdersPerDay),
		[]string{"order_date", "orders"},
		func(v []analytics.DateCount) [][]string {
			rows := make([][]string, 0, len(v))
			for _, d := range v {
				rows = append(rows, []string{d.Date.Format(models.DateLayout), strconv.Itoa(d.Orders)})
			}
			return rows
		}),
	define(TrafficShare, infallible(analytics.TrafficShare),
		[]string{"traffic", "orders", "share"},
		func(v []analytics.TrafficPortion) [][]string {
			rows := make([][]string, 0, len(v))
			for _, p := range v {
				rows = append(rows, []string{p.Traffic.String(), strconv.Itoa(p.Orders), num(p.Share)})
			}
			return rows
		}),
	define(TrafficByCity, infallible(analytics.TrafficByCity),
		[]string{"city", "traffic", "orders"},
		func(v []analytics.CityTrafficCount) [][]string {
			rows := make([][]string, 0, len(v))
			for _, c := range v {
				rows = append(rows, []string{c.City.String(), c.Traffic.String(), strconv.Itoa(c.Orders)})
			}
			return rows
		}),
	define(OrdersPerWeek, infallible(analytics.OrdersPerWeek),
		[]string{"week", "orders"},
		func(v []analytics.WeekCount) [][]string {
			rows := make([][]string, 0, len(v))
			for _, w := range v {
				rows = append(rows, []string{w.Week, strconv.Itoa(w.Orders)})
			}
			return rows
		}),
	define(OrdersPerCourierPerWeek, analytics.OrdersPerCourierPerWeek,
		[]string{"week", "orders", "couriers", "orders_per_courier"},
		func(v []analytics.WeekRatio) [][]string {
			rows := make([][]string, 0, len(v))
			for _, w := range v {
				rows = append(rows, []string{w.Week, strconv.Itoa(w.Orders), strconv.Itoa(w.Couriers), num(w.OrdersPerCourier)})
			}
			return rows
		}),
	define(MedianLocations, infallible(analytics.MedianLocations),
		[]string{"city", "traffic", "latitude", "longitude"},
		func(v []analytics.CellLocation) [][]string {
			rows := make([][]string, 0, len(v))
			for _, c := range v {
				rows = append(rows, []string{c.City.String(), c.Traffic.String(), num(c.Location.Lat), num(c.Location.Lon)})
			}
			return rows
		}),
	define(CourierOverview, analytics.CourierOverview,
		[]string{"oldest_age", "youngest_age", "best_vehicle_condition", "worst_vehicle_condition"},
		func(o analytics.Overview) [][]string {
			return [][]string{{
				strconv.Itoa(o.OldestAge), strconv.Itoa(o.YoungestAge),
				strconv.Itoa(o.BestVehicleCondition), strconv.Itoa(o.WorstVehicleCondition),
			}}
		}),
	define(TopFastestCouriers,
		infallible(func(r []models.OrderRecord) []analytics.CourierTime {
			return analytics.TopCouriers(r, analytics.Fastest)
		}),
		[]string{"city", "delivery_person_id", "max_time_taken_min"}, courierRows),
	define(TopSlowestCouriers,
		infallible(func(r []models.OrderRecord) []analytics.CourierTime {
			return analytics.TopCouriers(r, analytics.Slowest)
		}),
		[]string{"city", "delivery_person_id", "max_time_taken_min"}, courierRows),
	define(RatingPerCourier, infallible(analytics.RatingPerCourier),
		[]string{"delivery_person_id", "ratings", "mean_rating"},
		func(v []analytics.CourierRating) [][]string {
			rows := make([][]string, 0, len(v))
			for _, c := range v {
				rows = append(rows, []string{c.CourierID, strconv.Itoa(c.Ratings), num(c.MeanRating)})
			}
			return rows
		}),
	define(RatingByTraffic, infallible(analytics.RatingByTraffic),
		[]string{"traffic", "count", "mean_rating", "std_rating"}, groupRows),
	define(RatingByWeather, infallible(analytics.RatingByWeather),
		[]string{"weather", "count", "mean_rating", "std_rating"}, groupRows),
	define(UniqueCouriers, infallible(analytics.UniqueCouriers),
		[]string{"unique_couriers"},
		func(n int) [][]string { return [][]string{{strconv.Itoa(n)}} }),
	define(AverageDistance,
		func(r []models.OrderRecord) (analytics.DistanceSummary, error) {
			return analytics.AverageDistance(r, false)
		},
		[]string{"mean_km"},
		func(s analytics.DistanceSummary) [][]string { return [][]string{{num(s.MeanKm)}} }),
	define(DistanceByCity,
		func(r []models.OrderRecord) (analytics.DistanceSummary, error) {
			return analytics.AverageDistance(r, true)
		},
		[]string{"city", "mean_km", "share"},
		func(s analytics.DistanceSummary) [][]string {
			rows := make([][]string, 0, len(s.ByCity))
			for _, c := range s.ByCity {
				rows = append(rows, []string{c.City.String(), num(c.MeanKm), num(c.Share)})
			}
			return rows
		}),
	define(TimeByCity, infallible(analytics.TimeByCity),
		[]string{"city", "count", "mean_time", "std_time"}, groupRows),
	define(TimeByCityTraffic, infallible(analytics.TimeByCityTraffic),
		[]string{"city", "traffic", "count", "mean_time", "std_time"},
		func(tree analytics.TrafficTimeTree) [][]string {
			rows := make([][]string, 0, len(tree.Cells))
			for _, c := range tree.Cells {
				rows = append(rows, append([]string{c.City.String(), c.Traffic.String()}, summaryCells(c.Summary)...))
			}
			return rows
		}),
	define(FestivalTime, festivalTable,
		[]string{"festival", "metric", "value"},
		func(v []FestivalMetric) [][]string {
			rows := make([][]string, 0, len(v))
			for _, m := range v {
				rows = append(rows, []string{m.Festival.String(), string(m.Metric), num(m.Value)})
			}
			return rows
		}),
	define(TimeByCityOrderType, infallible(analytics.TimeByCityOrderType),
		[]string{"city", "type_of_order", "count", "mean_time", "std_time"},
		func(v []analytics.CityOrderTypeStats) [][]string {
			rows := make([][]string, 0, len(v))
			for _, c := range v {
				rows = append(rows, append([]string{c.City.String(), c.OrderType}, summaryCells(c.Summary)...))
			}
			return rows
		}),
}

// ViewNames lists every view in report order.
func ViewNames() []string {
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = v.name
	}
	return names
}
