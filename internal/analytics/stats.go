package analytics

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jouaraujo/curry-company/internal/models"
)

var (
	// ErrNoCouriers is returned when a week has orders but no identifiable courier.
	ErrNoCouriers = errors.New("no delivery person in week")
	// ErrUnknownMetric is returned for a time metric other than avg_time or std_time.
	ErrUnknownMetric = errors.New("unknown time metric")
)

// Summary holds the count, mean and sample standard deviation of a group.
// Std is 0 for a group of one.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// summarize skips NaN values. ok is false when nothing is left.
func summarize(values []float64) (s Summary, ok bool) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return Summary{}, false
	}

	s.Count = len(clean)
	if s.Count == 1 {
		s.Mean = clean[0]
		return s, true
	}
	s.Mean, s.Std = stat.MeanStdDev(clean, nil)
	return s, true
}

// median returns the middle value, or the mean of the two middle values.
// NaN values are skipped; the result is NaN when nothing is left.
func median(values []float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// groupBy partitions records by key, keeping input order inside each group.
func groupBy[K comparable](records []models.OrderRecord, key func(models.OrderRecord) K) map[K][]models.OrderRecord {
	groups := make(map[K][]models.OrderRecord)
	for _, rec := range records {
		k := key(rec)
		groups[k] = append(groups[k], rec)
	}
	return groups
}

// sortedKeys returns the keys of groups ordered by less.
func sortedKeys[K comparable, V any](groups map[K]V, less func(a, b K) bool) []K {
	keys := make([]K, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

func pluck(records []models.OrderRecord, field func(models.OrderRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = field(rec)
	}
	return out
}

func rating(rec models.OrderRecord) float64    { return rec.DeliveryPersonRate }
func timeTaken(rec models.OrderRecord) float64 { return float64(rec.TimeTaken) }

type cityTraffic struct {
	City    models.City
	Traffic models.TrafficDensity
}

func byCityTraffic(rec models.OrderRecord) cityTraffic {
	return cityTraffic{City: rec.City, Traffic: rec.Traffic}
}

func lessCityTraffic(a, b cityTraffic) bool {
	if a.City != b.City {
		return a.City < b.City
	}
	return a.Traffic < b.Traffic
}
