package factories

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/lucsky/cuid"

	"github.com/jouaraujo/curry-company/internal/cleaning"
	"github.com/jouaraujo/curry-company/internal/models"
)

var (
	firstOrderDate = time.Date(2022, 2, 11, 0, 0, 0, 0, time.UTC)
	lastOrderDate  = time.Date(2022, 4, 6, 0, 0, 0, 0, time.UTC)

	weatherConditions = []string{"Sunny", "Stormy", "Sandstorms", "Cloudy", "Fog", "Windy"}
	orderTypes        = []string{"Snack", "Meal", "Drinks", "Buffet"}
)

// Options tunes the generated dataset.
type Options struct {
	Couriers int
	// MissingChance is the percentage of rows that get one value replaced by
	// the sentinel.
	MissingChance int
	Sentinel      string
}

// OrderFactory produces orders in the raw dataset layout, with the padding,
// misspellings and missing values the real export has.
type OrderFactory struct {
	couriers []Courier
	opts     Options
}

func NewOrderFactory(opts Options) *OrderFactory {
	if opts.Couriers < 1 {
		opts.Couriers = 50
	}
	if opts.Sentinel == "" {
		opts.Sentinel = models.DefaultSentinel
	}

	var cf CourierFactory
	couriers := make([]Courier, opts.Couriers)
	for i := range couriers {
		couriers[i] = cf.CreateCourier()
	}
	return &OrderFactory{couriers: couriers, opts: opts}
}

// CreateOrder returns a clean, valid order.
func (of *OrderFactory) CreateOrder() models.OrderRecord {
	c := of.couriers[fake.IntBetween(0, len(of.couriers)-1)]

	restaurant := models.Location{
		Lat: round6(c.Hub.Lat + offset(0.1)),
		Lon: round6(c.Hub.Lon + offset(0.1)),
	}
	delivery := models.Location{
		Lat: round6(restaurant.Lat + offset(0.09)),
		Lon: round6(restaurant.Lon + offset(0.09)),
	}

	ordered := time.Date(2000, 1, 1, fake.IntBetween(8, 23), 5*fake.IntBetween(0, 11), 0, 0, time.UTC)
	picked := ordered.Add(time.Duration(5*fake.IntBetween(1, 3)) * time.Minute)

	festival := models.FestivalNo
	if fake.IntBetween(1, 100) <= 5 {
		festival = models.FestivalYes
	}

	return models.OrderRecord{
		ID:                 "0x" + cuid.Slug(),
		DeliveryPersonID:   c.ID,
		DeliveryPersonAge:  c.Age,
		DeliveryPersonRate: c.Rating,
		OrderDate:          fake.Time().TimeBetween(firstOrderDate, lastOrderDate).UTC().Truncate(24 * time.Hour),
		TimeOrdered:        ordered.Format("15:04:05"),
		TimePicked:         picked.Format("15:04:05"),
		Weather:            "conditions " + fake.RandomStringElement(weatherConditions),
		Traffic:            models.TrafficDensities[fake.IntBetween(0, len(models.TrafficDensities)-1)],
		VehicleCondition:   c.VehicleCondition,
		OrderType:          fake.RandomStringElement(orderTypes),
		VehicleType:        c.VehicleType,
		MultipleDeliveries: fake.IntBetween(0, 3),
		Festival:           festival,
		City:               models.Cities[fake.IntBetween(0, len(models.Cities)-1)],
		Restaurant:         restaurant,
		Delivery:           delivery,
		TimeTaken:          fake.IntBetween(10, 54),
	}
}

// padded columns carry a trailing space in the export.
var padded = []string{
	models.ColID,
	models.ColDeliveryPersonID,
	models.ColTraffic,
	models.ColOrderType,
	models.ColVehicleType,
	models.ColFestival,
	models.ColCity,
}

// nullable columns are the ones the export leaves empty.
var nullable = []string{
	models.ColDeliveryPersonAge,
	models.ColDeliveryPersonRate,
	models.ColMultipleDeliveries,
	models.ColTraffic,
	models.ColFestival,
	models.ColCity,
}

// Raw renders rec the way the dataset export writes it.
func (of *OrderFactory) Raw(rec models.OrderRecord) []string {
	row := cleaning.Render([]models.OrderRecord{rec}, of.opts.Sentinel)[1]

	index := make(map[string]int, len(models.Columns))
	for i, col := range models.Columns {
		index[col] = i
	}

	if rec.City == models.CityMetropolitan {
		row[index[models.ColCity]] = "Metropolitian"
	}
	if of.opts.MissingChance > 0 && fake.IntBetween(1, 100) <= of.opts.MissingChance {
		row[index[fake.RandomStringElement(nullable)]] = of.opts.Sentinel
	}
	for _, col := range padded {
		row[index[col]] += " "
	}
	for i, v := range row {
		if v == of.opts.Sentinel {
			row[i] = v + " "
		}
	}
	return row
}

// WriteCSV writes a header and n generated rows to w. onRow, if set, is
// called after each row.
func (of *OrderFactory) WriteCSV(w io.Writer, n int, onRow func()) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.Columns); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(of.Raw(of.CreateOrder())); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
		if onRow != nil {
			onRow()
		}
	}
	cw.Flush()
	return cw.Error()
}

// offset returns a uniform value in [-limit, limit].
func offset(limit float64) float64 {
	return float64(fake.IntBetween(-1_000_000, 1_000_000)) / 1_000_000 * limit
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
