package cleaning

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jouaraujo/curry-company/internal/loader"
	"github.com/jouaraujo/curry-company/internal/models"
)

// rawOrder returns a valid raw row as a column->value map; tests override fields.
func rawOrder(overrides map[string]string) map[string]string {
	row := map[string]string{
		models.ColID:                 "0x4607 ",
		models.ColDeliveryPersonID:   "INDORES13DEL02 ",
		models.ColDeliveryPersonAge:  "37",
		models.ColDeliveryPersonRate: "4.9",
		models.ColRestaurantLat:      "22.745049",
		models.ColRestaurantLon:      "75.892471",
		models.ColDeliveryLat:        "22.765049",
		models.ColDeliveryLon:        "75.912471",
		models.ColOrderDate:          "19-03-2022",
		models.ColTimeOrdered:        "11:30:00",
		models.ColTimePicked:         "11:45:00",
		models.ColWeather:            "conditions Sunny",
		models.ColTraffic:            "High ",
		models.ColVehicleCondition:   "2",
		models.ColOrderType:          "Snack ",
		models.ColVehicleType:        "motorcycle ",
		models.ColMultipleDeliveries: "0",
		models.ColFestival:           "No ",
		models.ColCity:               "Urban ",
		models.ColTimeTaken:          "(min) 24",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func frame(t *testing.T, rows ...map[string]string) dataframe.DataFrame {
	t.Helper()

	records := [][]string{models.Columns}
	for _, r := range rows {
		record := make([]string, len(models.Columns))
		for i, col := range models.Columns {
			record[i] = r[col]
		}
		records = append(records, record)
	}

	df, err := loader.LoadRecords(records)
	require.NoError(t, err)
	return df
}

func TestClean_TwoRowExample(t *testing.T) {
	df := frame(t,
		rawOrder(map[string]string{
			models.ColTraffic:            "Low ",
			models.ColCity:               "Urban ",
			models.ColMultipleDeliveries: "2",
			models.ColTimeTaken:          "(min) 24",
		}),
		rawOrder(map[string]string{models.ColDeliveryPersonAge: "NaN "}),
	)

	res, err := Clean(df, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, models.TrafficLow, rec.Traffic)
	assert.Equal(t, "Low", rec.Traffic.String())
	assert.Equal(t, models.CityUrban, rec.City)
	assert.Equal(t, 2, rec.MultipleDeliveries)
	assert.Equal(t, 24, rec.TimeTaken)
	assert.Equal(t, 2, res.RowsRead)
	assert.Equal(t, 1, res.RowsDropped)
}

func TestClean_TypesAndTrims(t *testing.T) {
	res, err := Clean(frame(t, rawOrder(nil)), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "0x4607", rec.ID)
	assert.Equal(t, "INDORES13DEL02", rec.DeliveryPersonID)
	assert.Equal(t, 37, rec.DeliveryPersonAge)
	assert.InDelta(t, 4.9, rec.DeliveryPersonRate, 1e-9)
	assert.Equal(t, time.Date(2022, 3, 19, 0, 0, 0, 0, time.UTC), rec.OrderDate)
	assert.Equal(t, "Snack", rec.OrderType)
	assert.Equal(t, "motorcycle", rec.VehicleType)
	assert.Equal(t, models.FestivalNo, rec.Festival)
	assert.Equal(t, models.TrafficHigh, rec.Traffic)
	assert.Equal(t, 2, rec.VehicleCondition)
	assert.Equal(t, models.Location{Lat: 22.745049, Lon: 75.892471}, rec.Restaurant)
	assert.Equal(t, models.Location{Lat: 22.765049, Lon: 75.912471}, rec.Delivery)
}

func TestClean_DropsSentinelRows(t *testing.T) {
	tests := []struct {
		name   string
		column string
	}{
		{name: "age", column: models.ColDeliveryPersonAge},
		{name: "traffic", column: models.ColTraffic},
		{name: "city", column: models.ColCity},
		{name: "festival", column: models.ColFestival},
		{name: "multiple deliveries", column: models.ColMultipleDeliveries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := frame(t, rawOrder(nil), rawOrder(map[string]string{tt.column: "NaN "}))

			res, err := Clean(df, Options{})
			require.NoError(t, err)
			assert.Len(t, res.Records, 1)
			assert.Equal(t, 1, res.RowsDropped)
		})
	}
}

func TestClean_CustomSentinel(t *testing.T) {
	df := frame(t, rawOrder(map[string]string{models.ColCity: " ?? "}))

	res, err := Clean(df, Options{Sentinel: "??"})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestClean_UnparseableAgeIsDropped(t *testing.T) {
	df := frame(t, rawOrder(map[string]string{models.ColDeliveryPersonAge: "thirty"}))

	res, err := Clean(df, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 1, res.RowsDropped)
}

func TestClean_MissingRatingIsNaN(t *testing.T) {
	res, err := Clean(frame(t, rawOrder(map[string]string{models.ColDeliveryPersonRate: "NaN "})), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.True(t, math.IsNaN(res.Records[0].DeliveryPersonRate))
}

func TestClean_MetropolitianAlias(t *testing.T) {
	res, err := Clean(frame(t, rawOrder(map[string]string{models.ColCity: "Metropolitian "})), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, models.CityMetropolitan, res.Records[0].City)
}

func TestClean_FatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		column   string
	}{
		{name: "date layout", override: map[string]string{models.ColOrderDate: "2022-03-19"}, column: models.ColOrderDate},
		{name: "missing minutes marker", override: map[string]string{models.ColTimeTaken: "24"}, column: models.ColTimeTaken},
		{name: "non positive minutes", override: map[string]string{models.ColTimeTaken: "(min) 0"}, column: models.ColTimeTaken},
		{name: "rating text", override: map[string]string{models.ColDeliveryPersonRate: "great"}, column: models.ColDeliveryPersonRate},
		{name: "multiple deliveries text", override: map[string]string{models.ColMultipleDeliveries: "two"}, column: models.ColMultipleDeliveries},
		{name: "unknown traffic", override: map[string]string{models.ColTraffic: "Gridlock "}, column: models.ColTraffic},
		{name: "unknown city", override: map[string]string{models.ColCity: "Rural "}, column: models.ColCity},
		{name: "unknown festival", override: map[string]string{models.ColFestival: "Maybe "}, column: models.ColFestival},
		{name: "latitude", override: map[string]string{models.ColDeliveryLat: "north"}, column: models.ColDeliveryLat},
		{name: "latitude sentinel", override: map[string]string{models.ColDeliveryLat: "NaN "}, column: models.ColDeliveryLat},
		{name: "infinite longitude", override: map[string]string{models.ColRestaurantLon: "Inf"}, column: models.ColRestaurantLon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df := frame(t, rawOrder(nil), rawOrder(tt.override))

			_, err := Clean(df, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidInput)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, 1, inputErr.Row)
			assert.Equal(t, tt.column, inputErr.Column)
		})
	}
}

func TestClean_BadDateIsFatalEvenWhenMultipleDeliveriesMissing(t *testing.T) {
	df := frame(t, rawOrder(map[string]string{
		models.ColOrderDate:          "31-02-2022",
		models.ColMultipleDeliveries: "NaN ",
	}))

	_, err := Clean(df, Options{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestClean_UnknownCategoryIsWrapped(t *testing.T) {
	_, err := Clean(frame(t, rawOrder(map[string]string{models.ColTraffic: "Gridlock"})), Options{})
	assert.ErrorIs(t, err, models.ErrUnknownCategory)
}

func TestClean_Idempotent(t *testing.T) {
	df := frame(t,
		rawOrder(nil),
		rawOrder(map[string]string{models.ColID: " 0xb379", models.ColCity: "Metropolitian ", models.ColTraffic: "Jam "}),
		rawOrder(map[string]string{models.ColDeliveryPersonRate: "NaN ", models.ColFestival: "Yes "}),
		rawOrder(map[string]string{models.ColDeliveryPersonAge: "NaN "}),
	)

	first, err := Clean(df, Options{})
	require.NoError(t, err)

	again, err := loader.LoadRecords(Render(first.Records, ""))
	require.NoError(t, err)

	second, err := Clean(again, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, second.RowsDropped)
	require.Len(t, second.Records, len(first.Records))
	for i := range first.Records {
		a, b := first.Records[i], second.Records[i]
		if math.IsNaN(a.DeliveryPersonRate) {
			assert.True(t, math.IsNaN(b.DeliveryPersonRate))
			a.DeliveryPersonRate, b.DeliveryPersonRate = 0, 0
		}
		assert.Equal(t, a, b)
	}
}

func TestClean_EmptyTable(t *testing.T) {
	res, err := Clean(frame(t), Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.RowsRead)
}
