package dashboard

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jouaraujo/curry-company/internal/analytics"
	"github.com/jouaraujo/curry-company/internal/logging"
	"github.com/jouaraujo/curry-company/internal/models"
)

func records() []models.OrderRecord {
	base := models.OrderRecord{
		DeliveryPersonAge:  30,
		DeliveryPersonRate: 4.7,
		OrderDate:          time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		Weather:            "conditions Sunny",
		OrderType:          "Meal",
		Restaurant:         models.Location{Lat: 12.9, Lon: 77.6},
		Delivery:           models.Location{Lat: 13.0, Lon: 77.7},
	}

	a, b, c := base, base, base
	a.ID, a.DeliveryPersonID, a.City, a.Traffic, a.TimeTaken = "a", "c1", models.CityUrban, models.TrafficLow, 20
	b.ID, b.DeliveryPersonID, b.City, b.Traffic, b.TimeTaken = "b", "c2", models.CityMetropolitan, models.TrafficJam, 35
	c.ID, c.DeliveryPersonID, c.City, c.Traffic, c.TimeTaken = "c", "c2", models.CityUrban, models.TrafficLow, 25
	c.Festival = models.FestivalYes
	return []models.OrderRecord{a, b, c}
}

func TestBuild_AllViews(t *testing.T) {
	d := Build(context.Background(), records(), Options{Workers: 3, Log: logging.Nop()})

	assert.Empty(t, d.Errors)
	assert.Equal(t, 3, d.Rows)

	tables := d.Tables()
	require.Len(t, tables, len(ViewNames()))
	for i, table := range tables {
		assert.Equal(t, ViewNames()[i], table.Name)
		for _, row := range table.Rows {
			assert.Len(t, row, len(table.Header), "table %s", table.Name)
		}
	}

	v, err := d.View(UniqueCouriers)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	table, err := d.Table(TrafficShare)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Low", "2", "0.6666666666666666"}, {"Jam", "1", "0.3333333333333333"}}, table.Rows)
}

func TestBuild_FailedViewIsIsolated(t *testing.T) {
	recs := records()
	for i := range recs {
		recs[i].DeliveryPersonID = ""
	}

	d := Build(context.Background(), recs, Options{Workers: 1, Log: logging.Nop()})

	require.Contains(t, d.Errors, OrdersPerCourierPerWeek)
	assert.ErrorIs(t, d.Errors[OrdersPerCourierPerWeek], analytics.ErrNoCouriers)
	assert.Len(t, d.Errors, 1)
	assert.Len(t, d.Tables(), len(ViewNames())-1)

	_, err := d.View(OrdersPerCourierPerWeek)
	assert.ErrorIs(t, err, analytics.ErrNoCouriers)
	_, err = d.View(OrdersPerDay)
	assert.NoError(t, err)
}

func TestBuild_EmptyInput(t *testing.T) {
	d := Build(context.Background(), nil, Options{Log: logging.Nop()})

	assert.ErrorIs(t, d.Errors[CourierOverview], models.ErrNoData)
	assert.ErrorIs(t, d.Errors[AverageDistance], models.ErrNoData)
	assert.ErrorIs(t, d.Errors[DistanceByCity], models.ErrNoData)

	table, err := d.Table(FestivalTime)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
}

func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := Build(ctx, records(), Options{Log: logging.Nop()})
	assert.Len(t, d.Errors, len(ViewNames()))
	assert.Empty(t, d.Tables())
}

func TestView_Unknown(t *testing.T) {
	d := Build(context.Background(), records(), Options{Log: logging.Nop()})
	_, err := d.View("nope")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestFestivalTable_SkipsAbsentFlags(t *testing.T) {
	got, err := festivalTable(records())
	require.NoError(t, err)
	assert.Equal(t, []FestivalMetric{
		{Festival: models.FestivalYes, Metric: analytics.AvgTime, Value: 25},
		{Festival: models.FestivalYes, Metric: analytics.StdTime, Value: 0},
		{Festival: models.FestivalNo, Metric: analytics.AvgTime, Value: 27.5},
		{Festival: models.FestivalNo, Metric: analytics.StdTime, Value: 10.61},
	}, got)
}

func TestDashboard_MarshalJSON(t *testing.T) {
	d := Build(context.Background(), records(), Options{Log: logging.Nop()})

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded struct {
		Rows  int                        `json:"rows"`
		Views map[string]json.RawMessage `json:"views"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 3, decoded.Rows)
	assert.Len(t, decoded.Views, len(ViewNames()))
	assert.Contains(t, string(decoded.Views[AverageDistance]), `"mean_km"`)
}

func TestDashboard_MarshalJSON_NonFiniteIsNull(t *testing.T) {
	recs := records()
	recs[0].DeliveryPersonRate = math.Inf(1)
	d := Build(context.Background(), recs, Options{Log: logging.Nop()})
	require.Empty(t, d.Errors)

	raw, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded struct {
		Views map[string]json.RawMessage `json:"views"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.Views, len(ViewNames()))

	var byTraffic []map[string]any
	require.NoError(t, json.Unmarshal(decoded.Views[RatingByTraffic], &byTraffic))
	require.Len(t, byTraffic, 2)
	assert.Equal(t, "Low", byTraffic[0]["group"])
	assert.Equal(t, 2.0, byTraffic[0]["count"])
	assert.Contains(t, byTraffic[0], "mean")
	assert.Nil(t, byTraffic[0]["mean"])
	assert.Nil(t, byTraffic[0]["std"])
	assert.Equal(t, 4.7, byTraffic[1]["mean"])
}

func TestEncodeView(t *testing.T) {
	type Stats struct {
		Mean float64 `json:"mean"`
	}
	type row struct {
		Name    string                `json:"name"`
		Skip    string                `json:"-"`
		Empty   []float64             `json:"empty,omitempty"`
		Values  []float64             `json:"values"`
		Traffic models.TrafficDensity `json:"traffic"`
		Stats
	}

	raw, err := encodeView([]row{{
		Name:    "a",
		Skip:    "x",
		Values:  []float64{1.5, math.NaN(), math.Inf(-1)},
		Traffic: models.TrafficJam,
		Stats:   Stats{Mean: math.NaN()},
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a","values":[1.5,null,null],"traffic":"Jam","mean":null}]`, string(raw))

	raw, err = encodeView(analytics.Summary{Count: 1, Mean: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"mean":2,"std":0}`, string(raw))
}

func TestBuild_SelectedViews(t *testing.T) {
	d := Build(context.Background(), records(), Options{Views: []string{TrafficShare, "nope"}, Log: logging.Nop()})

	require.Empty(t, d.Errors)
	tables := d.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, TrafficShare, tables[0].Name)

	_, err := d.View(OrdersPerDay)
	assert.ErrorIs(t, err, ErrUnknownView)
}
