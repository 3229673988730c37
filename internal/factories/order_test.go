package factories

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jouaraujo/curry-company/internal/cleaning"
	"github.com/jouaraujo/curry-company/internal/loader"
	"github.com/jouaraujo/curry-company/internal/models"
)

func TestWriteCSV_Cleans(t *testing.T) {
	of := NewOrderFactory(Options{Couriers: 20, MissingChance: 10})

	var buf bytes.Buffer
	rows := 0
	require.NoError(t, of.WriteCSV(&buf, 300, func() { rows++ }))
	assert.Equal(t, 300, rows)

	df, err := loader.ReadCSV(&buf)
	require.NoError(t, err)

	res, err := cleaning.Clean(df, cleaning.Options{})
	require.NoError(t, err)
	assert.Equal(t, 300, res.RowsRead)
	assert.Equal(t, 300, len(res.Records)+res.RowsDropped)
	assert.NotEmpty(t, res.Records)

	for _, rec := range res.Records {
		assert.False(t, rec.OrderDate.Before(firstOrderDate), rec.ID)
		assert.False(t, rec.OrderDate.After(lastOrderDate), rec.ID)
		assert.Positive(t, rec.TimeTaken)
		assert.Contains(t, models.Cities, rec.City)
		assert.Contains(t, models.TrafficDensities, rec.Traffic)
	}
}

func TestRaw_MatchesExportQuirks(t *testing.T) {
	of := NewOrderFactory(Options{Couriers: 1})
	rec := of.CreateOrder()
	rec.City = models.CityMetropolitan

	row := of.Raw(rec)
	require.Len(t, row, len(models.Columns))

	values := make(map[string]string, len(row))
	for i, col := range models.Columns {
		values[col] = row[i]
	}
	assert.Equal(t, "Metropolitian ", values[models.ColCity])
	assert.True(t, strings.HasSuffix(values[models.ColTraffic], " "))
	assert.True(t, strings.HasPrefix(values[models.ColTimeTaken], models.TimeTakenMarker))
	assert.Equal(t, rec.OrderDate.Format(models.OrderDateLayout), values[models.ColOrderDate])
}

func TestRaw_AlwaysMissing(t *testing.T) {
	of := NewOrderFactory(Options{Couriers: 3, MissingChance: 100, Sentinel: "??"})

	for i := 0; i < 20; i++ {
		row := of.Raw(of.CreateOrder())
		missing := 0
		for _, v := range row {
			if v == "?? " {
				missing++
			}
		}
		assert.Equal(t, 1, missing)
	}
}
