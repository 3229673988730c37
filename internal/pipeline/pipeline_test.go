package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jouaraujo/curry-company/internal/dashboard"
	"github.com/jouaraujo/curry-company/internal/filter"
	"github.com/jouaraujo/curry-company/internal/loader"
	"github.com/jouaraujo/curry-company/internal/logging"
	"github.com/jouaraujo/curry-company/internal/models"
)

func testdataPipeline(t *testing.T) *Pipeline {
	t.Helper()
	l, err := loader.New(models.InputConfig{Source: loader.SourceFile, Path: "../loader/testdata/orders.csv"}, logging.Nop())
	require.NoError(t, err)
	return New(l, "", 2, logging.Nop())
}

func TestRecords(t *testing.T) {
	p := testdataPipeline(t)

	records, err := p.Records(context.Background(), filter.DefaultCriteria())
	require.NoError(t, err)
	assert.Len(t, records, 4)

	jamOnly := filter.Criteria{
		Cutoff:  time.Date(2022, 3, 20, 0, 0, 0, 0, time.UTC),
		Traffic: []models.TrafficDensity{models.TrafficJam},
	}
	records, err = p.Records(context.Background(), jamOnly)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "0x9bb4", records[0].ID)
}

func TestDashboard(t *testing.T) {
	d, err := testdataPipeline(t).Dashboard(context.Background(), filter.DefaultCriteria())
	require.NoError(t, err)
	assert.Empty(t, d.Errors)

	v, err := d.View(dashboard.UniqueCouriers)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestBuild_NamedView(t *testing.T) {
	p := testdataPipeline(t)
	records, err := p.Records(context.Background(), filter.DefaultCriteria())
	require.NoError(t, err)

	d := p.Build(context.Background(), records, dashboard.CourierOverview)
	require.Len(t, d.Tables(), 1)
	_, err = d.View(dashboard.CourierOverview)
	require.NoError(t, err)
	_, err = d.View(dashboard.OrdersPerDay)
	assert.ErrorIs(t, err, dashboard.ErrUnknownView)

	assert.Len(t, p.Build(context.Background(), records).Tables(), len(dashboard.ViewNames()))
}

type failingSource struct{ err error }

func (f failingSource) Load(context.Context) (dataframe.DataFrame, error) {
	return dataframe.DataFrame{}, f.err
}

func TestRecords_LoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(failingSource{err: boom}, "", 1, logging.Nop()).Records(context.Background(), filter.DefaultCriteria())
	assert.ErrorIs(t, err, boom)
}
