package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jouaraujo/curry-company/internal/models"
)

func day(d int) time.Time {
	return time.Date(2022, 3, d, 0, 0, 0, 0, time.UTC)
}

func sample() []models.OrderRecord {
	return []models.OrderRecord{
		{ID: "a", OrderDate: day(1), Traffic: models.TrafficLow},
		{ID: "b", OrderDate: day(5), Traffic: models.TrafficJam},
		{ID: "c", OrderDate: day(10), Traffic: models.TrafficHigh},
		{ID: "d", OrderDate: day(10), Traffic: models.TrafficLow},
		{ID: "e", OrderDate: day(20), Traffic: models.TrafficMedium},
	}
}

func ids(records []models.OrderRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "cutoff is exclusive",
			criteria: Criteria{Cutoff: day(10), Traffic: models.TrafficDensities},
			want:     []string{"a", "b"},
		},
		{
			name:     "traffic subset",
			criteria: Criteria{Cutoff: day(31), Traffic: []models.TrafficDensity{models.TrafficLow}},
			want:     []string{"a", "d"},
		},
		{
			name:     "empty traffic set",
			criteria: Criteria{Cutoff: day(31)},
			want:     []string{},
		},
		{
			name:     "cutoff before every order",
			criteria: Criteria{Cutoff: day(1), Traffic: models.TrafficDensities},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sample(), tt.criteria)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_Monotonic(t *testing.T) {
	records := sample()
	traffic := []models.TrafficDensity{models.TrafficLow, models.TrafficHigh, models.TrafficJam}

	for d1 := 1; d1 <= 21; d1++ {
		for d2 := d1; d2 <= 21; d2++ {
			smaller := Apply(records, Criteria{Cutoff: day(d1), Traffic: traffic})
			larger := Apply(records, Criteria{Cutoff: day(d2), Traffic: traffic})
			assert.Subset(t, ids(larger), ids(smaller), "cutoffs %d <= %d", d1, d2)
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	records := sample()
	_ = Apply(records, Criteria{Cutoff: day(6), Traffic: []models.TrafficDensity{models.TrafficJam}})
	assert.Equal(t, sample(), records)
}

func TestParseCriteria(t *testing.T) {
	c, err := ParseCriteria(Params{Cutoff: "2022-04-13", Traffic: []string{"Low", " Jam", "Low"}})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2022, 4, 13, 0, 0, 0, 0, time.UTC), c.Cutoff)
	assert.Equal(t, []models.TrafficDensity{models.TrafficLow, models.TrafficJam}, c.Traffic)
}

func TestParseCriteria_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "missing cutoff", params: Params{Traffic: []string{"Low"}}},
		{name: "wrong date layout", params: Params{Cutoff: "13-04-2022", Traffic: []string{"Low"}}},
		{name: "no traffic", params: Params{Cutoff: "2022-04-13"}},
		{name: "unknown traffic", params: Params{Cutoff: "2022-04-13", Traffic: []string{"Gridlock"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCriteria(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestFromConfig_Defaults(t *testing.T) {
	c, err := FromConfig(models.FilterConfig{Traffic: []string{"Low", "Medium", "High", "Jam"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultCriteria(), c)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Low", "Jam"}, SplitList(" Low, ,Jam,"))
	assert.Nil(t, SplitList(""))
}
