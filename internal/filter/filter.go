// Package filter narrows the cleaned order table to a date cutoff and a set of
// traffic densities.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jouaraujo/curry-company/internal/models"
)

var (
	// MinCutoff and MaxCutoff bound the dates covered by the order dataset.
	MinCutoff = time.Date(2022, 2, 11, 0, 0, 0, 0, time.UTC)
	MaxCutoff = time.Date(2022, 6, 4, 0, 0, 0, 0, time.UTC)

	defaultCutoff = time.Date(2022, 4, 13, 0, 0, 0, 0, time.UTC)
)

// Criteria selects the rows a dashboard is computed over. Rows dated strictly
// before Cutoff whose traffic density is listed in Traffic are kept.
type Criteria struct {
	Cutoff  time.Time
	Traffic []models.TrafficDensity
}

func DefaultCriteria() Criteria {
	return Criteria{
		Cutoff:  defaultCutoff,
		Traffic: append([]models.TrafficDensity(nil), models.TrafficDensities...),
	}
}

func (c Criteria) allows(t models.TrafficDensity) bool {
	for _, allowed := range c.Traffic {
		if allowed == t {
			return true
		}
	}
	return false
}

// Apply returns the records matching c. records is left untouched.
func Apply(records []models.OrderRecord, c Criteria) []models.OrderRecord {
	out := make([]models.OrderRecord, 0, len(records))
	if len(c.Traffic) == 0 {
		return out
	}
	for _, rec := range records {
		if rec.OrderDate.Before(c.Cutoff) && c.allows(rec.Traffic) {
			out = append(out, rec)
		}
	}
	return out
}

// Params is the textual form of Criteria used by CLI flags and query strings.
type Params struct {
	Cutoff  string   `validate:"required,datetime=2006-01-02"`
	Traffic []string `validate:"required,min=1,dive,oneof=Low Medium High Jam"`
}

var validate = validator.New()

// ParseCriteria validates p and converts it to Criteria.
func ParseCriteria(p Params) (Criteria, error) {
	trimmed := make([]string, len(p.Traffic))
	for i, label := range p.Traffic {
		trimmed[i] = strings.TrimSpace(label)
	}
	p.Traffic = trimmed

	if err := validate.Struct(p); err != nil {
		return Criteria{}, fmt.Errorf("invalid filter: %w", err)
	}

	cutoff, err := time.Parse(models.DateLayout, p.Cutoff)
	if err != nil {
		return Criteria{}, fmt.Errorf("invalid filter: %w", err)
	}

	c := Criteria{Cutoff: cutoff}
	seen := make(map[models.TrafficDensity]bool, len(p.Traffic))
	for _, label := range p.Traffic {
		t, err := models.ParseTrafficDensity(label)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid filter: %w", err)
		}
		if !seen[t] {
			seen[t] = true
			c.Traffic = append(c.Traffic, t)
		}
	}
	return c, nil
}

// SplitList splits a comma separated list, ignoring empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// FromConfig builds Criteria from the filter section of the configuration.
func FromConfig(cfg models.FilterConfig) (Criteria, error) {
	cutoff := cfg.Cutoff
	if cutoff.IsZero() {
		cutoff = defaultCutoff
	}
	return ParseCriteria(Params{
		Cutoff:  cutoff.Format(models.DateLayout),
		Traffic: cfg.Traffic,
	})
}
