// Package cleaning turns the raw, all-text order table into typed order records.
//
// The steps run in a fixed order: rows carrying the missing-value sentinel in a
// required column are dropped first, so that every later parse can assume a
// real value is present. Parse failures after that point are fatal and are
// reported as *InputError.
package cleaning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/jouaraujo/curry-company/internal/models"
)

// InputError describes a raw field that could not be parsed.
type InputError struct {
	Row    int // zero-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("row %d: column %s: value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *InputError) Unwrap() []error {
	return []error{models.ErrInvalidInput, e.Err}
}

type Options struct {
	// Sentinel marks a missing value. Compared after trimming surrounding whitespace.
	Sentinel string
}

type Result struct {
	Records     []models.OrderRecord
	RowsRead    int
	RowsDropped int
}

var (
	errMissingMarker = errors.New("missing " + strings.TrimSpace(models.TimeTakenMarker) + " marker")
	errNotFinite     = errors.New("coordinate must be a finite number")
)

// rawRow gives access to one raw row by column name.
type rawRow struct {
	index  int
	values map[string]string
}

func (r rawRow) get(col string) string {
	return r.values[col]
}

func (r rawRow) fail(col string, err error) error {
	return &InputError{Row: r.index, Column: col, Value: r.values[col], Err: err}
}

// Clean applies the cleaning steps to raw and returns a new set of records.
// raw is not modified.
func Clean(raw dataframe.DataFrame, opts Options) (*Result, error) {
	sentinel := opts.Sentinel
	if sentinel == "" {
		sentinel = models.DefaultSentinel
	}
	isMissing := func(v string) bool {
		return strings.TrimSpace(v) == sentinel
	}

	columns := make(map[string][]string, len(models.Columns))
	for _, col := range models.Columns {
		s := raw.Col(col)
		if s.Err != nil {
			return nil, fmt.Errorf("%w: missing column %q", models.ErrInvalidInput, col)
		}
		columns[col] = s.Records()
	}

	n := raw.Nrow()
	result := &Result{RowsRead: n, Records: make([]models.OrderRecord, 0, n)}

	for i := 0; i < n; i++ {
		row := rawRow{index: i, values: make(map[string]string, len(columns))}
		for col, values := range columns {
			row.values[col] = values[i]
		}

		// step 1
		if isMissing(row.get(models.ColDeliveryPersonAge)) ||
			isMissing(row.get(models.ColTraffic)) ||
			isMissing(row.get(models.ColCity)) ||
			isMissing(row.get(models.ColFestival)) {
			result.RowsDropped++
			continue
		}

		// step 2
		age, err := strconv.Atoi(strings.TrimSpace(row.get(models.ColDeliveryPersonAge)))
		if err != nil || age < 0 {
			result.RowsDropped++
			continue
		}

		rec := models.OrderRecord{DeliveryPersonAge: age}
		if err := parseRatingAndDate(row, &rec, isMissing); err != nil {
			return nil, err
		}

		// step 5
		if isMissing(row.get(models.ColMultipleDeliveries)) {
			result.RowsDropped++
			continue
		}

		if err := parseRest(row, &rec); err != nil {
			return nil, err
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// parseRatingAndDate runs steps 3 and 4.
func parseRatingAndDate(row rawRow, rec *models.OrderRecord, isMissing func(string) bool) error {
	var err error

	if raw := row.get(models.ColDeliveryPersonRate); isMissing(raw) {
		rec.DeliveryPersonRate = math.NaN()
	} else if rec.DeliveryPersonRate, err = strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
		return row.fail(models.ColDeliveryPersonRate, err)
	}

	rec.OrderDate, err = time.Parse(models.OrderDateLayout, strings.TrimSpace(row.get(models.ColOrderDate)))
	if err != nil {
		return row.fail(models.ColOrderDate, err)
	}
	return nil
}

// parseRest runs the typed part of step 5 and steps 6 and 7, then types the
// remaining numeric columns.
func parseRest(row rawRow, rec *models.OrderRecord) error {
	var err error

	rec.MultipleDeliveries, err = strconv.Atoi(strings.TrimSpace(row.get(models.ColMultipleDeliveries)))
	if err != nil {
		return row.fail(models.ColMultipleDeliveries, err)
	}

	// step 6
	rec.ID = strings.TrimSpace(row.get(models.ColID))
	rec.DeliveryPersonID = strings.TrimSpace(row.get(models.ColDeliveryPersonID))
	rec.OrderType = strings.TrimSpace(row.get(models.ColOrderType))
	rec.VehicleType = strings.TrimSpace(row.get(models.ColVehicleType))
	rec.Weather = strings.TrimSpace(row.get(models.ColWeather))
	rec.TimeOrdered = strings.TrimSpace(row.get(models.ColTimeOrdered))
	rec.TimePicked = strings.TrimSpace(row.get(models.ColTimePicked))

	if rec.Traffic, err = models.ParseTrafficDensity(strings.TrimSpace(row.get(models.ColTraffic))); err != nil {
		return row.fail(models.ColTraffic, err)
	}
	if rec.City, err = models.ParseCity(strings.TrimSpace(row.get(models.ColCity))); err != nil {
		return row.fail(models.ColCity, err)
	}
	if rec.Festival, err = models.ParseFestival(strings.TrimSpace(row.get(models.ColFestival))); err != nil {
		return row.fail(models.ColFestival, err)
	}

	// step 7
	if rec.TimeTaken, err = parseTimeTaken(row.get(models.ColTimeTaken)); err != nil {
		return row.fail(models.ColTimeTaken, err)
	}

	if rec.VehicleCondition, err = strconv.Atoi(strings.TrimSpace(row.get(models.ColVehicleCondition))); err != nil {
		return row.fail(models.ColVehicleCondition, err)
	}

	coords := []struct {
		col string
		dst *float64
	}{
		{models.ColRestaurantLat, &rec.Restaurant.Lat},
		{models.ColRestaurantLon, &rec.Restaurant.Lon},
		{models.ColDeliveryLat, &rec.Delivery.Lat},
		{models.ColDeliveryLon, &rec.Delivery.Lon},
	}
	for _, c := range coords {
		if *c.dst, err = strconv.ParseFloat(strings.TrimSpace(row.get(c.col)), 64); err != nil {
			return row.fail(c.col, err)
		}
		// ParseFloat accepts "NaN" and "Inf".
		if math.IsNaN(*c.dst) || math.IsInf(*c.dst, 0) {
			return row.fail(c.col, errNotFinite)
		}
	}

	return nil
}

// parseTimeTaken extracts the minutes from values such as "(min) 24".
func parseTimeTaken(raw string) (int, error) {
	_, minutes, found := strings.Cut(raw, models.TimeTakenMarker)
	if !found {
		return 0, errMissingMarker
	}
	v, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("time taken must be positive, got %d", v)
	}
	return v, nil
}
