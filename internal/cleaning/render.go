package cleaning

import (
	"math"
	"strconv"

	"github.com/jouaraujo/curry-company/internal/models"
)

// Render writes records back in the raw text layout, header first. Cleaning
// the output again yields the same records.
func Render(records []models.OrderRecord, sentinel string) [][]string {
	if sentinel == "" {
		sentinel = models.DefaultSentinel
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), models.Columns...))

	for _, rec := range records {
		rating := sentinel
		if !math.IsNaN(rec.DeliveryPersonRate) {
			rating = formatFloat(rec.DeliveryPersonRate)
		}

		values := map[string]string{
			models.ColID:                 rec.ID,
			models.ColDeliveryPersonID:   rec.DeliveryPersonID,
			models.ColDeliveryPersonAge:  strconv.Itoa(rec.DeliveryPersonAge),
			models.ColDeliveryPersonRate: rating,
			models.ColRestaurantLat:      formatFloat(rec.Restaurant.Lat),
			models.ColRestaurantLon:      formatFloat(rec.Restaurant.Lon),
			models.ColDeliveryLat:        formatFloat(rec.Delivery.Lat),
			models.ColDeliveryLon:        formatFloat(rec.Delivery.Lon),
			models.ColOrderDate:          rec.OrderDate.Format(models.OrderDateLayout),
			models.ColTimeOrdered:        rec.TimeOrdered,
			models.ColTimePicked:         rec.TimePicked,
			models.ColWeather:            rec.Weather,
			models.ColTraffic:            rec.Traffic.String(),
			models.ColVehicleCondition:   strconv.Itoa(rec.VehicleCondition),
			models.ColOrderType:          rec.OrderType,
			models.ColVehicleType:        rec.VehicleType,
			models.ColMultipleDeliveries: strconv.Itoa(rec.MultipleDeliveries),
			models.ColFestival:           rec.Festival.String(),
			models.ColCity:               rec.City.String(),
			models.ColTimeTaken:          models.TimeTakenMarker + strconv.Itoa(rec.TimeTaken),
		}

		row := make([]string, len(models.Columns))
		for i, col := range models.Columns {
			row[i] = values[col]
		}
		rows = append(rows, row)
	}

	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
