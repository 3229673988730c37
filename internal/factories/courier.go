package factories

import (
	"fmt"

	"github.com/jaswdr/faker"
)

var fake = faker.New()

// hub is a city the synthetic couriers operate from.
type hub struct {
	Code string
	Lat  float64
	Lon  float64
}

var hubs = []hub{
	{Code: "BANG", Lat: 12.971599, Lon: 77.594566},
	{Code: "CHEN", Lat: 13.082680, Lon: 80.270718},
	{Code: "HYD", Lat: 17.385044, Lon: 78.486671},
	{Code: "INDO", Lat: 22.719568, Lon: 75.857727},
	{Code: "COIMB", Lat: 11.016844, Lon: 76.955832},
	{Code: "MUM", Lat: 19.075984, Lon: 72.877656},
	{Code: "PUNE", Lat: 18.520430, Lon: 73.856744},
	{Code: "JAP", Lat: 26.912434, Lon: 75.787270},
}

var vehicleTypes = []string{"motorcycle", "scooter", "electric_scooter", "bicycle"}

// Courier is a delivery person and the vehicle they ride.
type Courier struct {
	ID               string
	Age              int
	Rating           float64
	VehicleType      string
	VehicleCondition int
	Hub              hub
}

type CourierFactory struct{}

func (cf *CourierFactory) CreateCourier() Courier {
	h := hubs[fake.IntBetween(0, len(hubs)-1)]
	return Courier{
		ID:               fmt.Sprintf("%sRES%02dDEL%02d", h.Code, fake.IntBetween(1, 20), fake.IntBetween(1, 3)),
		Age:              fake.IntBetween(20, 39),
		Rating:           float64(fake.IntBetween(25, 50)) / 10,
		VehicleType:      fake.RandomStringElement(vehicleTypes),
		VehicleCondition: fake.IntBetween(0, 3),
		Hub:              h,
	}
}
