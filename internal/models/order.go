package models

import "time"

// OrderRecord is one row of the cleaned order table.
type OrderRecord struct {
	ID                 string         `json:"id"`
	DeliveryPersonID   string         `json:"delivery_person_id"`
	DeliveryPersonAge  int            `json:"delivery_person_age"`
	DeliveryPersonRate float64        `json:"delivery_person_rating"` // NaN when the raw rating was missing
	OrderDate          time.Time      `json:"order_date"`
	TimeOrdered        string         `json:"time_ordered"`
	TimePicked         string         `json:"time_picked"`
	Weather            string         `json:"weather"`
	Traffic            TrafficDensity `json:"road_traffic_density"`
	VehicleCondition   int            `json:"vehicle_condition"`
	OrderType          string         `json:"type_of_order"`
	VehicleType        string         `json:"type_of_vehicle"`
	MultipleDeliveries int            `json:"multiple_deliveries"`
	Festival           Festival       `json:"festival"`
	City               City           `json:"city"`
	Restaurant         Location       `json:"restaurant"`
	Delivery           Location       `json:"delivery"`
	TimeTaken          int            `json:"time_taken_min"`
}

// Raw column names of the order dataset, in file order.
const (
	ColID                 = "ID"
	ColDeliveryPersonID   = "Delivery_person_ID"
	ColDeliveryPersonAge  = "Delivery_person_Age"
	ColDeliveryPersonRate = "Delivery_person_Ratings"
	ColRestaurantLat      = "Restaurant_latitude"
	ColRestaurantLon      = "Restaurant_longitude"
	ColDeliveryLat        = "Delivery_location_latitude"
	ColDeliveryLon        = "Delivery_location_longitude"
	ColOrderDate          = "Order_Date"
	ColTimeOrdered        = "Time_Orderd"
	ColTimePicked         = "Time_Order_picked"
	ColWeather            = "Weatherconditions"
	ColTraffic            = "Road_traffic_density"
	ColVehicleCondition   = "Vehicle_condition"
	ColOrderType          = "Type_of_order"
	ColVehicleType        = "Type_of_vehicle"
	ColMultipleDeliveries = "multiple_deliveries"
	ColFestival           = "Festival"
	ColCity               = "City"
	ColTimeTaken          = "Time_taken(min)"
)

// Columns lists every raw column the pipeline reads.
var Columns = []string{
	ColID,
	ColDeliveryPersonID,
	ColDeliveryPersonAge,
	ColDeliveryPersonRate,
	ColRestaurantLat,
	ColRestaurantLon,
	ColDeliveryLat,
	ColDeliveryLon,
	ColOrderDate,
	ColTimeOrdered,
	ColTimePicked,
	ColWeather,
	ColTraffic,
	ColVehicleCondition,
	ColOrderType,
	ColVehicleType,
	ColMultipleDeliveries,
	ColFestival,
	ColCity,
	ColTimeTaken,
}

const (
	// OrderDateLayout is the DD-MM-YYYY layout of the raw Order_Date column.
	OrderDateLayout = "02-01-2006"
	// TimeTakenMarker precedes the minutes in the raw Time_taken(min) column.
	TimeTakenMarker = "(min) "
	// DefaultSentinel marks a missing raw value. Compared after trimming.
	DefaultSentinel = "NaN"
)
