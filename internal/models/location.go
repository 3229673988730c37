package models

import (
	"fmt"
	"strconv"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l Location) String() string {
	return fmt.Sprintf("(%s, %s)",
		strconv.FormatFloat(l.Lat, 'f', -1, 64),
		strconv.FormatFloat(l.Lon, 'f', -1, 64))
}
