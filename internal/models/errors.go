package models

import "errors"

var (
	// ErrInvalidInput reports a raw field that cannot be parsed. It halts the computation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownCategory reports a categorical label outside its closed enumeration.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNoData reports an aggregation whose result is undefined on the given rows.
	ErrNoData = errors.New("no data")
)
