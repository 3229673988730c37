package repositories

import "context"

// RawOrderSource returns the raw order table as text rows, header first.
type RawOrderSource interface {
	FetchRaw(ctx context.Context) ([][]string, error)
}
