package output

import (
	"context"
	"fmt"
	"path"

	"github.com/jouaraujo/curry-company/internal/cloudstore"
	"github.com/jouaraujo/curry-company/internal/dashboard"
)

// CloudOutput uploads each table as <prefix>/<table>.csv to a bucket.
type CloudOutput struct {
	store  cloudstore.Store
	bucket string
	prefix string
}

func NewCloudOutput(store cloudstore.Store, bucket, prefix string) *CloudOutput {
	return &CloudOutput{store: store, bucket: bucket, prefix: prefix}
}

func (c *CloudOutput) WriteTable(ctx context.Context, table dashboard.Table) error {
	key := path.Join(c.prefix, table.Name+".csv")

	w, err := c.store.NewWriter(ctx, c.bucket, key)
	if err != nil {
		return fmt.Errorf("failed to create cloud writer for %s: %w", key, err)
	}
	if err := writeCSV(w, table); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (c *CloudOutput) Close() error { return nil }
