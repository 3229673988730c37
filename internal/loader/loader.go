package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/jouaraujo/curry-company/internal/cloudstore"
	"github.com/jouaraujo/curry-company/internal/models"
	"github.com/jouaraujo/curry-company/internal/repositories"
)

const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Loader reads the raw order table from the configured source.
type Loader struct {
	cfg    models.InputConfig
	store  cloudstore.Store
	source repositories.RawOrderSource
	log    *slog.Logger
}

type Option func(*Loader)

// WithStore sets the object store used by the s3 source.
func WithStore(store cloudstore.Store) Option {
	return func(l *Loader) { l.store = store }
}

// WithRawSource sets the repository used by the postgres source.
func WithRawSource(source repositories.RawOrderSource) Option {
	return func(l *Loader) { l.source = source }
}

func New(cfg models.InputConfig, log *slog.Logger, opts ...Option) (*Loader, error) {
	l := &Loader{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(l)
	}

	switch cfg.Source {
	case SourceFile, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("input path is required for the file source")
		}
	case SourceS3:
		if l.store == nil {
			return nil, fmt.Errorf("s3 source requires an object store")
		}
		if cfg.S3.Bucket == "" || cfg.S3.Key == "" {
			return nil, fmt.Errorf("s3 source requires bucket and key")
		}
	case SourcePostgres:
		if l.source == nil {
			return nil, fmt.Errorf("postgres source requires a repository")
		}
	default:
		return nil, fmt.Errorf("unsupported input source: %s", cfg.Source)
	}

	return l, nil
}

// Load returns a fresh copy of the raw table. Nothing is cached between calls.
func (l *Loader) Load(ctx context.Context) (dataframe.DataFrame, error) {
	var (
		df  dataframe.DataFrame
		err error
	)

	switch l.cfg.Source {
	case SourceS3:
		df, err = l.loadS3(ctx)
	case SourcePostgres:
		df, err = l.loadPostgres(ctx)
	default:
		df, err = l.loadFile()
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	l.log.Debug("raw orders loaded",
		slog.String("source", l.cfg.Source),
		slog.Int("rows", df.Nrow()))
	return df, nil
}

func (l *Loader) loadFile() (dataframe.DataFrame, error) {
	file, err := os.Open(l.cfg.Path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

func (l *Loader) loadS3(ctx context.Context) (dataframe.DataFrame, error) {
	body, err := l.store.Open(ctx, l.cfg.S3.Bucket, l.cfg.S3.Key)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer body.Close()

	return ReadCSV(body)
}

func (l *Loader) loadPostgres(ctx context.Context) (dataframe.DataFrame, error) {
	records, err := l.source.FetchRaw(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return LoadRecords(records)
}

// ReadCSV reads a delimited order file with a header row. Every column is kept
// as text; typing is the cleaning stage's job.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return LoadRecords(records)
}

// LoadRecords builds the raw table from in-memory rows, header first.
func LoadRecords(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: missing header", models.ErrInvalidInput)
	}
	if len(records) == 1 {
		return checkColumns(emptyFrame(records[0]))
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	return checkColumns(df)
}

func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

func checkColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %v", models.ErrInvalidInput, df.Err)
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, col := range models.Columns {
		if !present[col] {
			return dataframe.DataFrame{}, fmt.Errorf("%w: missing column %q", models.ErrInvalidInput, col)
		}
	}
	return df, nil
}
