package database

import (
	"database/sql"
	"fmt"
)

type Options struct {
	Driver       string
	DataSource   string
	MaxOpenConns int
	MaxIdleConns int
}

type Option func(*Options)

func WithDriver(driver string) Option {
	return func(o *Options) { o.Driver = driver }
}

func WithDataSource(dsn string) Option {
	return func(o *Options) { o.DataSource = dsn }
}

func WithMaxOpenConns(count int) Option {
	return func(o *Options) { o.MaxOpenConns = count }
}

func WithMaxIdleConns(count int) Option {
	return func(o *Options) { o.MaxIdleConns = count }
}

// New opens a database handle using the provided options. The default target
// is an in-memory sqlite database, which is what per-run analytics use;
// callers that point at a file can raise the pool limits.
func New(opts ...Option) (*sql.DB, error) {
	options := &Options{
		Driver:       "sqlite3",
		DataSource:   ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.Driver == "" {
		return nil, fmt.Errorf("database driver cannot be empty")
	}
	if options.DataSource == "" {
		return nil, fmt.Errorf("database data source cannot be empty")
	}

	db, err := sql.Open(options.Driver, options.DataSource)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(options.MaxOpenConns)
	db.SetMaxIdleConns(options.MaxIdleConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
