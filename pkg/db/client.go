// Package db wraps the PostgreSQL driver: query execution for the
// pipeline and metadata extraction for the schema builder.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Client provides access to the target PostgreSQL database.
type Client struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New connects to the target database.
func New(ctx context.Context, connString string, logger *zap.Logger) (*Client, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &Client{
		pool:   pool,
		logger: logger.Named("db"),
	}, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	c.pool.Close()
}

// Ping verifies database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}
