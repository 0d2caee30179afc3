package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the connection pool. Queries run on a Session, never on the
// pool directly, so each request holds exactly one connection.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Session is a data-source handle scoped to a single request. It must be
// released when the request is done.
type Session struct {
	conn *pgxpool.Conn
}

// Acquire checks a connection out of the pool for one request.
func (s *Store) Acquire(ctx context.Context) (*Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Session{conn: conn}, nil
}

// Release returns the connection to the pool. Safe to call twice.
func (s *Session) Release() {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}
}

func (s *Session) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.conn == nil {
		return nil, fmt.Errorf("session already released")
	}
	return s.conn.Query(ctx, sql, args...)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
