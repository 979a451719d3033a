package pgloader

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonwraymond/lazyops/facet"
)

// DB is the subset of *pgxpool.Pool the loader uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// Connector opens the database for one handle.
type Connector func(ctx context.Context) (DB, error)

// PoolConnector opens a dedicated pgxpool per handle and pings it.
func PoolConnector(dsn string) Connector {
	return func(ctx context.Context) (DB, error) {
		cfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open pool: %w", err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return nil, fmt.Errorf("ping: %w", err)
		}
		return p, nil
	}
}

// Shared reuses db for every handle. Construct still pings it, and
// Session.Close leaves it open.
func Shared(db DB) Connector {
	return func(ctx context.Context) (DB, error) {
		if err := db.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping: %w", err)
		}
		return sharedDB{db}, nil
	}
}

// sharedDB hides the Close method of a database the loader does not own.
type sharedDB struct {
	DB
}

// Query is the SQL behind one facet.
type Query struct {
	SQL string
	// One expects exactly one row and returns it as a single map.
	One bool
}

// Config configures a Loader.
type Config[ID any] struct {
	Connect Connector
	// Args maps an identity to the positional query arguments.
	Args    func(id ID) []any
	Queries map[string]Query
}

// Session is the materialized resource: an open database bound to one
// identity's query arguments.
type Session struct {
	db   DB
	args []any
}

// Close closes a database opened by PoolConnector.
func (s *Session) Close() {
	if c, ok := s.db.(interface{ Close() }); ok {
		c.Close()
	}
}

// Loader loads facets with SQL queries.
type Loader[ID any] struct {
	cfg Config[ID]
}

// New creates a Loader.
func New[ID any](cfg Config[ID]) *Loader[ID] {
	if cfg.Args == nil {
		cfg.Args = func(id ID) []any { return []any{id} }
	}
	return &Loader[ID]{cfg: cfg}
}

// Construct implements facet.Loader.
func (l *Loader[ID]) Construct(ctx context.Context, id ID) (*Session, error) {
	if l.cfg.Connect == nil {
		return nil, ErrNoConnector
	}
	db, err := l.cfg.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{db: db, args: l.cfg.Args(id)}, nil
}

// Load implements facet.Loader.
func (l *Loader[ID]) Load(ctx context.Context, s *Session, name string) (any, error) {
	q, ok := l.cfg.Queries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, name)
	}

	rows, err := s.db.Query(ctx, q.SQL, s.args...)
	if err != nil {
		return nil, err
	}
	if q.One {
		return pgx.CollectExactlyOneRow(rows, rowToMap)
	}
	return pgx.CollectRows(rows, rowToMap)
}

// rowToMap keys a row's values by column name.
func rowToMap(row pgx.CollectableRow) (map[string]any, error) {
	values, err := row.Values()
	if err != nil {
		return nil, err
	}
	fields := row.FieldDescriptions()
	m := make(map[string]any, len(fields))
	for i, f := range fields {
		if i < len(values) {
			m[f.Name] = values[i]
		}
	}
	return m, nil
}

var _ facet.Loader[string, *Session] = (*Loader[string])(nil)
var _ DB = (*pgxpool.Pool)(nil)
