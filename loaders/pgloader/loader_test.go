package pgloader

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonwraymond/lazyops/facet"
)

// fakeRows serves fixed rows through the pgx.Rows interface.
type fakeRows struct {
	cols []string
	data [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Scan(...any) error             { return errors.New("scan not supported") }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

type query struct {
	sql  string
	args []any
}

type fakeDB struct {
	pings   atomic.Int32
	pingErr error
	tables  map[string]*fakeRows
	queries []query
	closed  atomic.Bool
}

func (db *fakeDB) Close() {
	db.closed.Store(true)
}

func (db *fakeDB) Ping(context.Context) error {
	db.pings.Add(1)
	return db.pingErr
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.queries = append(db.queries, query{sql, args})
	rows, ok := db.tables[sql]
	if !ok {
		return nil, errors.New("relation does not exist")
	}
	cp := *rows
	return &cp, nil
}

type user struct {
	First, Last string
}

const (
	profileSQL   = "SELECT cpf, rg FROM profiles WHERE first = $1 AND last = $2"
	addressesSQL = "SELECT rua, numero FROM addresses WHERE first = $1 AND last = $2"
)

func newDirectory() *fakeDB {
	return &fakeDB{tables: map[string]*fakeRows{
		profileSQL: {
			cols: []string{"cpf", "rg"},
			data: [][]any{{"111.111.111-11", "11.111.111-1"}},
		},
		addressesSQL: {
			cols: []string{"rua", "numero"},
			data: [][]any{{"Av. Brasil", int32(500)}},
		},
	}}
}

func newLoader(db DB) *Loader[user] {
	return New(Config[user]{
		Connect: Shared(db),
		Args:    func(u user) []any { return []any{u.First, u.Last} },
		Queries: map[string]Query{
			"profile":   {SQL: profileSQL, One: true},
			"addresses": {SQL: addressesSQL},
		},
	})
}

func TestLoader_ThroughHandle(t *testing.T) {
	db := newDirectory()
	h := facet.New(user{"Gabriel", "Galacci"}, newLoader(db))
	ctx := context.Background()

	profile, err := h.Get(ctx, "profile")
	if err != nil {
		t.Fatalf("Get(profile) failed: %v", err)
	}
	want := map[string]any{"cpf": "111.111.111-11", "rg": "11.111.111-1"}
	if !reflect.DeepEqual(profile, want) {
		t.Errorf("profile = %v, want %v", profile, want)
	}

	addrs, err := h.Get(ctx, "addresses")
	if err != nil {
		t.Fatalf("Get(addresses) failed: %v", err)
	}
	wantAddrs := []map[string]any{{"rua": "Av. Brasil", "numero": int32(500)}}
	if !reflect.DeepEqual(addrs, wantAddrs) {
		t.Errorf("addresses = %v, want %v", addrs, wantAddrs)
	}

	_, _ = h.Get(ctx, "profile")

	if db.pings.Load() != 1 {
		t.Errorf("pings = %d, want 1", db.pings.Load())
	}
	if len(db.queries) != 2 {
		t.Fatalf("queries = %d, want 2", len(db.queries))
	}
	if !reflect.DeepEqual(db.queries[0].args, []any{"Gabriel", "Galacci"}) {
		t.Errorf("args = %v", db.queries[0].args)
	}
}

func TestLoader_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown facet", func(t *testing.T) {
		h := facet.New(user{"Gabriel", "Galacci"}, newLoader(newDirectory()))
		_, err := h.Get(ctx, "orders")
		if !errors.Is(err, facet.ErrLoad) || !errors.Is(err, ErrUnknownFacet) {
			t.Errorf("error = %v, want ErrLoad wrapping ErrUnknownFacet", err)
		}
	})

	t.Run("ping failure", func(t *testing.T) {
		db := newDirectory()
		db.pingErr = errors.New("connection refused")
		h := facet.New(user{"Gabriel", "Galacci"}, newLoader(db))
		if _, err := h.Get(ctx, "profile"); !errors.Is(err, facet.ErrConstruction) {
			t.Errorf("error = %v, want ErrConstruction", err)
		}
	})

	t.Run("no rows for one", func(t *testing.T) {
		db := newDirectory()
		db.tables[profileSQL].data = nil
		h := facet.New(user{"Nobody", "Here"}, newLoader(db))
		if _, err := h.Get(ctx, "profile"); !errors.Is(err, pgx.ErrNoRows) {
			t.Errorf("error = %v, want pgx.ErrNoRows", err)
		}
	})

	t.Run("no connector", func(t *testing.T) {
		l := New(Config[user]{})
		if _, err := l.Construct(ctx, user{}); !errors.Is(err, ErrNoConnector) {
			t.Errorf("error = %v, want ErrNoConnector", err)
		}
	})
}

func TestNew_DefaultArgs(t *testing.T) {
	l := New(Config[string]{Connect: Shared(newDirectory())})
	s, err := l.Construct(context.Background(), "gabriel")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.args, []any{"gabriel"}) {
		t.Errorf("args = %v", s.args)
	}
}

func TestPoolConnector_BadDSN(t *testing.T) {
	if _, err := PoolConnector("postgres://%zz")(context.Background()); err == nil {
		t.Error("expected parse error for malformed DSN")
	}
}

func TestSession_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("shared database stays open", func(t *testing.T) {
		db := newDirectory()
		s, err := New(Config[string]{Connect: Shared(db)}).Construct(ctx, "gabriel")
		if err != nil {
			t.Fatal(err)
		}
		s.Close()
		if db.closed.Load() {
			t.Error("Close should not close a shared database")
		}
	})

	t.Run("owned database is closed", func(t *testing.T) {
		db := newDirectory()
		owned := func(context.Context) (DB, error) { return db, nil }
		s, err := New(Config[string]{Connect: owned}).Construct(ctx, "gabriel")
		if err != nil {
			t.Fatal(err)
		}
		s.Close()
		if !db.closed.Load() {
			t.Error("Close should close a database the connector opened")
		}
	})
}
