// Package pgloader implements facet.Loader on top of PostgreSQL.
//
// Construct opens (or borrows) a connection and binds the identity to
// query arguments. Each facet is one SQL query run with those arguments:
//
//	loader := pgloader.New(pgloader.Config[User]{
//	    Connect: pgloader.PoolConnector(dsn),
//	    Args:    func(u User) []any { return []any{u.First, u.Last} },
//	    Queries: map[string]pgloader.Query{
//	        "profile":   {SQL: `SELECT cpf, rg FROM profiles WHERE first = $1 AND last = $2`, One: true},
//	        "addresses": {SQL: `SELECT rua, numero FROM addresses WHERE first = $1 AND last = $2`},
//	    },
//	})
//	h := facet.New(User{"Gabriel", "Galacci"}, loader)
//
// Rows are returned as map[string]any keyed by column name; a One query
// returns a single map and fails when the row count is not exactly one.
package pgloader
