// Package dbtest provides an in-memory database/sql connector that records
// statements and replays canned rows, for repository tests.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

// Call is one executed statement
type Call struct {
	Query string
	Args  []driver.Value
}

// Recorder holds the statements seen and the rows the next query returns.
type Recorder struct {
	mu      sync.Mutex
	Execs   []Call
	Queries []Call
	Columns []string
	Rows    [][]driver.Value
}

// SetRows replaces the result set served to every following query
func (r *Recorder) SetRows(columns []string, rows ...[]driver.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Columns = columns
	r.Rows = rows
}

func (r *Recorder) LastExec() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Execs) == 0 {
		return Call{}
	}
	return r.Execs[len(r.Execs)-1]
}

func (r *Recorder) LastQuery() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Queries) == 0 {
		return Call{}
	}
	return r.Queries[len(r.Queries)-1]
}

// Open returns a *sql.DB backed by a fresh Recorder
func Open() (*sql.DB, *Recorder) {
	rec := &Recorder{}
	return sql.OpenDB(connector{rec: rec}), rec
}

type connector struct{ rec *Recorder }

func (c connector) Connect(context.Context) (driver.Conn, error) { return &conn{rec: c.rec}, nil }
func (c connector) Driver() driver.Driver                          { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("dbtest: use Open")
}

type conn struct{ rec *Recorder }

func (c *conn) Prepare(query string) (driver.Stmt, error) { return &stmt{rec: c.rec, query: query}, nil }
func (c *conn) Close() error                              { return nil }
func (c *conn) Begin() (driver.Tx, error)                 { return nil, errors.New("dbtest: transactions not supported") }

type stmt struct {
	rec   *Recorder
	query string
}

func (s *stmt) Close() error  { return nil }
func (s *stmt) NumInput() int { return -1 }

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	s.rec.Execs = append(s.rec.Execs, Call{Query: s.query, Args: args})
	return driver.RowsAffected(1), nil
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	s.rec.mu.Lock()
	defer s.rec.mu.Unlock()
	s.rec.Queries = append(s.rec.Queries, Call{Query: s.query, Args: args})
	return &rows{columns: s.rec.Columns, data: s.rec.Rows}, nil
}

type rows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

func (r *rows) Columns() []string { return r.columns }
func (r *rows) Close() error      { return nil }

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}
