// Package testutil provides a stub database/sql driver that understands the
// statements issued by the postgres error store.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// StubConn keeps error rows per infra id and records every statement.
type StubConn struct {
	mu         sync.Mutex
	Execs      []string
	Rows       map[int64][]string
	FailPing   bool
	FailExec   bool
	FailBegin  bool
	FailCommit bool
	FailQuery  bool
	RowsErr    error
	// ReportedRows, when set, replaces the affected-row count of inserts.
	ReportedRows *int64
	Commits      int
	Rollbacks    int

	snapshot map[int64][]string
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Rows: make(map[int64][]string)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)
	return db, conn
}

// Statements returns a copy of the recorded statements.
func (c *StubConn) Statements() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.Execs...)
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *StubConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, fmt.Errorf("begin fail")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = cloneRows(c.Rows)
	return &stubTx{conn: c}, nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	up := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(up, "CREATE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(up, "INSERT INTO INFRA_LAYER_ERROR"):
		infraID, err := infraArg(args)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, fmt.Errorf("insert expects a JSON array argument")
		}
		doc, ok := args[1].Value.(string)
		if !ok {
			return nil, fmt.Errorf("insert array argument has type %T", args[1].Value)
		}
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(doc), &elems); err != nil {
			return nil, fmt.Errorf("decode array argument: %w", err)
		}
		for _, e := range elems {
			c.Rows[infraID] = append(c.Rows[infraID], string(e))
		}
		if c.ReportedRows != nil {
			return driver.RowsAffected(*c.ReportedRows), nil
		}
		return driver.RowsAffected(int64(len(elems))), nil
	case strings.HasPrefix(up, "DELETE FROM INFRA_LAYER_ERROR"):
		infraID, err := infraArg(args)
		if err != nil {
			return nil, err
		}
		n := len(c.Rows[infraID])
		delete(c.Rows, infraID)
		return driver.RowsAffected(int64(n)), nil
	}
	return nil, fmt.Errorf("unsupported statement: %s", query)
}

// QueryContext implements driver.QueryerContext.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FailQuery {
		return nil, fmt.Errorf("query fail")
	}
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT INFORMATION FROM INFRA_LAYER_ERROR") {
		return nil, fmt.Errorf("unsupported query: %s", query)
	}
	infraID, err := infraArg(args)
	if err != nil {
		return nil, err
	}
	values := make([][]driver.Value, 0, len(c.Rows[infraID]))
	for _, row := range c.Rows[infraID] {
		values = append(values, []driver.Value{[]byte(row)})
	}
	return &stubRows{cols: []string{"information"}, rows: values, err: c.RowsErr}, nil
}

func infraArg(args []driver.NamedValue) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing infra id argument")
	}
	id, ok := args[0].Value.(int64)
	if !ok {
		return 0, fmt.Errorf("infra id argument has type %T", args[0].Value)
	}
	return id, nil
}

func cloneRows(in map[int64][]string) map[int64][]string {
	out := make(map[int64][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

type stubTx struct {
	conn *StubConn
}

func (t *stubTx) Commit() error {
	t.conn.mu.Lock()
	defer t.conn.mu.Unlock()
	if t.conn.FailCommit {
		return fmt.Errorf("commit fail")
	}
	t.conn.Commits++
	t.conn.snapshot = nil
	return nil
}

func (t *stubTx) Rollback() error {
	t.conn.mu.Lock()
	defer t.conn.mu.Unlock()
	t.conn.Rollbacks++
	if t.conn.snapshot != nil {
		t.conn.Rows = t.conn.snapshot
		t.conn.snapshot = nil
	}
	return nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
	err  error
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}
