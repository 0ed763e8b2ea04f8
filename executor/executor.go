// Package executor runs translated commands against a live database/sql
// connection. It is the first consumer of the translation artifact: it
// binds the ordered parameters for the connection's driver, applies the
// command's timeout, executes, and hands rows back. Everything upstream
// of it (building, validating, translating) stays pure.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/sqlgen"
)

// Result reports the outcome of a non-query execution.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Executor runs validated commands. Implementations own connection
// lifecycle, retries and cancellation; the translation core owns none of
// those.
type Executor interface {
	Exec(ctx context.Context, cmd command.Command, tr sqlgen.Translation) (Result, error)
	Query(ctx context.Context, cmd command.Command, tr sqlgen.Translation) (*sql.Rows, error)
}

// DB is the database/sql reference executor. Prepared statements are
// cached per statement text under a read-write lock, so repeated
// translations of the same shape prepare once.
type DB struct {
	db     *sql.DB
	driver string

	mu    sync.RWMutex
	stmts map[string]*sql.Stmt
}

// NewDB wraps an open connection pool. driver selects the placeholder
// dialect: sqlserver and sqlite3 take named arguments, postgres and mysql
// need positional rewriting.
func NewDB(db *sql.DB, driver string) *DB {
	if db == nil {
		panic("executor: nil db")
	}
	return &DB{db: db, driver: driver, stmts: make(map[string]*sql.Stmt)}
}

// Exec runs a data-modifying command and reports affected rows. The
// command is validated once more on the way in; an invalid command never
// reaches the connection.
func (e *DB) Exec(ctx context.Context, cmd command.Command, tr sqlgen.Translation) (Result, error) {
	if err := cmd.Validate(); err != nil {
		return Result{}, err
	}
	text, args, err := BindArgs(e.driver, tr.Text, tr.Parameters)
	if err != nil {
		return Result{}, err
	}
	ctx, cancel := e.commandContext(ctx, cmd)
	defer cancel()

	stmt, err := e.prepare(ctx, text)
	if err != nil {
		return Result{}, err
	}
	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return Result{}, fmt.Errorf("executor: %s %s: %w", cmd.Kind(), cmd.Target(), err)
	}
	out := Result{}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out, nil
}

// Query runs a command that returns rows. The caller owns the returned
// rows and must close them.
func (e *DB) Query(ctx context.Context, cmd command.Command, tr sqlgen.Translation) (*sql.Rows, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	text, args, err := BindArgs(e.driver, tr.Text, tr.Parameters)
	if err != nil {
		return nil, err
	}
	ctx, cancel := e.commandContext(ctx, cmd)
	defer cancel()

	stmt, err := e.prepare(ctx, text)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("executor: %s %s: %w", cmd.Kind(), cmd.Target(), err)
	}
	return rows, nil
}

// Close releases every cached statement. The wrapped *sql.DB stays open;
// whoever opened it closes it.
func (e *DB) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var first error
	for text, stmt := range e.stmts {
		if err := stmt.Close(); err != nil && first == nil {
			first = err
		}
		delete(e.stmts, text)
	}
	return first
}

// commandContext applies the command's timeout, if any.
func (e *DB) commandContext(ctx context.Context, cmd command.Command) (context.Context, context.CancelFunc) {
	if d, ok := cmd.Timeout(); ok {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

func (e *DB) prepare(ctx context.Context, text string) (*sql.Stmt, error) {
	e.mu.RLock()
	stmt, ok := e.stmts[text]
	e.mu.RUnlock()
	if ok {
		return stmt, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if stmt, ok := e.stmts[text]; ok {
		return stmt, nil
	}
	stmt, err := e.db.PrepareContext(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("executor: prepare: %w", err)
	}
	e.stmts[text] = stmt
	return stmt, nil
}
