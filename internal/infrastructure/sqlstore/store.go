// Package sqlstore implementa el límite de persistencia sobre database/sql para MySQL
// (Azure SQL / MySQL gestionado) y SQLite. Cada lote usa sentencias preparadas
// dentro de una única transacción.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

// Dialect diferencias entre motores.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

var (
	_ inventory.TxRunner                  = (*Store)(nil)
	_ repository.NotificationOutboxReader = (*Store)(nil)
)

// Store ejecuta lotes en transacciones y expone la bandeja de salida.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New envuelve una conexión ya abierta.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB conexión subyacente.
func (s *Store) DB() *sql.DB { return s.db }

// Close cierra la conexión.
func (s *Store) Close() error { return s.db.Close() }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(
	logRepo repository.EntryLogRepository,
	outbox repository.NotificationOutbox,
) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	repo := &txRepo{tx: tx}
	defer repo.close()

	if err := fn(repo, repo); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation reconoce la violación de clave única en ambos motores.
func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062 // ER_DUP_ENTRY
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// splitStatements separa un script SQL en sentencias; el driver MySQL no acepta varias por Exec.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
