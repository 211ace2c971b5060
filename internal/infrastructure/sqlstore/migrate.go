package sqlstore

import (
	"context"
	_ "embed"
	"fmt"
)

var (
	//go:embed schema_mysql.sql
	mysqlSchema string
	//go:embed schema_sqlite.sql
	sqliteSchema string
)

// EnsureSchema crea las tablas si no existen. Es idempotente.
func (s *Store) EnsureSchema(ctx context.Context) error {
	script := sqliteSchema
	if s.dialect == MySQL {
		script = mysqlSchema
	}
	for _, stmt := range splitStatements(script) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("aplicar esquema %s: %w", s.dialect, err)
		}
	}
	return nil
}
