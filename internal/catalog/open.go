package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// OpenSource builds the Source named by kind. The returned close func
// releases whatever the source holds open.
func OpenSource(kind, endpoint, dsn string, log *zap.Logger) (Source, func() error, error) {
	switch kind {
	case "", "http":
		return NewHTTPSource(endpoint, log), func() error { return nil }, nil
	case "postgres":
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(4)
		return NewPostgresSource(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown catalog source %q", kind)
}
