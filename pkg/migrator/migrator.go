package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Direction operación a ejecutar sobre el esquema.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// Run ejecuta las migraciones goose embebidas en files contra dbURL.
func Run(ctx context.Context, dbURL string, files fs.FS, dir Direction) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch dir {
	case Up:
		err = goose.UpContext(ctx, db, ".")
	case Down:
		err = goose.DownContext(ctx, db, ".")
	case Status:
		err = goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("dirección de migración desconocida: %q", dir)
	}
	if err != nil {
		return fmt.Errorf("migrations %s: %w", dir, err)
	}
	return nil
}

// RunMigrations aplica todas las migraciones pendientes.
func RunMigrations(ctx context.Context, dbURL string, files fs.FS) error {
	return Run(ctx, dbURL, files, Up)
}
