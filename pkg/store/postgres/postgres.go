// Package postgres persists records in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"offerboard/pkg/models"
	"offerboard/pkg/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open database. The schema must already be migrated.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to databaseURL, applies pending migrations and returns the
// store.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(databaseURL); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// Migrate applies every embedded migration. An up-to-date schema is not an
// error.
func Migrate(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Users returns the user repository.
func (s *Store) Users() store.Repository[models.User] { return userRepo{s.db} }

// Orders returns the order repository.
func (s *Store) Orders() store.Repository[models.Order] { return orderRepo{s.db} }

// Offers returns the offer repository.
func (s *Store) Offers() store.Repository[models.Offer] { return offerRepo{s.db} }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// foreign keys declared in the migrations, by constraint name.
var foreignKeys = map[string]struct {
	field string
	kind  models.Kind
}{
	"orders_customer_id_fkey": {"customer_id", models.KindUser},
	"orders_executor_id_fkey": {"executor_id", models.KindUser},
	"offers_order_id_fkey":    {"order_id", models.KindOrder},
	"offers_executor_id_fkey": {"executor_id", models.KindUser},
}

// translate maps PostgreSQL constraint errors onto models errors. refs
// resolves the id a foreign key field was set to.
func translate(err error, email *string, refs map[string]*int64) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "unique_violation":
		if pqErr.Constraint == "users_email_key" && email != nil {
			return models.DuplicateEmail(*email)
		}
	case "foreign_key_violation":
		fk, ok := foreignKeys[pqErr.Constraint]
		if ok && refs[fk.field] != nil {
			return models.MissingReference(fk.field, fk.kind, *refs[fk.field])
		}
		return &models.ConstraintError{Constraint: models.ConstraintReference, Detail: pqErr.Message}
	}
	return err
}

// affected turns a zero row count into models.ErrNotFound.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *sql.DB, table string, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id=$1", id)
	if err != nil {
		return err
	}
	return affected(res)
}
