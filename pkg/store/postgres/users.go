package postgres

import (
	"context"
	"database/sql"
	"errors"

	"offerboard/pkg/models"
)

const userColumns = "id,first_name,last_name,age,email,role,phone"

type userRepo struct {
	db *sql.DB
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Age, &u.Email, &u.Role, &u.Phone)
	return u, err
}

// Create inserts a new user.
func (r userRepo) Create(ctx context.Context, u models.User) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (first_name,last_name,age,email,role,phone) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id",
		u.FirstName, u.LastName, u.Age, u.Email, u.Role, u.Phone,
	).Scan(&id)
	if err != nil {
		return 0, translate(err, u.Email, nil)
	}
	return id, nil
}

// Get retrieves a user by ID.
func (r userRepo) Get(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	return u, err
}

// List fetches all users.
func (r userRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update replaces every column of an existing user.
func (r userRepo) Update(ctx context.Context, u models.User) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET first_name=$2, last_name=$3, age=$4, email=$5, role=$6, phone=$7 WHERE id=$1",
		u.ID, u.FirstName, u.LastName, u.Age, u.Email, u.Role, u.Phone,
	)
	if err != nil {
		return translate(err, u.Email, nil)
	}
	return affected(res)
}

// Delete removes a user. Foreign keys clear references to it.
func (r userRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "users", id)
}
