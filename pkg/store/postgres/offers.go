package postgres

import (
	"context"
	"database/sql"
	"errors"

	"offerboard/pkg/models"
)

type offerRepo struct {
	db *sql.DB
}

func offerRefs(o models.Offer) map[string]*int64 {
	return map[string]*int64{"order_id": o.OrderID, "executor_id": o.ExecutorID}
}

// Create inserts a new offer.
func (r offerRepo) Create(ctx context.Context, o models.Offer) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO offers (order_id,executor_id) VALUES ($1,$2) RETURNING id",
		o.OrderID, o.ExecutorID,
	).Scan(&id)
	if err != nil {
		return 0, translate(err, nil, offerRefs(o))
	}
	return id, nil
}

// Get retrieves an offer by ID.
func (r offerRepo) Get(ctx context.Context, id int64) (models.Offer, error) {
	var o models.Offer
	err := r.db.QueryRowContext(ctx, "SELECT id,order_id,executor_id FROM offers WHERE id=$1", id).
		Scan(&o.ID, &o.OrderID, &o.ExecutorID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Offer{}, models.ErrNotFound
	}
	return o, err
}

// List fetches all offers.
func (r offerRepo) List(ctx context.Context) ([]models.Offer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id,order_id,executor_id FROM offers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	offers := []models.Offer{}
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(&o.ID, &o.OrderID, &o.ExecutorID); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// Update replaces an existing offer.
func (r offerRepo) Update(ctx context.Context, o models.Offer) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE offers SET order_id=$2, executor_id=$3 WHERE id=$1",
		o.ID, o.OrderID, o.ExecutorID,
	)
	if err != nil {
		return translate(err, nil, offerRefs(o))
	}
	return affected(res)
}

// Delete removes an offer by ID.
func (r offerRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "offers", id)
}
