package postgres

import (
	"context"
	"database/sql"
	"errors"

	"offerboard/pkg/models"
)

const orderColumns = "id,name,description,start_date,end_date,address,price,customer_id,executor_id"

type orderRepo struct {
	db *sql.DB
}

func scanOrder(row scanner) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.StartDate, &o.EndDate,
		&o.Address, &o.Price, &o.CustomerID, &o.ExecutorID)
	return o, err
}

func orderRefs(o models.Order) map[string]*int64 {
	return map[string]*int64{"customer_id": o.CustomerID, "executor_id": o.ExecutorID}
}

// Create inserts a new order.
func (r orderRepo) Create(ctx context.Context, o models.Order) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO orders (name,description,start_date,end_date,address,price,customer_id,executor_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
		o.Name, o.Description, o.StartDate, o.EndDate, o.Address, o.Price, o.CustomerID, o.ExecutorID,
	).Scan(&id)
	if err != nil {
		return 0, translate(err, nil, orderRefs(o))
	}
	return id, nil
}

// Get retrieves an order by ID.
func (r orderRepo) Get(ctx context.Context, id int64) (models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, models.ErrNotFound
	}
	return o, err
}

// List fetches all orders.
func (r orderRepo) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Update replaces every column of an existing order.
func (r orderRepo) Update(ctx context.Context, o models.Order) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET name=$2, description=$3, start_date=$4, end_date=$5,
		address=$6, price=$7, customer_id=$8, executor_id=$9 WHERE id=$1`,
		o.ID, o.Name, o.Description, o.StartDate, o.EndDate, o.Address, o.Price, o.CustomerID, o.ExecutorID,
	)
	if err != nil {
		return translate(err, nil, orderRefs(o))
	}
	return affected(res)
}

// Delete removes an order by ID.
func (r orderRepo) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "orders", id)
}
