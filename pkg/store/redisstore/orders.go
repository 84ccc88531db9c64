package redisstore

import (
	"context"

	"offerboard/pkg/models"
)

type orderRepo struct{ s *Store }

func (r orderRepo) checkRefs(ctx context.Context, o models.Order) error {
	if err := r.s.checkRef(ctx, "customer_id", models.KindUser, o.CustomerID); err != nil {
		return err
	}
	return r.s.checkRef(ctx, "executor_id", models.KindUser, o.ExecutorID)
}

// Create stores the order.
func (r orderRepo) Create(ctx context.Context, o models.Order) (int64, error) {
	if err := r.checkRefs(ctx, o); err != nil {
		return 0, err
	}
	id, err := r.s.orders.nextID(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.s.orders.insert(ctx, id, o); err != nil {
		return 0, err
	}
	return id, nil
}

// Get retrieves an order by ID.
func (r orderRepo) Get(ctx context.Context, id int64) (models.Order, error) {
	return r.s.orders.get(ctx, id)
}

// List returns all orders.
func (r orderRepo) List(ctx context.Context) ([]models.Order, error) {
	return r.s.orders.list(ctx)
}

// Update replaces an existing order.
func (r orderRepo) Update(ctx context.Context, o models.Order) error {
	if ok, err := r.s.orders.exists(ctx, o.ID); err != nil {
		return err
	} else if !ok {
		return models.ErrNotFound
	}
	if err := r.checkRefs(ctx, o); err != nil {
		return err
	}
	return r.s.orders.replace(ctx, o.ID, o)
}

// Delete removes an order and clears offers made on it.
func (r orderRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.orders.remove(ctx, id); err != nil {
		return err
	}
	return detachOffers(ctx, r.s, id, 0)
}
