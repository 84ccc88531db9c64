package memory

import (
	"context"

	"offerboard/pkg/models"
)

type orderRepo struct{ s *Store }

func (r orderRepo) checkRefs(o models.Order) error {
	if err := r.s.checkUserRef("customer_id", o.CustomerID); err != nil {
		return err
	}
	return r.s.checkUserRef("executor_id", o.ExecutorID)
}

// Create stores the order.
func (r orderRepo) Create(ctx context.Context, o models.Order) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(o); err != nil {
		return 0, err
	}
	return r.s.orders.insert(o), nil
}

// Get retrieves an order by ID.
func (r orderRepo) Get(ctx context.Context, id int64) (models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders.rows[id]
	if !ok {
		return models.Order{}, models.ErrNotFound
	}
	return o, nil
}

// List returns all orders.
func (r orderRepo) List(ctx context.Context) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.orders.list(), nil
}

// Update replaces an existing order.
func (r orderRepo) Update(ctx context.Context, o models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.orders.has(o.ID) {
		return models.ErrNotFound
	}
	if err := r.checkRefs(o); err != nil {
		return err
	}
	r.s.orders.rows[o.ID] = o
	return nil
}

// Delete removes an order and clears offers made on it.
func (r orderRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.orders.has(id) {
		return models.ErrNotFound
	}
	delete(r.s.orders.rows, id)
	for oid, o := range r.s.offers.rows {
		o.Detach(id, 0)
		r.s.offers.rows[oid] = o
	}
	return nil
}
