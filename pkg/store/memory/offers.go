package memory

import (
	"context"

	"offerboard/pkg/models"
)

type offerRepo struct{ s *Store }

func (r offerRepo) checkRefs(o models.Offer) error {
	if err := r.s.checkOrderRef("order_id", o.OrderID); err != nil {
		return err
	}
	return r.s.checkUserRef("executor_id", o.ExecutorID)
}

// Create stores the offer.
func (r offerRepo) Create(ctx context.Context, o models.Offer) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(o); err != nil {
		return 0, err
	}
	return r.s.offers.insert(o), nil
}

// Get retrieves an offer by ID.
func (r offerRepo) Get(ctx context.Context, id int64) (models.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.offers.rows[id]
	if !ok {
		return models.Offer{}, models.ErrNotFound
	}
	return o, nil
}

// List returns all offers.
func (r offerRepo) List(ctx context.Context) ([]models.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.offers.list(), nil
}

// Update replaces an existing offer.
func (r offerRepo) Update(ctx context.Context, o models.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.offers.has(o.ID) {
		return models.ErrNotFound
	}
	if err := r.checkRefs(o); err != nil {
		return err
	}
	r.s.offers.rows[o.ID] = o
	return nil
}

// Delete removes an offer by ID.
func (r offerRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.offers.has(id) {
		return models.ErrNotFound
	}
	delete(r.s.offers.rows, id)
	return nil
}
