package redisstore

import (
	"context"

	"offerboard/pkg/models"
)

type offerRepo struct{ s *Store }

func (r offerRepo) checkRefs(ctx context.Context, o models.Offer) error {
	if err := r.s.checkRef(ctx, "order_id", models.KindOrder, o.OrderID); err != nil {
		return err
	}
	return r.s.checkRef(ctx, "executor_id", models.KindUser, o.ExecutorID)
}

// Create stores the offer.
func (r offerRepo) Create(ctx context.Context, o models.Offer) (int64, error) {
	if err := r.checkRefs(ctx, o); err != nil {
		return 0, err
	}
	id, err := r.s.offers.nextID(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.s.offers.insert(ctx, id, o); err != nil {
		return 0, err
	}
	return id, nil
}

// Get retrieves an offer by ID.
func (r offerRepo) Get(ctx context.Context, id int64) (models.Offer, error) {
	return r.s.offers.get(ctx, id)
}

// List returns all offers.
func (r offerRepo) List(ctx context.Context) ([]models.Offer, error) {
	return r.s.offers.list(ctx)
}

// Update replaces an existing offer.
func (r offerRepo) Update(ctx context.Context, o models.Offer) error {
	if ok, err := r.s.offers.exists(ctx, o.ID); err != nil {
		return err
	} else if !ok {
		return models.ErrNotFound
	}
	if err := r.checkRefs(ctx, o); err != nil {
		return err
	}
	return r.s.offers.replace(ctx, o.ID, o)
}

// Delete removes an offer by ID.
func (r offerRepo) Delete(ctx context.Context, id int64) error {
	return r.s.offers.remove(ctx, id)
}
