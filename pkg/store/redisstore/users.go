package redisstore

import (
	"context"
	"errors"
	"strconv"

	"offerboard/pkg/models"
)

type userRepo struct{ s *Store }

// reserveEmail claims email for id. Claiming an email already held by id
// succeeds.
func (r userRepo) reserveEmail(ctx context.Context, email *string, id int64) error {
	if email == nil {
		return nil
	}
	ok, err := r.s.rdb.HSetNX(ctx, r.s.emails, *email, id).Result()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	owner, err := r.s.rdb.HGet(ctx, r.s.emails, *email).Result()
	if err != nil {
		return err
	}
	if owner != strconv.FormatInt(id, 10) {
		return models.DuplicateEmail(*email)
	}
	return nil
}

func (r userRepo) releaseEmail(ctx context.Context, email *string) error {
	if email == nil {
		return nil
	}
	return r.s.rdb.HDel(ctx, r.s.emails, *email).Err()
}

// Create stores the user. A taken email is rejected before an id is
// allocated.
func (r userRepo) Create(ctx context.Context, u models.User) (int64, error) {
	if u.Email != nil {
		taken, err := r.s.rdb.HExists(ctx, r.s.emails, *u.Email).Result()
		if err != nil {
			return 0, err
		}
		if taken {
			return 0, models.DuplicateEmail(*u.Email)
		}
	}
	id, err := r.s.users.nextID(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.reserveEmail(ctx, u.Email, id); err != nil {
		return 0, err
	}
	if err := r.s.users.insert(ctx, id, u); err != nil {
		r.releaseEmail(ctx, u.Email)
		return 0, err
	}
	return id, nil
}

// Get retrieves a user by ID.
func (r userRepo) Get(ctx context.Context, id int64) (models.User, error) {
	return r.s.users.get(ctx, id)
}

// List returns all users.
func (r userRepo) List(ctx context.Context) ([]models.User, error) {
	return r.s.users.list(ctx)
}

// Update replaces an existing user and moves its email reservation.
func (r userRepo) Update(ctx context.Context, u models.User) error {
	old, err := r.s.users.get(ctx, u.ID)
	if err != nil {
		return err
	}
	if err := r.reserveEmail(ctx, u.Email, u.ID); err != nil {
		return err
	}
	if err := r.s.users.replace(ctx, u.ID, u); err != nil {
		if !sameEmail(u.Email, old.Email) {
			r.releaseEmail(ctx, u.Email)
		}
		return err
	}
	if old.Email != nil && !sameEmail(u.Email, old.Email) {
		return r.releaseEmail(ctx, old.Email)
	}
	return nil
}

func sameEmail(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Delete removes a user and clears the orders and offers pointing at it.
func (r userRepo) Delete(ctx context.Context, id int64) error {
	u, err := r.s.users.get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.s.users.remove(ctx, id); err != nil {
		return err
	}
	if err := r.releaseEmail(ctx, u.Email); err != nil {
		return err
	}

	orders, err := r.s.orders.list(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if !o.RefersToUser(id) {
			continue
		}
		o.DetachUser(id)
		if err := r.s.orders.replace(ctx, o.ID, o); err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
	}
	return detachOffers(ctx, r.s, 0, id)
}

// detachOffers clears offer references to a deleted order or user.
func detachOffers(ctx context.Context, s *Store, orderID, userID int64) error {
	offers, err := s.offers.list(ctx)
	if err != nil {
		return err
	}
	for _, o := range offers {
		before := o
		o.Detach(orderID, userID)
		if o == before {
			continue
		}
		if err := s.offers.replace(ctx, o.ID, o); err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
	}
	return nil
}
