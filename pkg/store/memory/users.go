package memory

import (
	"context"

	"offerboard/pkg/models"
)

type userRepo struct{ s *Store }

// Create stores the user.
func (r userRepo) Create(ctx context.Context, u models.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.emailTaken(u.Email, 0) {
		return 0, models.DuplicateEmail(*u.Email)
	}
	return r.s.users.insert(u), nil
}

// Get retrieves a user by ID.
func (r userRepo) Get(ctx context.Context, id int64) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users.rows[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

// List returns all users.
func (r userRepo) List(ctx context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.users.list(), nil
}

// Update replaces an existing user.
func (r userRepo) Update(ctx context.Context, u models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.users.has(u.ID) {
		return models.ErrNotFound
	}
	if r.s.emailTaken(u.Email, u.ID) {
		return models.DuplicateEmail(*u.Email)
	}
	r.s.users.rows[u.ID] = u
	return nil
}

// Delete removes a user and clears the orders and offers pointing at it.
func (r userRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.users.has(id) {
		return models.ErrNotFound
	}
	delete(r.s.users.rows, id)
	for oid, o := range r.s.orders.rows {
		if o.RefersToUser(id) {
			o.DetachUser(id)
			r.s.orders.rows[oid] = o
		}
	}
	for oid, o := range r.s.offers.rows {
		o.Detach(0, id)
		r.s.offers.rows[oid] = o
	}
	return nil
}
