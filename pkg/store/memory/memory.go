// Package memory implements an in-memory record store.
package memory

import (
	"context"
	"sort"
	"sync"

	"offerboard/pkg/models"
	"offerboard/pkg/store"
)

// table holds the rows of one record kind keyed by id.
type table[T any] struct {
	seq   int64
	rows  map[int64]T
	setID func(*T, int64)
}

func newTable[T any](setID func(*T, int64)) *table[T] {
	return &table[T]{rows: make(map[int64]T), setID: setID}
}

func (t *table[T]) insert(rec T) int64 {
	t.seq++
	t.setID(&rec, t.seq)
	t.rows[t.seq] = rec
	return t.seq
}

func (t *table[T]) has(id int64) bool {
	_, ok := t.rows[id]
	return ok
}

// list returns rows ordered by id, which is insertion order.
func (t *table[T]) list() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// Store keeps every table behind a single lock so reference checks and the
// nullify-on-delete pass see a consistent view.
type Store struct {
	mu     sync.RWMutex
	users  *table[models.User]
	orders *table[models.Order]
	offers *table[models.Offer]
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:  newTable(func(u *models.User, id int64) { u.ID = id }),
		orders: newTable(func(o *models.Order, id int64) { o.ID = id }),
		offers: newTable(func(o *models.Offer, id int64) { o.ID = id }),
	}
}

// Users returns the user repository.
func (s *Store) Users() store.Repository[models.User] { return userRepo{s} }

// Orders returns the order repository.
func (s *Store) Orders() store.Repository[models.Order] { return orderRepo{s} }

// Offers returns the offer repository.
func (s *Store) Offers() store.Repository[models.Offer] { return offerRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) checkUserRef(field string, ref *int64) error {
	if ref != nil && !s.users.has(*ref) {
		return models.MissingReference(field, models.KindUser, *ref)
	}
	return nil
}

func (s *Store) checkOrderRef(field string, ref *int64) error {
	if ref != nil && !s.orders.has(*ref) {
		return models.MissingReference(field, models.KindOrder, *ref)
	}
	return nil
}

// emailTaken reports whether another user already owns email.
func (s *Store) emailTaken(email *string, self int64) bool {
	if email == nil {
		return false
	}
	for id, u := range s.users.rows {
		if id != self && u.Email != nil && *u.Email == *email {
			return true
		}
	}
	return false
}
