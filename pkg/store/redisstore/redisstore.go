// Package redisstore stores records as JSON documents in Redis.
//
// Each kind keeps a counter (<prefix>:<kind>:seq), an id index sorted by id
// (<prefix>:<kind>:ids) and one key per record (<prefix>:<kind>:<id>). User
// emails are reserved in the <prefix>:users:emails hash.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"offerboard/pkg/models"
	"offerboard/pkg/store"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis-backed store.Store.
type Store struct {
	rdb    redis.UniversalClient
	users  collection[models.User]
	orders collection[models.Order]
	offers collection[models.Offer]
	emails string
}

var _ store.Store = (*Store)(nil)

// New builds a store on an existing client. Keys are namespaced by prefix.
func New(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{
		rdb:    rdb,
		users:  newCollection(rdb, prefix, models.KindUser, func(u *models.User, id int64) { u.ID = id }),
		orders: newCollection(rdb, prefix, models.KindOrder, func(o *models.Order, id int64) { o.ID = id }),
		offers: newCollection(rdb, prefix, models.KindOffer, func(o *models.Offer, id int64) { o.ID = id }),
		emails: prefix + ":users:emails",
	}
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(rdb, opts.Prefix), nil
}

// Users returns the user repository.
func (s *Store) Users() store.Repository[models.User] { return userRepo{s} }

// Orders returns the order repository.
func (s *Store) Orders() store.Repository[models.Order] { return orderRepo{s} }

// Offers returns the offer repository.
func (s *Store) Offers() store.Repository[models.Offer] { return offerRepo{s} }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

// Close closes the client.
func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) checkRef(ctx context.Context, field string, kind models.Kind, ref *int64) error {
	if ref == nil {
		return nil
	}
	var ok bool
	var err error
	switch kind {
	case models.KindUser:
		ok, err = s.users.exists(ctx, *ref)
	case models.KindOrder:
		ok, err = s.orders.exists(ctx, *ref)
	default:
		ok, err = s.offers.exists(ctx, *ref)
	}
	if err != nil {
		return err
	}
	if !ok {
		return models.MissingReference(field, kind, *ref)
	}
	return nil
}

// collection stores one kind of record.
type collection[T any] struct {
	rdb    redis.UniversalClient
	prefix string
	setID  func(*T, int64)
}

func newCollection[T any](rdb redis.UniversalClient, prefix string, kind models.Kind, setID func(*T, int64)) collection[T] {
	return collection[T]{rdb: rdb, prefix: prefix + ":" + string(kind), setID: setID}
}

func (c collection[T]) key(id int64) string {
	return c.prefix + ":" + strconv.FormatInt(id, 10)
}

func (c collection[T]) nextID(ctx context.Context) (int64, error) {
	return c.rdb.Incr(ctx, c.prefix+":seq").Result()
}

func (c collection[T]) insert(ctx context.Context, id int64, rec T) error {
	c.setID(&rec, id)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.key(id), data, 0)
		pipe.ZAdd(ctx, c.prefix+":ids", redis.Z{Score: float64(id), Member: id})
		return nil
	})
	return err
}

func (c collection[T]) get(ctx context.Context, id int64) (T, error) {
	var rec T
	data, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return rec, models.ErrNotFound
	}
	if err != nil {
		return rec, err
	}
	err = json.Unmarshal(data, &rec)
	return rec, err
}

func (c collection[T]) exists(ctx context.Context, id int64) (bool, error) {
	n, err := c.rdb.Exists(ctx, c.key(id)).Result()
	return n == 1, err
}

func (c collection[T]) list(ctx context.Context) ([]T, error) {
	ids, err := c.rdb.ZRange(ctx, c.prefix+":ids", 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.prefix + ":" + id
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// removed between ZRANGE and MGET
			continue
		}
		var rec T
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// replace overwrites an existing record and reports models.ErrNotFound
// when there is none.
func (c collection[T]) replace(ctx context.Context, id int64, rec T) error {
	c.setID(&rec, id)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ok, err := c.rdb.SetXX(ctx, c.key(id), data, redis.KeepTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrNotFound
	}
	return nil
}

func (c collection[T]) remove(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, c.key(id))
		pipe.ZRem(ctx, c.prefix+":ids", id)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return models.ErrNotFound
	}
	return nil
}
