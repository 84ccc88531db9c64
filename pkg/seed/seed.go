// Package seed loads the bundled fixture records into a store at startup.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"offerboard/pkg/mapper"
	"offerboard/pkg/models"
	"offerboard/pkg/store"
)

//go:embed fixtures.json
var fixturesJSON []byte

// fixtures holds wire payloads. References between them are 1-based
// positions in the fixture lists, not store ids.
type fixtures struct {
	Users  []json.RawMessage `json:"users"`
	Orders []json.RawMessage `json:"orders"`
	Offers []json.RawMessage `json:"offers"`
}

// Result counts the records a Load call inserted.
type Result struct {
	Users   int
	Orders  int
	Offers  int
	Skipped bool
}

// Load inserts the bundled fixtures. A store that already holds records of
// any kind is left untouched and reported as skipped.
func Load(ctx context.Context, s store.Store) (Result, error) {
	return LoadFrom(ctx, s, fixturesJSON)
}

// LoadFrom inserts fixtures from data, formatted like the bundled file.
// Every fixture is decoded and its references checked before the first
// write.
func LoadFrom(ctx context.Context, s store.Store, data []byte) (Result, error) {
	var res Result
	var fx fixtures
	if err := json.Unmarshal(data, &fx); err != nil {
		return res, fmt.Errorf("parse fixtures: %w", err)
	}

	users := make([]models.User, len(fx.Users))
	for i, raw := range fx.Users {
		u, err := mapper.DecodeUser(raw, mapper.ModeCreate)
		if err != nil {
			return res, fmt.Errorf("user fixture %d: %w", i+1, err)
		}
		users[i] = u
	}
	orders := make([]models.Order, len(fx.Orders))
	for i, raw := range fx.Orders {
		o, err := mapper.DecodeOrder(raw, mapper.ModeCreate)
		if err == nil {
			err = checkRefs(len(users), o.CustomerID, o.ExecutorID)
		}
		if err != nil {
			return res, fmt.Errorf("order fixture %d: %w", i+1, err)
		}
		orders[i] = o
	}
	offers := make([]models.Offer, len(fx.Offers))
	for i, raw := range fx.Offers {
		o, err := mapper.DecodeOffer(raw, mapper.ModeCreate)
		if err == nil {
			err = checkRefs(len(orders), o.OrderID)
		}
		if err == nil {
			err = checkRefs(len(users), o.ExecutorID)
		}
		if err != nil {
			return res, fmt.Errorf("offer fixture %d: %w", i+1, err)
		}
		offers[i] = o
	}

	empty, err := isEmpty(ctx, s)
	if err != nil {
		return res, fmt.Errorf("check store: %w", err)
	}
	if !empty {
		res.Skipped = true
		return res, nil
	}

	userIDs := make([]int64, len(users))
	for i, u := range users {
		id, err := s.Users().Create(ctx, u)
		if err != nil {
			return res, fmt.Errorf("user fixture %d: %w", i+1, err)
		}
		userIDs[i] = id
		res.Users++
	}
	orderIDs := make([]int64, len(orders))
	for i, o := range orders {
		o.CustomerID = remap(userIDs, o.CustomerID)
		o.ExecutorID = remap(userIDs, o.ExecutorID)
		id, err := s.Orders().Create(ctx, o)
		if err != nil {
			return res, fmt.Errorf("order fixture %d: %w", i+1, err)
		}
		orderIDs[i] = id
		res.Orders++
	}
	for i, o := range offers {
		o.OrderID = remap(orderIDs, o.OrderID)
		o.ExecutorID = remap(userIDs, o.ExecutorID)
		if _, err := s.Offers().Create(ctx, o); err != nil {
			return res, fmt.Errorf("offer fixture %d: %w", i+1, err)
		}
		res.Offers++
	}
	return res, nil
}

func isEmpty(ctx context.Context, s store.Store) (bool, error) {
	users, err := s.Users().List(ctx)
	if err != nil || len(users) > 0 {
		return false, err
	}
	orders, err := s.Orders().List(ctx)
	if err != nil || len(orders) > 0 {
		return false, err
	}
	offers, err := s.Offers().List(ctx)
	if err != nil {
		return false, err
	}
	return len(offers) == 0, nil
}

// checkRefs verifies every set reference names a fixture position in
// [1, n].
func checkRefs(n int, refs ...*int64) error {
	for _, ref := range refs {
		if ref != nil && (*ref < 1 || *ref > int64(n)) {
			return fmt.Errorf("reference %d is outside the %d loaded fixtures", *ref, n)
		}
	}
	return nil
}

// remap turns a fixture position into the id that fixture was stored under.
func remap(ids []int64, ref *int64) *int64 {
	if ref == nil {
		return nil
	}
	id := ids[*ref-1]
	return &id
}
