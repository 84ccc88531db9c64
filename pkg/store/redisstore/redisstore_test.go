package redisstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"offerboard/pkg/models"
)

// openTestStore connects to TEST_REDIS_ADDR under a throwaway prefix, or skips.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("test redis unreachable: %v", err)
	}
	prefix := "offerboard-test-" + uuid.NewString()
	t.Cleanup(func() {
		iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
		for iter.Next(ctx) {
			rdb.Del(ctx, iter.Val())
		}
		rdb.Close()
	})
	return New(rdb, prefix)
}

func strp(s string) *string { return &s }
func intp(v int64) *int64 { return &v }

func TestUserLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Users().Create(ctx, models.User{FirstName: "Ann", LastName: "Lee", Email: strp("a@x.com")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Users().Create(ctx, models.User{FirstName: "B", LastName: "C", Email: strp("a@x.com")}); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, err := s.Users().Get(ctx, id)
	if err != nil || got.FirstName != "Ann" || got.ID != id {
		t.Fatalf("get: %v %+v", err, got)
	}

	got.Email = strp("b@x.com")
	if err := s.Users().Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	// the old email is free again
	if _, err := s.Users().Create(ctx, models.User{FirstName: "D", LastName: "E", Email: strp("a@x.com")}); err != nil {
		t.Fatalf("reuse released email: %v", err)
	}

	list, err := s.Users().List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != id {
		t.Fatalf("list: %v %+v", err, list)
	}
	if err := s.Users().Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Users().Get(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Users().Delete(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteClearsReferences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	uid, _ := s.Users().Create(ctx, models.User{FirstName: "A", LastName: "B"})
	oid, err := s.Orders().Create(ctx, models.Order{Name: "x", ExecutorID: intp(uid)})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	fid, err := s.Offers().Create(ctx, models.Offer{OrderID: intp(oid), ExecutorID: intp(uid)})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	if _, err := s.Offers().Create(ctx, models.Offer{OrderID: intp(oid + 1)}); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected reference conflict, got %v", err)
	}

	if err := s.Orders().Delete(ctx, oid); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	if err := s.Users().Delete(ctx, uid); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	f, err := s.Offers().Get(ctx, fid)
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if f.OrderID != nil || f.ExecutorID != nil {
		t.Fatalf("offer references not cleared: %+v", f)
	}
}

func TestDuplicateEmailKeepsSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Users().Create(ctx, models.User{FirstName: "Ann", LastName: "Lee", Email: strp("a@x.com")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Users().Create(ctx, models.User{FirstName: "B", LastName: "C", Email: strp("a@x.com")}); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	second, err := s.Users().Create(ctx, models.User{FirstName: "D", LastName: "E", Email: strp("d@x.com")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second != first+1 {
		t.Fatalf("rejected create consumed an id: got %d after %d", second, first)
	}

	if err := s.Users().Update(ctx, models.User{ID: second + 10, FirstName: "X", LastName: "Y", Email: strp("x@x.com")}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Users().Create(ctx, models.User{FirstName: "X", LastName: "Y", Email: strp("x@x.com")}); err != nil {
		t.Fatalf("email of a failed update should stay free: %v", err)
	}
}
