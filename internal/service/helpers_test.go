package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/productmanager/manager_api/internal/repository"
)

var (
	fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	errStore = errors.New("store unavailable")
)

func fixedClock() time.Time { return fixedNow }

// faultyStore fails the named DocumentStore method and delegates the rest.
type faultyStore struct {
	repository.DocumentStore
	failOn string
}

func (f *faultyStore) Save(ctx context.Context, collection, code string, doc any) error {
	if f.failOn == "Save" {
		return errStore
	}
	return f.DocumentStore.Save(ctx, collection, code, doc)
}

func (f *faultyStore) FindOne(ctx context.Context, collection string, q *repository.Query, out any) error {
	if f.failOn == "FindOne" {
		return errStore
	}
	return f.DocumentStore.FindOne(ctx, collection, q, out)
}

func (f *faultyStore) Find(ctx context.Context, collection string, q *repository.Query, out any) error {
	if f.failOn == "Find" {
		return errStore
	}
	return f.DocumentStore.Find(ctx, collection, q, out)
}

func (f *faultyStore) UpdateFirst(ctx context.Context, collection string, q *repository.Query, u *repository.Update) (int64, error) {
	if f.failOn == "UpdateFirst" {
		return 0, errStore
	}
	return f.DocumentStore.UpdateFirst(ctx, collection, q, u)
}

func (f *faultyStore) Remove(ctx context.Context, collection string, q *repository.Query) (int64, error) {
	if f.failOn == "Remove" {
		return 0, errStore
	}
	return f.DocumentStore.Remove(ctx, collection, q)
}

func (f *faultyStore) Count(ctx context.Context, collection string, q *repository.Query) (int64, error) {
	if f.failOn == "Count" {
		return 0, errStore
	}
	return f.DocumentStore.Count(ctx, collection, q)
}

func code(prefix string, i int) string {
	return fmt.Sprintf("%s%03d", prefix, i)
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		skip, limit         int
		wantSkip, wantLimit int
	}{
		{0, 10, 0, 10},
		{5, 100, 5, 100},
		{5, 101, 5, MaxPageSize},
		{0, 10000, 0, MaxPageSize},
		{-3, 0, 0, MaxPageSize},
		{0, -1, 0, MaxPageSize},
	}
	for _, tt := range tests {
		skip, limit := ClampPage(tt.skip, tt.limit)
		assert.Equal(t, tt.wantSkip, skip)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestModificationsMessage(t *testing.T) {
	assert.Equal(t, "OK: 0 modifications", modificationsMessage(0))
	assert.Equal(t, "OK: 1 modifications", modificationsMessage(1))
}
