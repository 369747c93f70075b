package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/productmanager/manager_api/internal/models"
	"github.com/productmanager/manager_api/internal/repository"
)

// MaxPageSize caps every paginated read.
const MaxPageSize = 100

const (
	msgOK            = "OK"
	msgModifications = "OK: %d modifications"

	historyCreated = "Created by %s"
	historyUpdated = "Updated by %s"
	historyDeleted = "Deleted by %s"
)

// ClampPage normalizes skip and limit. A non-positive limit reads a full page.
func ClampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	return skip, limit
}

func modificationsMessage(n int64) string {
	return fmt.Sprintf(msgModifications, n)
}

// auditedCollection holds the store plumbing shared by the catalog services:
// history entries, code lookups, paging and deletion-partition counts.
type auditedCollection[T any] struct {
	store repository.DocumentStore
	name  string
	now   func() time.Time
}

func newAuditedCollection[T any](store repository.DocumentStore, name string) *auditedCollection[T] {
	return &auditedCollection[T]{store: store, name: name, now: time.Now}
}

func (c *auditedCollection[T]) entry(format string, user models.User) models.HistoryEntry {
	return models.HistoryEntry{
		Timestamp: c.now().UTC(),
		Message:   fmt.Sprintf(format, user.Code),
	}
}

func byCode(code string) *repository.Query {
	return repository.NewQuery(repository.Where(models.FieldCode, code))
}

func (c *auditedCollection[T]) insert(ctx context.Context, code string, doc *T) error {
	return c.store.Save(ctx, c.name, code, doc)
}

// findByCode returns nil without error when the code is unknown.
func (c *auditedCollection[T]) findByCode(ctx context.Context, code string) (*T, error) {
	var doc T
	if err := c.store.FindOne(ctx, c.name, byCode(code), &doc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// appendHistory pushes entry and applies u to the record in a single write.
func (c *auditedCollection[T]) appendHistory(ctx context.Context, code string, entry models.HistoryEntry, u *repository.Update) (int64, error) {
	return c.store.UpdateFirst(ctx, c.name, byCode(code), u.Push(models.FieldHistory, entry))
}

func (c *auditedCollection[T]) page(ctx context.Context, q *repository.Query) ([]T, error) {
	var docs []T
	if err := c.store.Find(ctx, c.name, q, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// count returns the number of records in the deleted partition that also
// satisfy extra.
func (c *auditedCollection[T]) count(ctx context.Context, deleted bool, extra ...repository.Criterion) (int64, error) {
	q := repository.NewQuery(repository.Where(models.FieldDeleted, deleted))
	for _, cr := range extra {
		q.And(cr)
	}
	return c.store.Count(ctx, c.name, q)
}

// listQuery builds the partition query used by every paginated read.
func listQuery(skip, limit int, deleted bool, desc bool, extra ...repository.Criterion) *repository.Query {
	q := repository.NewQuery(extra...).And(repository.Where(models.FieldDeleted, deleted))
	return q.OrderBy(models.FieldName, desc).Page(skip, limit)
}
