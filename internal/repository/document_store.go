package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by FindOne when no document matches the query.
var ErrNotFound = errors.New("document not found")

// ErrInvalidField is returned when a query or update names a field that is
// not a plain document key.
var ErrInvalidField = errors.New("invalid document field")

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Operator selects how a Criterion compares a field to its value.
type Operator int

const (
	// OpEq matches documents whose field equals the value.
	OpEq Operator = iota
	// OpRegex matches documents whose field matches the value as a
	// case-insensitive pattern.
	OpRegex
)

// Criterion is a single predicate over a document field.
type Criterion struct {
	Field string
	Op    Operator
	Value any
}

// Where builds an equality criterion.
func Where(field string, value any) Criterion {
	return Criterion{Field: field, Op: OpEq, Value: value}
}

// Matches builds a case-insensitive pattern criterion.
func Matches(field, pattern string) Criterion {
	return Criterion{Field: field, Op: OpRegex, Value: pattern}
}

// Sort orders results by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Query is a conjunction of criteria plus optional ordering and paging.
// A zero Limit means no limit.
type Query struct {
	Criteria []Criterion
	Sort     *Sort
	Skip     int
	Limit    int
}

// NewQuery returns a query matching every criterion given.
func NewQuery(criteria ...Criterion) *Query {
	return &Query{Criteria: criteria}
}

// And adds a criterion to the query.
func (q *Query) And(c Criterion) *Query {
	q.Criteria = append(q.Criteria, c)
	return q
}

// OrderBy sets the result ordering.
func (q *Query) OrderBy(field string, desc bool) *Query {
	q.Sort = &Sort{Field: field, Desc: desc}
	return q
}

// Page sets skip and limit.
func (q *Query) Page(skip, limit int) *Query {
	q.Skip = skip
	q.Limit = limit
	return q
}

func (q *Query) validate() error {
	if q == nil {
		return nil
	}
	for _, c := range q.Criteria {
		if err := validateField(c.Field); err != nil {
			return err
		}
		if c.Op == OpRegex {
			if _, ok := c.Value.(string); !ok {
				return fmt.Errorf("pattern for %q must be a string", c.Field)
			}
		}
	}
	if q.Sort != nil {
		if err := validateField(q.Sort.Field); err != nil {
			return err
		}
	}
	if q.Skip < 0 || q.Limit < 0 {
		return fmt.Errorf("negative skip or limit")
	}
	return nil
}

// Assignment is one field/value pair of an Update.
type Assignment struct {
	Field string
	Value any
}

// Update describes field assignments plus array appends applied to a single
// document in one write.
type Update struct {
	Sets   []Assignment
	Pushes []Assignment
}

// NewUpdate returns an empty update.
func NewUpdate() *Update {
	return &Update{}
}

// Set overwrites field with value.
func (u *Update) Set(field string, value any) *Update {
	u.Sets = append(u.Sets, Assignment{Field: field, Value: value})
	return u
}

// Push appends value to the array stored in field.
func (u *Update) Push(field string, value any) *Update {
	u.Pushes = append(u.Pushes, Assignment{Field: field, Value: value})
	return u
}

func (u *Update) validate() error {
	if u == nil || len(u.Sets)+len(u.Pushes) == 0 {
		return errors.New("empty update")
	}
	for _, a := range u.Sets {
		if err := validateField(a.Field); err != nil {
			return err
		}
	}
	for _, a := range u.Pushes {
		if err := validateField(a.Field); err != nil {
			return err
		}
	}
	return nil
}

func validateField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

// DocumentStore is the document database used by the catalog services.
// Documents are JSON-serializable values keyed by collection and code.
type DocumentStore interface {
	// Save inserts doc or replaces the document already stored under code.
	Save(ctx context.Context, collection, code string, doc any) error
	// FindOne decodes the first matching document into out. It returns
	// ErrNotFound when nothing matches.
	FindOne(ctx context.Context, collection string, q *Query, out any) error
	// Find decodes every matching document into out, which must point to a
	// slice.
	Find(ctx context.Context, collection string, q *Query, out any) error
	// UpdateFirst applies u atomically to the first matching document and
	// returns the number of documents modified (0 or 1).
	UpdateFirst(ctx context.Context, collection string, q *Query, u *Update) (int64, error)
	// Remove deletes every matching document and returns how many were removed.
	Remove(ctx context.Context, collection string, q *Query) (int64, error)
	// Count returns the number of matching documents. Skip and limit are ignored.
	Count(ctx context.Context, collection string, q *Query) (int64, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
