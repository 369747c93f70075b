package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"sync"
)

type memoryDocument struct {
	code string
	body map[string]any
}

// MemoryDocumentStore is an in-process DocumentStore. Documents are kept as
// decoded JSON so that reads observe exactly what a JSON store would return.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string][]*memoryDocument
}

// NewMemoryDocumentStore creates an empty store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string][]*memoryDocument)}
}

// Save inserts doc or replaces the document stored under code.
func (s *MemoryDocumentStore) Save(_ context.Context, collection, code string, doc any) error {
	var body map[string]any
	if err := roundTrip(doc, &body); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.collections[collection] {
		if d.code == code {
			d.body = body
			return nil
		}
	}
	s.collections[collection] = append(s.collections[collection], &memoryDocument{code: code, body: body})
	return nil
}

// FindOne decodes the first matching document into out.
func (s *MemoryDocumentStore) FindOne(_ context.Context, collection string, q *Query, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.match(collection, q)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return ErrNotFound
	}
	return roundTrip(docs[0].body, out)
}

// Find decodes every matching document into out.
func (s *MemoryDocumentStore) Find(_ context.Context, collection string, q *Query, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.match(collection, q)
	if err != nil {
		return err
	}
	docs = sortAndPage(docs, q)

	bodies := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		bodies = append(bodies, d.body)
	}
	return roundTrip(bodies, out)
}

// UpdateFirst applies u to the first matching document.
func (s *MemoryDocumentStore) UpdateFirst(_ context.Context, collection string, q *Query, u *Update) (int64, error) {
	if err := u.validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.match(collection, q)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	// Build the new body first so a failing value leaves the document untouched.
	next := make(map[string]any, len(docs[0].body))
	for k, v := range docs[0].body {
		next[k] = v
	}
	for _, a := range u.Sets {
		v, err := normalize(a.Value)
		if err != nil {
			return 0, err
		}
		next[a.Field] = v
	}
	for _, a := range u.Pushes {
		v, err := normalize(a.Value)
		if err != nil {
			return 0, err
		}
		arr, _ := next[a.Field].([]any)
		grown := make([]any, len(arr), len(arr)+1)
		copy(grown, arr)
		next[a.Field] = append(grown, v)
	}
	docs[0].body = next
	return 1, nil
}

// Remove deletes every matching document.
func (s *MemoryDocumentStore) Remove(_ context.Context, collection string, q *Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := q.validate(); err != nil {
		return 0, err
	}
	matchers, err := compile(q)
	if err != nil {
		return 0, err
	}

	kept := s.collections[collection][:0]
	var removed int64
	for _, d := range s.collections[collection] {
		if matchAll(d, matchers) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	s.collections[collection] = kept
	return removed, nil
}

// Count returns the number of matching documents.
func (s *MemoryDocumentStore) Count(_ context.Context, collection string, q *Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.match(collection, q)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// Ping always succeeds.
func (s *MemoryDocumentStore) Ping(context.Context) error {
	return nil
}

type matcher func(map[string]any) bool

func (s *MemoryDocumentStore) match(collection string, q *Query) ([]*memoryDocument, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	matchers, err := compile(q)
	if err != nil {
		return nil, err
	}

	var out []*memoryDocument
	for _, d := range s.collections[collection] {
		if matchAll(d, matchers) {
			out = append(out, d)
		}
	}
	return out, nil
}

func compile(q *Query) ([]matcher, error) {
	if q == nil {
		return nil, nil
	}
	matchers := make([]matcher, 0, len(q.Criteria))
	for _, c := range q.Criteria {
		field := c.Field
		switch c.Op {
		case OpEq:
			want, err := normalize(c.Value)
			if err != nil {
				return nil, err
			}
			matchers = append(matchers, func(body map[string]any) bool {
				got, ok := body[field]
				return ok && reflect.DeepEqual(got, want)
			})
		case OpRegex:
			re, err := regexp.Compile("(?i)" + c.Value.(string))
			if err != nil {
				return nil, fmt.Errorf("invalid pattern for %q: %w", field, err)
			}
			matchers = append(matchers, func(body map[string]any) bool {
				s, ok := body[field].(string)
				return ok && re.MatchString(s)
			})
		default:
			return nil, fmt.Errorf("unsupported operator %d", c.Op)
		}
	}
	return matchers, nil
}

func matchAll(d *memoryDocument, matchers []matcher) bool {
	for _, m := range matchers {
		if !m(d.body) {
			return false
		}
	}
	return true
}

func sortAndPage(docs []*memoryDocument, q *Query) []*memoryDocument {
	if q == nil {
		return docs
	}
	if q.Sort != nil {
		field, desc := q.Sort.Field, q.Sort.Desc
		sorted := make([]*memoryDocument, len(docs))
		copy(sorted, docs)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sortKey(sorted[i].body[field]), sortKey(sorted[j].body[field])
			if desc {
				return a > b
			}
			return a < b
		})
		docs = sorted
	}
	if q.Skip >= len(docs) {
		return nil
	}
	docs = docs[q.Skip:]
	if q.Limit > 0 && q.Limit < len(docs) {
		docs = docs[:q.Limit]
	}
	return docs
}

func sortKey(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// normalize converts v into the shape encoding/json produces when decoding
// into an interface value.
func normalize(v any) (any, error) {
	var out any
	if err := roundTrip(v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func roundTrip(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return json.Unmarshal(raw, out)
}
