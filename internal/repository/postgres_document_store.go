package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// PostgresDocumentStore keeps every collection in the documents table as JSONB.
type PostgresDocumentStore struct {
	db *sqlx.DB
}

// NewPostgresDocumentStore creates a new PostgresDocumentStore.
func NewPostgresDocumentStore(db *sqlx.DB) *PostgresDocumentStore {
	return &PostgresDocumentStore{db: db}
}

// Save upserts doc under (collection, code).
func (s *PostgresDocumentStore) Save(ctx context.Context, collection, code string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	const q = `
        INSERT INTO documents (collection, code, body)
        VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (collection, code) DO UPDATE SET
            body = EXCLUDED.body,
            updated_at = NOW()`

	_, err = s.db.ExecContext(ctx, q, collection, code, string(body))
	return err
}

// FindOne returns the first document matching q.
func (s *PostgresDocumentStore) FindOne(ctx context.Context, collection string, q *Query, out any) error {
	one := NewQuery()
	if q != nil {
		copied := *q
		one = &copied
	}
	one.Limit = 1

	query, args, err := buildSelect(collection, one)
	if err != nil {
		return err
	}

	var body types.JSONText
	if err := s.db.GetContext(ctx, &body, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(body, out)
}

// Find returns every document matching q.
func (s *PostgresDocumentStore) Find(ctx context.Context, collection string, q *Query, out any) error {
	query, args, err := buildSelect(collection, q)
	if err != nil {
		return err
	}

	var rows []types.JSONText
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}
	return decodeDocuments(rows, out)
}

// UpdateFirst applies u to the first document matching q in one statement.
func (s *PostgresDocumentStore) UpdateFirst(ctx context.Context, collection string, q *Query, u *Update) (int64, error) {
	query, args, err := buildUpdate(collection, q, u)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Remove deletes every document matching q.
func (s *PostgresDocumentStore) Remove(ctx context.Context, collection string, q *Query) (int64, error) {
	where, args, err := buildWhere(collection, q)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents `+where, args.values...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of documents matching q.
func (s *PostgresDocumentStore) Count(ctx context.Context, collection string, q *Query) (int64, error) {
	where, args, err := buildWhere(collection, q)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM documents `+where, args.values...); err != nil {
		return 0, err
	}
	return total, nil
}

// Ping checks the database connection.
func (s *PostgresDocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// sqlArgs collects positional parameters while a statement is assembled.
type sqlArgs struct {
	values []any
}

func (a *sqlArgs) bind(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

func jsonParam(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(raw), nil
}

func buildWhere(collection string, q *Query) (string, *sqlArgs, error) {
	args := &sqlArgs{}
	where, err := appendWhere(args, collection, q)
	if err != nil {
		return "", nil, err
	}
	return where, args, nil
}

func appendWhere(args *sqlArgs, collection string, q *Query) (string, error) {
	if err := q.validate(); err != nil {
		return "", err
	}

	parts := []string{"collection = " + args.bind(collection)}
	if q != nil {
		for _, c := range q.Criteria {
			switch c.Op {
			case OpEq:
				v, err := jsonParam(c.Value)
				if err != nil {
					return "", err
				}
				parts = append(parts, fmt.Sprintf("(body -> %s::text) = %s::jsonb", args.bind(c.Field), args.bind(v)))
			case OpRegex:
				parts = append(parts, fmt.Sprintf("(body ->> %s::text) ~* %s", args.bind(c.Field), args.bind(c.Value)))
			default:
				return "", fmt.Errorf("unsupported operator %d", c.Op)
			}
		}
	}
	return "WHERE " + strings.Join(parts, " AND "), nil
}

func buildSelect(collection string, q *Query) (string, []any, error) {
	args := &sqlArgs{}
	where, err := appendWhere(args, collection, q)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT body FROM documents ")
	b.WriteString(where)
	if q != nil && q.Sort != nil {
		dir := "ASC"
		if q.Sort.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY (body ->> %s::text) %s, id", args.bind(q.Sort.Field), dir)
	} else {
		b.WriteString(" ORDER BY id")
	}
	if q != nil && q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %s", args.bind(q.Limit))
	}
	if q != nil && q.Skip > 0 {
		fmt.Fprintf(&b, " OFFSET %s", args.bind(q.Skip))
	}
	return b.String(), args.values, nil
}

func buildUpdate(collection string, q *Query, u *Update) (string, []any, error) {
	if err := u.validate(); err != nil {
		return "", nil, err
	}

	args := &sqlArgs{}
	expr := "body"
	for _, a := range u.Sets {
		v, err := jsonParam(a.Value)
		if err != nil {
			return "", nil, err
		}
		expr = fmt.Sprintf("jsonb_set(%s, %s::text[], %s::jsonb, true)",
			expr, args.bind(pq.Array([]string{a.Field})), args.bind(v))
	}
	for _, a := range u.Pushes {
		v, err := jsonParam(a.Value)
		if err != nil {
			return "", nil, err
		}
		field := args.bind(a.Field)
		expr = fmt.Sprintf("jsonb_set(%s, ARRAY[%s::text], COALESCE(body -> %s::text, '[]'::jsonb) || jsonb_build_array(%s::jsonb), true)",
			expr, field, field, args.bind(v))
	}

	where, err := appendWhere(args, collection, q)
	if err != nil {
		return "", nil, err
	}

	query := fmt.Sprintf(`UPDATE documents SET body = %s, updated_at = NOW()
        WHERE id = (SELECT id FROM documents %s ORDER BY id LIMIT 1 FOR UPDATE)`, expr, where)
	return query, args.values, nil
}

// decodeDocuments joins raw JSON rows into one array and decodes it into out.
func decodeDocuments(rows []types.JSONText, out any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(r)
	}
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), out)
}
