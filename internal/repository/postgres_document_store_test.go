package repository

import (
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhere(t *testing.T) {
	where, args, err := buildWhere("products", NewQuery(Where("deleted", false), Matches("name", "wid")))
	require.NoError(t, err)
	assert.Equal(t,
		"WHERE collection = $1 AND (body -> $2::text) = $3::jsonb AND (body ->> $4::text) ~* $5",
		where)
	assert.Equal(t, []any{"products", "deleted", "false", "name", "wid"}, args.values)
}

func TestBuildWhere_NilQuery(t *testing.T) {
	where, args, err := buildWhere("suppliers", nil)
	require.NoError(t, err)
	assert.Equal(t, "WHERE collection = $1", where)
	assert.Equal(t, []any{"suppliers"}, args.values)
}

func TestBuildWhere_RejectsUnsafeField(t *testing.T) {
	_, _, err := buildWhere("products", NewQuery(Where("name) OR (1=1", "x")))
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestBuildSelect(t *testing.T) {
	q := NewQuery(Where("deleted", true)).OrderBy("name", true).Page(20, 10)
	query, args, err := buildSelect("products", q)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT body FROM documents WHERE collection = $1 AND (body -> $2::text) = $3::jsonb"+
			" ORDER BY (body ->> $4::text) DESC, id LIMIT $5 OFFSET $6",
		query)
	assert.Equal(t, []any{"products", "deleted", "true", "name", 10, 20}, args)
}

func TestBuildSelect_DefaultOrder(t *testing.T) {
	query, args, err := buildSelect("suppliers", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT body FROM documents WHERE collection = $1 ORDER BY id", query)
	assert.Len(t, args, 1)
}

func TestBuildUpdate(t *testing.T) {
	u := NewUpdate().Set("name", "Widget").Push("history", map[string]string{"message": "m"})
	query, args, err := buildUpdate("products", NewQuery(Where("code", "P1")), u)
	require.NoError(t, err)

	assert.Contains(t, query, "jsonb_set(jsonb_set(body, $1::text[], $2::jsonb, true), ARRAY[$3::text], COALESCE(body -> $3::text, '[]'::jsonb) || jsonb_build_array($4::jsonb), true)")
	assert.Contains(t, query, "WHERE id = (SELECT id FROM documents WHERE collection = $5 AND (body -> $6::text) = $7::jsonb ORDER BY id LIMIT 1 FOR UPDATE)")
	require.Len(t, args, 7)
	assert.Equal(t, pq.Array([]string{"name"}), args[0])
	assert.Equal(t, `"Widget"`, args[1])
	assert.Equal(t, "history", args[2])
	assert.Equal(t, `{"message":"m"}`, args[3])
	assert.Equal(t, `"P1"`, args[6])
}

func TestBuildUpdate_Empty(t *testing.T) {
	_, _, err := buildUpdate("products", NewQuery(), NewUpdate())
	assert.Error(t, err)
}

func TestDecodeDocuments(t *testing.T) {
	var out []testDoc
	rows := []types.JSONText{
		types.JSONText(`{"code":"1","name":"a"}`),
		types.JSONText(`{"code":"2","name":"b"}`),
	}
	require.NoError(t, decodeDocuments(rows, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[1].Name)

	var empty []testDoc
	require.NoError(t, decodeDocuments(nil, &empty))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
