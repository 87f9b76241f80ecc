package mongostore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mockprep/platform/internal/store"
)

func TestTranslateQuery_EqAndNotEq(t *testing.T) {
	q := store.Query{}.
		Where(store.FieldFinalized, store.OpEq, false).
		Where(store.FieldUserID, store.OpNotEq, "c1").
		NewestFirst().
		WithLimit(20)

	filter, opts, err := translateQuery(q)
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "finalized", Value: false},
		{Key: "userId", Value: bson.D{{Key: "$ne", Value: "c1"}}},
	}, filter)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, opts.Sort)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Limit)
}

func TestTranslateQuery_EmptyMatchesAll(t *testing.T) {
	filter, opts, err := translateQuery(store.Query{})
	require.NoError(t, err)
	assert.Empty(t, filter)
	assert.Nil(t, opts.Sort)
	assert.Nil(t, opts.Limit)
}

func TestTranslateQuery_Rejects(t *testing.T) {
	_, _, err := translateQuery(store.Query{}.Where("password", store.OpEq, "x"))
	assert.Error(t, err)

	_, _, err = translateQuery(store.Query{Filters: []store.Filter{{Field: store.FieldUserID, Op: ">", Value: 1}}})
	assert.Error(t, err)

	_, _, err = translateQuery(store.Query{OrderBy: "score"})
	assert.Error(t, err)
}

func TestTranslateErrors(t *testing.T) {
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), store.ErrNotFound)
	assert.NoError(t, translate(nil))

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestTransactionsUnsupported_QueryErrors(t *testing.T) {
	assert.True(t, transactionsUnsupported(mongo.CommandError{Code: illegalOperation, Message: "Transaction numbers are only allowed on a replica set member or mongos"}))
	assert.False(t, transactionsUnsupported(mongo.CommandError{Code: 11000}))
	assert.False(t, transactionsUnsupported(errors.New("x")))
}
