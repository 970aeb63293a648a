package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/articles/internal/model"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	require.NoError(t, err)

	s, err := NewBadgerStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func seed(t *testing.T, s Store, n int) []model.Article {
	t.Helper()

	var out []model.Article
	for i := 1; i <= n; i++ {
		a := model.Article{Title: fmt.Sprintf("Article %d", i), Body: fmt.Sprintf("Body %d", i)}
		require.NoError(t, s.Create(context.Background(), &a))
		out = append(out, a)
	}

	return out
}

func TestBadgerStore_CreateAssignsIncreasingIDs(t *testing.T) {
	s := newTestBadgerStore(t)

	created := seed(t, s, 3)

	assert.Equal(t, int64(1), created[0].ID)
	assert.Equal(t, int64(2), created[1].ID)
	assert.Equal(t, int64(3), created[2].ID)
	assert.False(t, created[0].CreatedAt.IsZero())
	assert.Equal(t, created[0].CreatedAt, created[0].UpdatedAt)
}

func TestBadgerStore_ListDescendingWithOffset(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := context.Background()
	seed(t, s, 5)

	page, err := s.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(5), page[0].ID)
	assert.Equal(t, int64(4), page[1].ID)

	page, err = s.List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].ID)

	page, err = s.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestBadgerStore_GetMissing(t *testing.T) {
	s := newTestBadgerStore(t)

	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_UpdateKeepsCreatedAt(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := context.Background()
	original := seed(t, s, 1)[0]

	later := original.CreatedAt.Add(time.Hour)
	s.now = func() time.Time { return later }

	upd := model.Article{ID: original.ID, Title: "Updated Title", Body: "Updated Content"}
	require.NoError(t, s.Update(ctx, &upd))

	got, err := s.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)
	assert.Equal(t, "Updated Content", got.Body)
	assert.True(t, got.CreatedAt.Equal(original.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(later.UTC()))
	assert.True(t, upd.CreatedAt.Equal(original.CreatedAt), "Update should fill in the stored CreatedAt")
}

func TestBadgerStore_UpdateMissing(t *testing.T) {
	s := newTestBadgerStore(t)

	err := s.Update(context.Background(), &model.Article{ID: 7, Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_DeleteRemovesOnlyTarget(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := context.Background()
	created := seed(t, s, 2)

	require.NoError(t, s.Delete(ctx, created[0].ID))

	_, err := s.Get(ctx, created[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	other, err := s.Get(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, created[1].Title, other.Title)

	assert.ErrorIs(t, s.Delete(ctx, created[0].ID), ErrNotFound)
}

func TestBadgerStore_IDsNotReusedAfterDelete(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := context.Background()
	created := seed(t, s, 2)

	require.NoError(t, s.Delete(ctx, created[1].ID))

	next := model.Article{Title: "again"}
	require.NoError(t, s.Create(ctx, &next))
	assert.Equal(t, int64(3), next.ID)
}
