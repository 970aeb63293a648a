package article

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/pagination"
	"github.com/SergeyParamoshkin/articles/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records List calls and serves a fixed id-descending slice.
type fakeStore struct {
	store.Store

	articles  []model.Article
	listCalls int
	countErr  error
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.articles), f.countErr
}

func (f *fakeStore) List(ctx context.Context, offset, limit int) ([]model.Article, error) {
	f.listCalls++
	if offset >= len(f.articles) {
		return []model.Article{}, nil
	}
	end := offset + limit
	if end > len(f.articles) {
		end = len(f.articles)
	}

	return f.articles[offset:end], nil
}

func (f *fakeStore) Create(ctx context.Context, a *model.Article) error {
	a.ID = int64(len(f.articles) + 1)
	f.articles = append([]model.Article{*a}, f.articles...)

	return nil
}

func newFakeStore(n int) *fakeStore {
	f := &fakeStore{}
	for i := n; i >= 1; i-- {
		f.articles = append(f.articles, model.Article{ID: int64(i)})
	}

	return f
}

func TestService_ListWindow(t *testing.T) {
	st := newFakeStore(5)
	s := NewService(st, pagination.New(2))

	page, err := s.List(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, page.Articles, 2)
	assert.Equal(t, int64(3), page.Articles[0].ID)
	assert.Equal(t, int64(2), page.Articles[1].ID)
	assert.Equal(t, 3, page.Window.LastPage)
	assert.Equal(t, 5, page.Window.Total)
}

func TestService_ListPastEndSkipsStore(t *testing.T) {
	st := newFakeStore(3)
	s := NewService(st, pagination.New(2))

	page, err := s.List(context.Background(), 5)
	require.NoError(t, err)

	assert.Empty(t, page.Articles)
	assert.NotNil(t, page.Articles)
	assert.Equal(t, 0, st.listCalls)
	assert.Equal(t, 3, page.Window.Total)
}

func TestService_ListCountError(t *testing.T) {
	st := newFakeStore(1)
	st.countErr = errors.New("boom")
	s := NewService(st, pagination.New(2))

	_, err := s.List(context.Background(), 1)
	assert.EqualError(t, err, "boom")
}

func TestService_CreateStampsTimes(t *testing.T) {
	st := newFakeStore(0)
	s := NewService(st, pagination.New(2))
	fixed := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	a, err := s.Create(context.Background(), Input{Title: "t", Body: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, "t", a.Title)
	assert.True(t, a.CreatedAt.Equal(fixed))
	assert.True(t, a.UpdatedAt.Equal(fixed))
}
