package store

import (
	"context"
	"errors"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

var (
	ErrNotFound = errors.New("article not found")
)

// Store persists articles. List returns articles ordered by id descending.
type Store interface {
	List(ctx context.Context, offset, limit int) ([]model.Article, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (*model.Article, error)
	Create(ctx context.Context, article *model.Article) error
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, id int64) error
	Close() error
}
