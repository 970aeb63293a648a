package article

import (
	"context"
	"time"

	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/pagination"
	"github.com/SergeyParamoshkin/articles/internal/store"
)

// Input carries the client writable fields of an article. It is validated
// before it reaches the Service.
type Input struct {
	Title string
	Body  string
}

// Page is one page of the id-descending article listing.
type Page struct {
	Articles []model.Article
	Window   pagination.Window
}

// Service implements the article operations on top of a Store. It keeps no
// state between calls.
type Service struct {
	store     store.Store
	paginator pagination.Paginator
	now       func() time.Time
}

func NewService(st store.Store, paginator pagination.Paginator) *Service {
	return &Service{
		store:     st,
		paginator: paginator,
		now:       time.Now,
	}
}

// List returns the requested page. A page past the end is empty but still
// carries the totals.
func (s *Service) List(ctx context.Context, page int) (Page, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return Page{}, err
	}

	window := s.paginator.Window(page, total)
	if window.OutOfRange() {
		return Page{Articles: []model.Article{}, Window: window}, nil
	}

	articles, err := s.store.List(ctx, window.Offset, window.Limit)
	if err != nil {
		return Page{}, err
	}

	return Page{Articles: articles, Window: window}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Article, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*model.Article, error) {
	a := model.NewArticle(in.Title, in.Body, s.now().UTC())
	if err := s.store.Create(ctx, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*model.Article, error) {
	a := model.Article{ID: id, Title: in.Title, Body: in.Body}
	if err := s.store.Update(ctx, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
