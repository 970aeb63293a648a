package articleresponse

import (
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/pagination"
)

// ArticleResponse is the response payload for the Article data model.
type ArticleResponse struct {
	*model.Article
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ShowResponse wraps a single article: {"data": {...}}.
type ShowResponse struct {
	Data *ArticleResponse `json:"data"`
}

func NewShowResponse(article *model.Article) *ShowResponse {
	return &ShowResponse{Data: NewArticleResponse(article)}
}

func (rd *ShowResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Meta describes the page. From and To are null on an empty page.
type Meta struct {
	Total       int    `json:"total"`
	From        *int   `json:"from"`
	To          *int   `json:"to"`
	PerPage     int    `json:"per_page"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
}

// ListResponse is the paginated envelope: {"data": [...], "links": {...}, "meta": {...}}.
type ListResponse struct {
	Data  []*ArticleResponse `json:"data"`
	Links Links              `json:"links"`
	Meta  Meta               `json:"meta"`
}

// NewArticleListResponse builds the envelope for articles found in window.
// path is the absolute resource URL without a query string.
func NewArticleListResponse(articles []model.Article, window pagination.Window, path string) *ListResponse {
	path = strings.TrimSuffix(path, "/")

	list := make([]*ArticleResponse, 0, len(articles))
	for i := range articles {
		list = append(list, NewArticleResponse(&articles[i]))
	}

	meta := Meta{
		Total:       window.Total,
		PerPage:     window.PerPage,
		CurrentPage: window.CurrentPage,
		LastPage:    window.LastPage,
		Path:        path,
	}
	if from, to, ok := window.Bounds(len(list)); ok {
		meta.From = &from
		meta.To = &to
	}

	links := Links{
		First: pagination.PageURL(path, 1),
		Last:  pagination.PageURL(path, window.LastPage),
	}
	if window.HasPrev() {
		prev := pagination.PageURL(path, window.CurrentPage-1)
		links.Prev = &prev
	}
	if window.HasNext() {
		next := pagination.PageURL(path, window.CurrentPage+1)
		links.Next = &next
	}

	return &ListResponse{Data: list, Links: links, Meta: meta}
}

func (rd *ListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// AckResponse acknowledges a write, e.g. {"created": true}.
type AckResponse struct {
	Created bool `json:"created,omitempty"`
	Updated bool `json:"updated,omitempty"`
	Deleted bool `json:"deleted,omitempty"`
}

func (rd *AckResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func Created() *AckResponse { return &AckResponse{Created: true} }
func Updated() *AckResponse { return &AckResponse{Updated: true} }
func Deleted() *AckResponse { return &AckResponse{Deleted: true} }
