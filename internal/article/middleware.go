package article

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/pagination"
	"github.com/SergeyParamoshkin/articles/internal/reqlog"
	"github.com/SergeyParamoshkin/articles/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ctxKey int8

const (
	ctxKeyArticle ctxKey = iota
	ctxKeyPage
)

// ArticleCtx middleware is used to load an Article object from
// the URL parameters passed through as the request. In case
// the Article could not be found, we stop here and return a 404.
func (a *API) ArticleCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "articleID"), 10, 64)
		if err != nil {
			a.render(w, r, errresponse.ErrNotFound)

			return
		}

		article, err := a.service.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			a.render(w, r, errresponse.ErrNotFound)

			return
		} else if err != nil {
			reqlog.FromContext(r.Context()).Errorw("failed to load article", "id", id, "error", err)
			a.render(w, r, errresponse.ErrInternal(err))

			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyArticle, article)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func articleFromContext(ctx context.Context) *model.Article {
	article, _ := ctx.Value(ctxKeyArticle).(*model.Article)

	return article
}

// paginate reads the requested page number from the query string and
// passes it down the chain.
func paginate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := pagination.ParsePage(r.URL.Query().Get("page"))
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyPage, page)))
	})
}

func pageFromContext(ctx context.Context) int {
	if page, ok := ctx.Value(ctxKeyPage).(int); ok {
		return page
	}

	return 1
}

func (a *API) render(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		reqlog.FromContext(r.Context()).Errorw("failed to render response", "error", err)
	}
}
