package article

import (
	"errors"
	"net/http"

	"github.com/SergeyParamoshkin/articles/internal/articlerequest"
	"github.com/SergeyParamoshkin/articles/internal/articleresponse"
	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/reqlog"
	"github.com/SergeyParamoshkin/articles/internal/store"
	"github.com/SergeyParamoshkin/articles/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// API exposes a Service over HTTP.
type API struct {
	service *Service
}

func NewAPI(service *Service) *API {
	return &API{service: service}
}

// Routes mounts the RESTy routes for the "articles" resource on r.
func (a *API) Routes(r chi.Router) {
	r.Route("/articles", func(r chi.Router) {
		r.With(paginate).Get("/", a.ListArticles) // GET /articles?page=2
		r.Post("/", a.CreateArticle)              // POST /articles

		r.Route("/{articleID:[0-9]+}", func(r chi.Router) {
			r.Use(a.ArticleCtx)            // Load the *Article on the request context
			r.Get("/", a.GetArticle)       // GET /articles/123
			r.Put("/", a.UpdateArticle)    // PUT /articles/123
			r.Delete("/", a.DeleteArticle) // DELETE /articles/123
		})
	})
}

// ListArticles returns one page of articles, newest first.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, err := a.service.List(r.Context(), pageFromContext(r.Context()))
	if err != nil {
		reqlog.FromContext(r.Context()).Errorw("failed to list articles", "error", err)
		a.render(w, r, errresponse.ErrInternal(err))

		return
	}

	resp := articleresponse.NewArticleListResponse(page.Articles, page.Window, resourceURL(r))
	if err := render.Render(w, r, resp); err != nil {
		a.render(w, r, errresponse.ErrRender(err))
	}
}

// GetArticle returns the specific Article. The Article is already on the
// context, put there by ArticleCtx.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFromContext(r.Context())

	if err := render.Render(w, r, articleresponse.NewShowResponse(article)); err != nil {
		a.render(w, r, errresponse.ErrRender(err))
	}
}

// CreateArticle validates and persists the posted Article.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data := &articlerequest.ArticleRequest{}
	if ok := a.bind(w, r, data); !ok {
		return
	}

	article, err := a.service.Create(r.Context(), Input{Title: data.Title, Body: data.Body})
	if err != nil {
		reqlog.FromContext(r.Context()).Errorw("failed to create article", "error", err)
		a.render(w, r, errresponse.ErrInternal(err))

		return
	}
	reqlog.FromContext(r.Context()).Infow("article created", "id", article.ID)

	render.Status(r, http.StatusCreated)
	a.render(w, r, articleresponse.Created())
}

// UpdateArticle overwrites title and body of an existing Article. Nothing
// is written when validation fails.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFromContext(r.Context())

	data := &articlerequest.ArticleRequest{}
	if ok := a.bind(w, r, data); !ok {
		return
	}

	_, err := a.service.Update(r.Context(), article.ID, Input{Title: data.Title, Body: data.Body})
	if errors.Is(err, store.ErrNotFound) {
		a.render(w, r, errresponse.ErrNotFound)

		return
	} else if err != nil {
		reqlog.FromContext(r.Context()).Errorw("failed to update article", "id", article.ID, "error", err)
		a.render(w, r, errresponse.ErrInternal(err))

		return
	}

	a.render(w, r, articleresponse.Updated())
}

// DeleteArticle removes an existing Article from the store.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	article := articleFromContext(r.Context())

	err := a.service.Delete(r.Context(), article.ID)
	if errors.Is(err, store.ErrNotFound) {
		a.render(w, r, errresponse.ErrNotFound)

		return
	} else if err != nil {
		reqlog.FromContext(r.Context()).Errorw("failed to delete article", "id", article.ID, "error", err)
		a.render(w, r, errresponse.ErrInternal(err))

		return
	}
	reqlog.FromContext(r.Context()).Infow("article deleted", "id", article.ID)

	a.render(w, r, articleresponse.Deleted())
}

// bind decodes and validates the request payload, rendering the failure
// itself when it returns false.
func (a *API) bind(w http.ResponseWriter, r *http.Request, data *articlerequest.ArticleRequest) bool {
	err := articlerequest.Decode(r, data)
	if err == nil {
		return true
	}

	var errs *validation.Errors
	if errors.As(err, &errs) {
		a.render(w, r, errresponse.ErrValidation(errs))
	} else {
		a.render(w, r, errresponse.ErrInvalidRequest(err))
	}

	return false
}

// resourceURL is the absolute URL of the requested collection, without the
// query string.
func resourceURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host + r.URL.Path
}
