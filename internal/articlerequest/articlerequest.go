package articlerequest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/articles/internal/validation"

	"github.com/ajg/form"
	"github.com/go-chi/render"
)

// TitleMaxLength is the width of the title column. It must match the max
// rule on ArticleRequest.Title.
const TitleMaxLength = 255

// ArticleRequest is the request payload for creating and updating an
// Article. The id and timestamps are never taken from the client.
type ArticleRequest struct {
	Title string `json:"title" form:"title" validate:"required,max=255"`
	Body  string `json:"body" form:"body"`
}

// Bind runs after decoding. Input is trimmed, then every field is
// validated so the client gets all violations at once.
func (a *ArticleRequest) Bind(r *http.Request) error {
	a.Title = strings.TrimSpace(a.Title)
	a.Body = strings.TrimSpace(a.Body)

	return validation.Struct(a)
}

// Decode binds the request body into a. JSON and url-encoded forms are
// accepted; an empty body is treated as an empty object and still
// validated. A JSON value of the wrong type is reported as a field
// violation.
func Decode(r *http.Request, a *ArticleRequest) error {
	if render.GetContentType(r.Header.Get("Content-Type")) == render.ContentTypeForm {
		return decodeForm(r, a)
	}

	err := render.Bind(r, a)
	if errors.Is(err, io.EOF) {
		return a.Bind(r)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs := validation.New()
		errs.Add(typeErr.Field, validation.TypeMessage(typeErr.Field, "string"))

		return errs
	}

	return err
}

func decodeForm(r *http.Request, a *ArticleRequest) error {
	dec := form.NewDecoder(r.Body)
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(a); err != nil {
		return err
	}

	return a.Bind(r)
}
