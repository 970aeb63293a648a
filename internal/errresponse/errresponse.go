package errresponse

import (
	"net/http"

	"github.com/SergeyParamoshkin/articles/internal/validation"

	"github.com/go-chi/render"
)

// ErrResponse renderer type for handling all sorts of errors.
//
// Err is never serialised; clients only see Message and, for validation
// failures, the per-field Errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Message string             `json:"message"`
	Errors  *validation.Errors `json:"errors,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

// ErrValidation reports field violations with 422.
func ErrValidation(errs *validation.Errors) render.Renderer {
	return &ErrResponse{
		Err:            errs,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		Message:        validation.Message,
		Errors:         errs,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "Invalid request body.",
	}
}

func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        "Server Error",
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        "Error rendering response.",
	}
}

var (
	ErrNotFound        = &ErrResponse{HTTPStatusCode: http.StatusNotFound, Message: "Resource not found."}
	ErrTooManyRequests = &ErrResponse{HTTPStatusCode: http.StatusTooManyRequests, Message: "Too Many Attempts."}
)
