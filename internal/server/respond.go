package server

import (
	"net/http"

	"github.com/SergeyParamoshkin/articles/internal/reqlog"

	"github.com/go-chi/render"
)

// Errors handed to render.Respond directly (instead of through an
// errresponse renderer) are logged and masked.
func init() {
	render.Respond = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		if err, ok := v.(error); ok {
			if _, ok := r.Context().Value(render.StatusCtxKey).(int); !ok {
				render.Status(r, http.StatusInternalServerError)
			}

			reqlog.FromContext(r.Context()).Errorw("unhandled error response", "error", err)

			render.DefaultResponder(w, r, render.M{"message": "Server Error"})

			return
		}

		render.DefaultResponder(w, r, v)
	}
}
