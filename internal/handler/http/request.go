package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// decodeJSON reads an optional JSON body into dst. An empty body is not an
// error: clock and break requests may carry no payload.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func actorFrom(r *http.Request) (user.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return user.Actor{}, user.ErrInvalidToken
	}
	return actor, nil
}

// pathID returns the {id} URL parameter. Malformed ids answer 404 before
// reaching the store.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.NotFound(w, "Resource not found")
		return "", false
	}
	return id, true
}
