package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/api/middleware"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
)

// pathID parses a UUID route parameter. Malformed ids cannot match a record,
// so they surface as not found with the supplied message.
func pathID(r *http.Request, param, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return id, nil
}

func currentUser(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}
