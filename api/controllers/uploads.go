package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rewear/rewear-backend/api/responses"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/logger"
	"github.com/rewear/rewear-backend/pkg/storage/local"
)

// FileOpener reads stored uploads back by key.
type FileOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// ServeUpload streams a stored image. Unknown and malformed keys are both 404.
func ServeUpload(store FileOpener, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "upload store unavailable"))
			return
		}

		body, contentType, err := store.Open(ctx, chi.URLParam(r, "key"))
		if err != nil {
			if errors.Is(err, local.ErrNotFound) || errors.Is(err, local.ErrInvalidKey) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "file not found"))
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open upload"))
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil && logg != nil {
			logg.Error(ctx, "upload.stream_failed", err)
		}
	}
}
