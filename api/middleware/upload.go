package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rewear/rewear-backend/api/responses"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/logger"
	"github.com/rewear/rewear-backend/pkg/metrics"
)

const multipartMemory = 8 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ImageStore persists uploaded image bytes under generated keys.
type ImageStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// UploadPolicy bounds one multipart image field.
type UploadPolicy struct {
	Field      string
	Prefix     string
	PublicPath string
	MaxBytes   int64
	MaxFiles   int
}

func (p UploadPolicy) url(key string) string {
	return strings.TrimSuffix(p.PublicPath, "/") + "/" + key
}

// UploadImages stores the images of a multipart request before the handler runs
// and exposes their URLs through UploadedImagesFromContext. Stored files are
// removed again when the handler answers with an error status or panics.
func UploadImages(policy UploadPolicy, store ImageStore, m *metrics.MarketplaceMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			limit := policy.MaxBytes*int64(policy.MaxFiles) + multipartMemory
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			if err := r.ParseMultipartForm(multipartMemory); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					responses.WriteError(ctx, logg, w, pkgerrors.Validation("upload too large", map[string]string{policy.Field: "exceeds the upload size limit"}))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
				return
			}
			defer func() { _ = r.MultipartForm.RemoveAll() }()

			files := r.MultipartForm.File[policy.Field]
			if policy.MaxFiles > 0 && len(files) > policy.MaxFiles {
				responses.WriteError(ctx, logg, w, pkgerrors.Validation("too many files",
					map[string]string{policy.Field: fmt.Sprintf("at most %d files allowed", policy.MaxFiles)}))
				return
			}

			keys := make([]string, 0, len(files))
			for _, fh := range files {
				key, err := saveImage(ctx, policy, store, fh)
				if err != nil {
					if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
						m.IncImages("rejected", 1)
					}
					discard(ctx, store, keys, logg)
					responses.WriteError(ctx, logg, w, err)
					return
				}
				keys = append(keys, key)
			}

			urls := make([]string, 0, len(keys))
			for _, key := range keys {
				urls = append(urls, policy.url(key))
			}

			defer func() {
				if p := recover(); p != nil {
					discard(ctx, store, keys, logg)
					m.IncImages("discarded", len(keys))
					panic(p)
				}
			}()

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(WithUploadedImages(ctx, urls)))

			if rec.Status() >= http.StatusBadRequest {
				discard(ctx, store, keys, logg)
				m.IncImages("discarded", len(keys))
				return
			}
			m.IncImages("stored", len(keys))
		})
	}
}

func saveImage(ctx context.Context, policy UploadPolicy, store ImageStore, fh *multipart.FileHeader) (string, error) {
	if policy.MaxBytes > 0 && fh.Size > policy.MaxBytes {
		return "", pkgerrors.Validation("file too large", map[string]string{fh.Filename: fmt.Sprintf("exceeds %d bytes", policy.MaxBytes)})
	}
	f, err := fh.Open()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload")
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload")
	}
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "", pkgerrors.Validation("Only image files are allowed", map[string]string{fh.Filename: "unsupported type " + mt.String()})
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind upload")
	}

	key, err := store.Save(ctx, policy.Prefix, mt.String(), f)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
	}
	return key, nil
}

func discard(ctx context.Context, store ImageStore, keys []string, logg *logger.Logger) {
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil && logg != nil {
			logg.Error(logg.WithImageKey(ctx, key), "upload.discard_failed", err)
		}
	}
}
