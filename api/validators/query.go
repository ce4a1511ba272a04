package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
)

// RequiredQuery returns the trimmed query value or a validation error naming the parameter.
func RequiredQuery(r *http.Request, key, message string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", pkgerrors.Validation(message, map[string]string{key: "is required"})
	}
	return raw, nil
}
