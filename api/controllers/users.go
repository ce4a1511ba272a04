package controllers

import (
	"net/http"
	"strings"

	"github.com/rewear/rewear-backend/api/responses"
	"github.com/rewear/rewear-backend/api/validators"
	"github.com/rewear/rewear-backend/internal/users"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/logger"
	"github.com/rewear/rewear-backend/pkg/pagination"
)

const userNotFound = "user not found"

type avatarRequest struct {
	Avatar string `json:"avatar" validate:"max=2048"`
}

type avatarResponse struct {
	Message string         `json:"message"`
	User    *users.UserDTO `json:"user"`
}

// UserProfile returns the caller's own profile with listed and wishlisted items.
func UserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := svc.Profile(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func UserSearch(svc users.Service, maxLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		query, err := validators.RequiredQuery(r, "q", "Search query is required")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := pagination.FromQuery(r.URL.Query(), pagination.Options{DefaultLimit: users.SearchDefaultLimit, MaxLimit: maxLimit})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Search(ctx, query, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func UserStats(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		stats, err := svc.Stats(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func UserAvatar(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req avatarRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.UpdateAvatar(ctx, userID, strings.TrimSpace(req.Avatar))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, avatarResponse{Message: "Avatar updated successfully", User: user})
	}
}

// UserPublicProfile returns another user's public fields and available listings.
func UserPublicProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := pathID(r, "id", userNotFound)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		profile, err := svc.PublicProfile(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func UserItems(svc users.Service, opts pagination.Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		id, err := pathID(r, "id", userNotFound)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := pagination.FromQuery(r.URL.Query(), opts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ListItems(ctx, id, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UserWishlist pages through a wishlist; only its owner may read it.
func UserWishlist(svc users.Service, opts pagination.Options, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		callerID, err := currentUser(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		ownerID, err := pathID(r, "id", userNotFound)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := pagination.FromQuery(r.URL.Query(), opts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Wishlist(ctx, callerID, ownerID, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
