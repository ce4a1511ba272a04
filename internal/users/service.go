package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/internal/items"
	"github.com/rewear/rewear-backend/pkg/db"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/pagination"
)

// SearchDefaultLimit is the page size of user search when none is given.
const SearchDefaultLimit = 10

// Service exposes profile, search, and per-user listing reads.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	PublicProfile(ctx context.Context, id uuid.UUID) (*PublicProfileDTO, error)
	ListItems(ctx context.Context, id uuid.UUID, page pagination.Params) (*items.ListResult, error)
	Wishlist(ctx context.Context, callerID, ownerID uuid.UUID, page pagination.Params) (*items.ListResult, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar string) (*UserDTO, error)
	Search(ctx context.Context, query string, page pagination.Params) (*SearchResult, error)
	Stats(ctx context.Context, userID uuid.UUID) (*items.StatsDTO, error)
}

type service struct {
	repo  *Repository
	items items.Service
}

// NewService constructs a users service.
func NewService(repo *Repository, itemSvc items.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if itemSvc == nil {
		return nil, fmt.Errorf("item service required")
	}
	return &service{repo: repo, items: itemSvc}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, userError(err, "load profile")
	}
	listed, err := s.items.AllBySeller(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	wished, err := s.items.AllWishlisted(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileDTO{UserDTO: *FromModel(user), ItemsListed: listed, ItemsWishlisted: wished}, nil
}

func (s *service) PublicProfile(ctx context.Context, id uuid.UUID) (*PublicProfileDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, userError(err, "load user")
	}
	listed, err := s.items.AllBySeller(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return &PublicProfileDTO{PublicUserDTO: PublicFromModel(*user), ItemsListed: listed}, nil
}

// ListItems pages the user's available listings. Unknown users yield an empty page.
func (s *service) ListItems(ctx context.Context, id uuid.UUID, page pagination.Params) (*items.ListResult, error) {
	return s.items.ListBySeller(ctx, id, page)
}

// Wishlist is readable by its owner only.
func (s *service) Wishlist(ctx context.Context, callerID, ownerID uuid.UUID, page pagination.Params) (*items.ListResult, error) {
	if callerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to view this wishlist")
	}
	return s.items.ListWishlist(ctx, ownerID, page)
}

func (s *service) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatar string) (*UserDTO, error) {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return nil, pkgerrors.Validation("Avatar URL is required", map[string]string{"avatar": "is required"})
	}
	user, err := s.repo.UpdateAvatar(ctx, userID, avatar)
	if err != nil {
		return nil, userError(err, "update avatar")
	}
	return FromModel(user), nil
}

func (s *service) Search(ctx context.Context, query string, page pagination.Params) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.Validation("Search query is required", map[string]string{"q": "is required"})
	}
	if page.Limit <= 0 {
		page.Limit = SearchDefaultLimit
	}
	rows, total, err := s.repo.Search(ctx, query, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search users")
	}
	out := make([]PublicUserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, PublicFromModel(row))
	}
	return &SearchResult{Users: out, Pagination: pagination.NewMeta(page, total)}, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*items.StatsDTO, error) {
	return s.items.SellerStats(ctx, userID)
}

func userError(err error, msg string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
