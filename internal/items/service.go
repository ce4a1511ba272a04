package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/internal/wishlist"
	"github.com/rewear/rewear-backend/pkg/db"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"github.com/rewear/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/logger"
	"github.com/rewear/rewear-backend/pkg/metrics"
	"github.com/rewear/rewear-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Service exposes item listing, mutation, and wishlist operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Featured(ctx context.Context) ([]ItemDTO, error)
	Get(ctx context.Context, id, viewerID uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, sellerID uuid.UUID, input CreateInput) (*ItemDTO, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, input UpdateInput) (*ItemDTO, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	ToggleWishlist(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, page pagination.Params) (*ListResult, error)
	ListWishlist(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListResult, error)
	AllBySeller(ctx context.Context, sellerID uuid.UUID, includeUnavailable bool) ([]ItemDTO, error)
	AllWishlisted(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	SellerStats(ctx context.Context, sellerID uuid.UUID) (*StatsDTO, error)
}

// CreateInput holds the validated payload to list an item.
type CreateInput struct {
	Title        string
	Description  string
	Category     enums.ItemCategory
	Condition    enums.ItemCondition
	Size         string
	Price        decimal.Decimal
	Points       int
	Location     string
	Tags         []string
	ExchangeType enums.ExchangeType
	Images       []string
}

// UpdateInput holds optional item mutations; nil fields are left unchanged.
type UpdateInput struct {
	Title        *string
	Description  *string
	Category     *enums.ItemCategory
	Condition    *enums.ItemCondition
	Size         *string
	Price        *decimal.Decimal
	Points       *int
	Location     *string
	Tags         *[]string
	ExchangeType *enums.ExchangeType
	IsAvailable  *bool
}

// ImageRemover deletes stored image files by key.
type ImageRemover interface {
	Delete(ctx context.Context, key string) error
}

// ServiceParams wires the item service.
type ServiceParams struct {
	Repo         *Repository
	Wishlist     *wishlist.Repository
	DB           *db.Client
	Images       ImageRemover
	ImagesPrefix string
	Metrics      *metrics.MarketplaceMetrics
	Logger       *logger.Logger
}

type service struct {
	repo         *Repository
	wishlist     *wishlist.Repository
	dbClient     *db.Client
	images       ImageRemover
	imagesPrefix string
	metrics      *metrics.MarketplaceMetrics
	logg         *logger.Logger
}

// NewService constructs an item service instance.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if p.Wishlist == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if p.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:         p.Repo,
		wishlist:     p.Wishlist,
		dbClient:     p.DB,
		images:       p.Images,
		imagesPrefix: strings.TrimSuffix(p.ImagesPrefix, "/") + "/",
		metrics:      p.Metrics,
		logg:         p.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return &ListResult{Items: ToDTOs(rows), Pagination: pagination.NewMeta(params.Page, total)}, nil
}

func (s *service) Featured(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.Featured(ctx, FeaturedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured items")
	}
	return ToDTOs(rows), nil
}

// Get counts a view and returns the item with its seller and wishlisters.
// A non-nil viewer also learns whether the item is on their wishlist.
func (s *service) Get(ctx context.Context, id, viewerID uuid.UUID) (*ItemDTO, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, itemError(err, "increment item views")
	}
	s.metrics.IncItemView()

	item, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, itemError(err, "load item")
	}
	users, err := s.wishlist.UsersForItem(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item wishlisters")
	}

	dto := ToDTO(*item)
	dto.WishlistedBy = make([]WishlisterDTO, 0, len(users))
	for _, u := range users {
		dto.WishlistedBy = append(dto.WishlistedBy, WishlisterDTO{ID: u.ID, Name: u.Name})
	}
	if viewerID != uuid.Nil {
		wished, err := s.wishlist.Exists(ctx, viewerID, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check viewer wishlist")
		}
		dto.IsWishlisted = &wished
	}
	return &dto, nil
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, input CreateInput) (*ItemDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller required")
	}
	if len(input.Images) == 0 {
		return nil, pkgerrors.Validation("At least one image is required", map[string]string{"images": "is required"})
	}
	exchange := input.ExchangeType
	if exchange == "" {
		exchange = enums.ExchangeTypeSale
	}

	item := &models.Item{
		SellerID:     sellerID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Category:     input.Category,
		Condition:    input.Condition,
		Size:         strings.TrimSpace(input.Size),
		Price:        input.Price,
		Points:       input.Points,
		Images:       input.Images,
		Location:     strings.TrimSpace(input.Location),
		IsAvailable:  true,
		Tags:         input.Tags,
		ExchangeType: exchange,
	}
	if _, err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert item")
	}

	created, err := s.repo.FindDetail(ctx, item.ID)
	if err != nil {
		return nil, itemError(err, "reload item")
	}
	dto := ToDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, input UpdateInput) (*ItemDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		item, err := s.ownedItem(ctx, txRepo, userID, itemID, "update")
		if err != nil {
			return err
		}
		applyUpdate(item, input)
		if _, err := txRepo.Update(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
		}
		return nil
	})
	if err != nil {
		return nil, asTyped(err, "update item")
	}

	updated, err := s.repo.FindDetail(ctx, itemID)
	if err != nil {
		return nil, itemError(err, "reload item")
	}
	dto := ToDTO(*updated)
	return &dto, nil
}

// Delete removes the item and its wishlist rows, then best-effort deletes its images.
func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	var images []string
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		item, err := s.ownedItem(ctx, txRepo, userID, itemID, "delete")
		if err != nil {
			return err
		}
		images = item.Images
		if err := s.wishlist.WithTx(tx).DeleteByItem(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item wishlist entries")
		}
		if err := txRepo.Delete(ctx, itemID); err != nil {
			return itemError(err, "delete item")
		}
		return nil
	})
	if err != nil {
		return asTyped(err, "delete item")
	}

	if cleanupErr := s.removeImages(ctx, images); cleanupErr != nil && s.logg != nil {
		logCtx := s.logg.WithItemID(ctx, itemID)
		s.logg.Error(logCtx, "item.image_cleanup_failed", cleanupErr)
	}
	return nil
}

// ToggleWishlist flips the caller's wishlist entry and reports the new state.
func (s *service) ToggleWishlist(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var added bool
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).FindByID(ctx, itemID); err != nil {
			return itemError(err, "load item")
		}
		var err error
		added, err = s.wishlist.WithTx(tx).Toggle(ctx, userID, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle wishlist")
		}
		return nil
	})
	if err != nil {
		return false, asTyped(err, "toggle wishlist")
	}
	s.metrics.IncWishlistToggle(added)
	return added, nil
}

// ListBySeller pages through a seller's available items, newest first.
func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID, page pagination.Params) (*ListResult, error) {
	return s.List(ctx, ListParams{SellerID: sellerID, Sort: NewestFirst, Page: page})
}

// ListWishlist pages through the user's available wishlisted items.
func (s *service) ListWishlist(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListResult, error) {
	return s.List(ctx, ListParams{WishlistedBy: userID, Sort: NewestFirst, Page: page})
}

func (s *service) AllBySeller(ctx context.Context, sellerID uuid.UUID, includeUnavailable bool) ([]ItemDTO, error) {
	rows, _, err := s.repo.List(ctx, ListParams{
		SellerID:           sellerID,
		IncludeUnavailable: includeUnavailable,
		Sort:               NewestFirst,
		Unpaged:            true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller items")
	}
	return ToDTOs(rows), nil
}

func (s *service) AllWishlisted(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	rows, _, err := s.repo.List(ctx, ListParams{
		WishlistedBy:       userID,
		IncludeUnavailable: true,
		Sort:               NewestFirst,
		Unpaged:            true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlisted items")
	}
	return ToDTOs(rows), nil
}

func (s *service) SellerStats(ctx context.Context, sellerID uuid.UUID) (*StatsDTO, error) {
	stats, err := s.repo.SellerStats(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate seller stats")
	}
	dto := toStatsDTO(stats)
	return &dto, nil
}

func (s *service) ownedItem(ctx context.Context, repo *Repository, userID, itemID uuid.UUID, action string) (*models.Item, error) {
	item, err := repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, itemError(err, "load item")
	}
	if item.SellerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not authorized to "+action+" this item")
	}
	return item, nil
}

func (s *service) removeImages(ctx context.Context, urls []string) error {
	if s.images == nil {
		return nil
	}
	var errs error
	for _, url := range urls {
		key, ok := strings.CutPrefix(url, s.imagesPrefix)
		if !ok || key == "" {
			continue
		}
		errs = multierr.Append(errs, s.images.Delete(ctx, key))
	}
	return errs
}

func applyUpdate(item *models.Item, input UpdateInput) {
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Condition != nil {
		item.Condition = *input.Condition
	}
	if input.Size != nil {
		item.Size = strings.TrimSpace(*input.Size)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Points != nil {
		item.Points = *input.Points
	}
	if input.Location != nil {
		item.Location = strings.TrimSpace(*input.Location)
	}
	if input.Tags != nil {
		item.Tags = append([]string{}, (*input.Tags)...)
	}
	if input.ExchangeType != nil {
		item.ExchangeType = *input.ExchangeType
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
}

// itemError maps a missing row to NOT_FOUND and anything else to a dependency failure.
func itemError(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func asTyped(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
