package items

import (
	"time"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"github.com/rewear/rewear-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SellerDTO exposes the public seller fields joined onto items.
type SellerDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Location string    `json:"location"`
	Bio      string    `json:"bio,omitempty"`
}

// WishlisterDTO identifies a user who saved an item.
type WishlisterDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ItemDTO is the API representation of an item.
type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Condition     string          `json:"condition"`
	Size          string          `json:"size"`
	Price         decimal.Decimal `json:"price"`
	Points        int             `json:"points"`
	Images        []string        `json:"images"`
	SellerID      uuid.UUID       `json:"sellerId"`
	Seller        *SellerDTO      `json:"seller,omitempty"`
	Location      string          `json:"location"`
	IsAvailable   bool            `json:"isAvailable"`
	IsFeatured    bool            `json:"isFeatured"`
	Tags          []string        `json:"tags"`
	Views         int             `json:"views"`
	ExchangeType  string          `json:"exchangeType"`
	WishlistCount int64           `json:"wishlistCount"`
	WishlistedBy  []WishlisterDTO `json:"wishlistedBy,omitempty"`
	IsWishlisted  *bool           `json:"isWishlisted,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ListResult is one page of items.
type ListResult struct {
	Items      []ItemDTO       `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// StatsDTO summarizes a seller's listings.
type StatsDTO struct {
	TotalItems     int64 `json:"totalItems"`
	ActiveItems    int64 `json:"activeItems"`
	TotalViews     int64 `json:"totalViews"`
	TotalWishlists int64 `json:"totalWishlists"`
}

// ToDTO maps the model, including the seller when it was loaded.
func ToDTO(item models.Item) ItemDTO {
	dto := ItemDTO{
		ID:            item.ID,
		Title:         item.Title,
		Description:   item.Description,
		Category:      item.Category.String(),
		Condition:     item.Condition.String(),
		Size:          item.Size,
		Price:         item.Price,
		Points:        item.Points,
		Images:        nonNil(item.Images),
		SellerID:      item.SellerID,
		Location:      item.Location,
		IsAvailable:   item.IsAvailable,
		IsFeatured:    item.IsFeatured,
		Tags:          nonNil(item.Tags),
		Views:         item.Views,
		ExchangeType:  item.ExchangeType.String(),
		WishlistCount: item.WishlistCount,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
	if item.Seller != nil {
		dto.Seller = &SellerDTO{
			ID:       item.Seller.ID,
			Name:     item.Seller.Name,
			Avatar:   item.Seller.Avatar,
			Location: item.Seller.Location,
			Bio:      item.Seller.Bio,
		}
	}
	return dto
}

// ToDTOs maps a slice of models, never returning nil.
func ToDTOs(rows []models.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDTO(row))
	}
	return out
}

func toStatsDTO(stats SellerStats) StatsDTO {
	return StatsDTO{
		TotalItems:     stats.TotalItems,
		ActiveItems:    stats.ActiveItems,
		TotalViews:     stats.TotalViews,
		TotalWishlists: stats.TotalWishlists,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
