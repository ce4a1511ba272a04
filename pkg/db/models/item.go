package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a clothing listing owned by a seller.
type Item struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SellerID     uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index:items_seller_id_idx"`
	Seller       *User               `gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT"`
	Title        string              `gorm:"column:title;not null"`
	Description  string              `gorm:"column:description;not null"`
	Category     enums.ItemCategory  `gorm:"column:category;not null;index:items_category_idx"`
	Condition    enums.ItemCondition `gorm:"column:condition;not null"`
	Size         string              `gorm:"column:size;not null"`
	Price        decimal.Decimal     `gorm:"column:price;type:numeric(10,2);not null"`
	Points       int                 `gorm:"column:points;not null"`
	Images       []string            `gorm:"column:images;type:text;serializer:json;not null"`
	Location     string              `gorm:"column:location;not null"`
	IsAvailable  bool                `gorm:"column:is_available;not null;index:items_is_available_idx"`
	IsFeatured   bool                `gorm:"column:is_featured;not null"`
	Tags         []string            `gorm:"column:tags;type:text;serializer:json;not null"`
	Views        int                 `gorm:"column:views;not null"`
	ExchangeType enums.ExchangeType  `gorm:"column:exchange_type;not null"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	// WishlistCount is filled by list queries from a correlated subquery.
	WishlistCount int64 `gorm:"column:wishlist_count;->;-:migration"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Images == nil {
		i.Images = []string{}
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
	if i.ExchangeType == "" {
		i.ExchangeType = enums.ExchangeTypeSale
	}
	return nil
}
