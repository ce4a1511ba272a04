package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistItem records that a user saved an item.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:wishlist_items_user_id_idx;uniqueIndex:wishlist_items_user_item_key"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:wishlist_items_item_id_idx;uniqueIndex:wishlist_items_user_item_key"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Item      *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (w *WishlistItem) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// All lists the models managed by AutoMigrate on the sqlite driver.
func All() []any {
	return []any{&User{}, &Item{}, &WishlistItem{}}
}
