package wishlist

import (
	"context"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Toggle removes the (user, item) entry when present and inserts it otherwise.
// It reports whether the item is wishlisted afterwards. Run inside a transaction.
func (r *Repository) Toggle(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return false, gorm.ErrInvalidValue
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	entry := &models.WishlistItem{UserID: userID, ItemID: itemID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}}, DoNothing: true}).
		Create(entry).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Exists reports whether the user has wishlisted the item.
func (r *Repository) Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

// UsersForItem returns id and name of every user who wishlisted the item, oldest first.
func (r *Repository) UsersForItem(ctx context.Context, itemID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id", "users.name").
		Joins("JOIN wishlist_items wi ON wi.user_id = users.id").
		Where("wi.item_id = ?", itemID).
		Order("wi.created_at ASC").
		Find(&users).Error
	return users, err
}

// DeleteByItem clears every wishlist entry that points at the item.
func (r *Repository) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&models.WishlistItem{}).Error
}
