package items

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/db"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeaturedLimit caps the featured carousel.
const FeaturedLimit = 6

const wishlistCountColumn = `(SELECT COUNT(*) FROM wishlist_items wc WHERE wc.item_id = items.id) AS wishlist_count`

const sellerStatsQuery = `
SELECT COUNT(*) AS total_items,
       COALESCE(SUM(CASE WHEN i.is_available THEN 1 ELSE 0 END), 0) AS active_items,
       COALESCE(SUM(i.views), 0) AS total_views,
       (SELECT COUNT(*)
          FROM wishlist_items wi
          JOIN items wit ON wit.id = wi.item_id
         WHERE wit.seller_id = ?) AS total_wishlists
FROM items i
WHERE i.seller_id = ?
`

// SellerStats aggregates a seller's listings.
type SellerStats struct {
	TotalItems     int64
	ActiveItems    int64
	TotalViews     int64
	TotalWishlists int64
}

// Repository persists items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
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

// Create inserts the item.
func (r *Repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads the item without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindDetail loads the item with its seller's public fields and wishlist count.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("items.*, " + wishlistCountColumn).
		Preload("Seller", sellerDetailFields).
		Where("items.id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// IncrementViews bumps the view counter by one in a single statement.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Update saves every column of the item.
func (r *Repository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page of matching items with their total count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Item, int64, error) {
	var total int64
	if !params.Unpaged {
		if err := r.filtered(ctx, params).Count(&total).Error; err != nil {
			return nil, 0, err
		}
		if total == 0 || int64(params.Page.Offset()) >= total {
			return []models.Item{}, total, nil
		}
	}

	sort := params.Sort
	if sort.Column == "" {
		sort = NewestFirst
	}

	qb := r.filtered(ctx, params).
		Select("items.*, "+wishlistCountColumn).
		Preload("Seller", sellerSummaryFields).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "items", Name: sort.Column}, Desc: sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "items", Name: "id"}, Desc: sort.Desc})
	if !params.Unpaged {
		qb = qb.Limit(params.Page.EffectiveLimit()).Offset(params.Page.Offset())
	}

	items := []models.Item{}
	if err := qb.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	if params.Unpaged {
		total = int64(len(items))
	}
	return items, total, nil
}

// Featured returns the newest available featured items.
func (r *Repository) Featured(ctx context.Context, limit int) ([]models.Item, error) {
	if limit <= 0 {
		limit = FeaturedLimit
	}
	items := []models.Item{}
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("items.*, "+wishlistCountColumn).
		Preload("Seller", sellerSummaryFields).
		Where("items.is_available = ? AND items.is_featured = ?", true, true).
		Order("items.created_at DESC").
		Order("items.id DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// SellerStats aggregates counts for every item the seller listed.
func (r *Repository) SellerStats(ctx context.Context, sellerID uuid.UUID) (SellerStats, error) {
	var stats SellerStats
	err := r.db.WithContext(ctx).Raw(sellerStatsQuery, sellerID, sellerID).Scan(&stats).Error
	return stats, err
}

// filtered builds a fresh query for params; callers chain on their own copy.
func (r *Repository) filtered(ctx context.Context, params ListParams) *gorm.DB {
	qb := r.db.WithContext(ctx).Model(&models.Item{})

	if !params.IncludeUnavailable {
		qb = qb.Where("items.is_available = ?", true)
	}
	if params.Category != "" {
		qb = qb.Where("items.category = ?", params.Category)
	}
	if params.Condition != "" {
		qb = qb.Where("items.condition = ?", params.Condition)
	}
	if params.MinPrice != nil {
		qb = qb.Where("items.price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		qb = qb.Where("items.price <= ?", *params.MaxPrice)
	}
	if params.SellerID != uuid.Nil {
		qb = qb.Where("items.seller_id = ?", params.SellerID)
	}
	if params.WishlistedBy != uuid.Nil {
		qb = qb.Where("EXISTS (SELECT 1 FROM wishlist_items wf WHERE wf.item_id = items.id AND wf.user_id = ?)", params.WishlistedBy)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		qb = r.applySearch(qb, search)
	}
	return qb
}

// applySearch uses the full-text index on postgres and a substring match elsewhere.
func (r *Repository) applySearch(qb *gorm.DB, search string) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return qb.Where("items.search_vector @@ plainto_tsquery('english', ?)", search)
	}
	pattern := db.ContainsPattern(search)
	return qb.Where(
		`(LOWER(items.title) LIKE ? ESCAPE '\' OR LOWER(items.description) LIKE ? ESCAPE '\' OR LOWER(items.tags) LIKE ? ESCAPE '\')`,
		pattern, pattern, pattern,
	)
}

func sellerSummaryFields(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "avatar", "location")
}

func sellerDetailFields(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "avatar", "location", "bio")
}
