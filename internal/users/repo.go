package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/db"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"github.com/rewear/rewear-backend/pkg/pagination"
	"gorm.io/gorm"
)

// EmailConstraint names the unique index on users.email.
const EmailConstraint = "users_email_key"

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAvatar overwrites the avatar URL and returns the refreshed user.
func (r *Repository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) (*models.User, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("avatar", avatar)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// Search matches name or location case-insensitively, highest points first.
func (r *Repository) Search(ctx context.Context, query string, page pagination.Params) ([]models.User, int64, error) {
	pattern := db.ContainsPattern(strings.TrimSpace(query))
	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.User{}).
			Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	if total == 0 {
		return users, 0, nil
	}
	err := scoped().
		Select("id", "name", "avatar", "location", "bio", "points", "created_at").
		Order("points DESC").
		Order("name ASC").
		Order("id ASC").
		Limit(page.EffectiveLimit()).
		Offset(page.Offset()).
		Find(&users).Error
	return users, total, err
}
