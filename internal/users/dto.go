package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/internal/items"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"github.com/rewear/rewear-backend/pkg/pagination"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicUserDTO drops the email as well.
type PublicUserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Location  string    `json:"location"`
	Bio       string    `json:"bio"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileDTO is the caller's own profile with listings and wishlist expanded.
type ProfileDTO struct {
	UserDTO
	ItemsListed     []items.ItemDTO `json:"itemsListed"`
	ItemsWishlisted []items.ItemDTO `json:"itemsWishlisted"`
}

// PublicProfileDTO is another member's profile with their available listings.
type PublicProfileDTO struct {
	PublicUserDTO
	ItemsListed []items.ItemDTO `json:"itemsListed"`
}

// SearchResult is one page of user search matches.
type SearchResult struct {
	Users      []PublicUserDTO `json:"users"`
	Pagination pagination.Meta `json:"pagination"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Location     string
	Bio          string
	Avatar       string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Location:  u.Location,
		Bio:       u.Bio,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func PublicFromModel(u models.User) PublicUserDTO {
	return PublicUserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Location:  u.Location,
		Bio:       u.Bio,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         strings.TrimSpace(c.Name),
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		Location:     strings.TrimSpace(c.Location),
		Bio:          strings.TrimSpace(c.Bio),
		Avatar:       strings.TrimSpace(c.Avatar),
	}
}
