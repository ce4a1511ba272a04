package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/internal/items"
	"github.com/rewear/rewear-backend/internal/wishlist"
	"github.com/rewear/rewear-backend/pkg/db"
	"github.com/rewear/rewear-backend/pkg/db/dbtest"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"github.com/rewear/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/rewear/rewear-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	client *db.Client
	repo   *Repository
	items  items.Service
	svc    Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	client := dbtest.Open(t)
	itemSvc, err := items.NewService(items.ServiceParams{
		Repo:     items.NewRepository(client.DB()),
		Wishlist: wishlist.NewRepository(client.DB()),
		DB:       client,
	})
	require.NoError(t, err)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, itemSvc)
	require.NoError(t, err)
	return &harness{client: client, repo: repo, items: itemSvc, svc: svc}
}

func (h *harness) user(t *testing.T, name, location string, points int) *models.User {
	t.Helper()
	u, err := h.repo.Create(context.Background(), CreateUserDTO{
		Name:         name,
		Email:        uuid.NewString() + "@Example.com",
		PasswordHash: "secret-hash",
		Location:     location,
	})
	require.NoError(t, err)
	if points > 0 {
		require.NoError(t, h.client.DB().Model(u).Update("points", points).Error)
		u.Points = points
	}
	return u
}

func (h *harness) listing(t *testing.T, seller uuid.UUID, available bool) *models.Item {
	t.Helper()
	it := &models.Item{
		SellerID:    seller,
		Title:       "Knit sweater",
		Description: "Chunky hand-knit sweater",
		Category:    enums.ItemCategoryOuterwear,
		Condition:   enums.ItemConditionFair,
		Size:        "S",
		Price:       decimal.NewFromInt(12),
		Images:      []string{"/uploads/s.jpg"},
		Location:    "Oslo",
		IsAvailable: available,
	}
	require.NoError(t, h.client.DB().Create(it).Error)
	return it
}

func TestProfileExpandsListingsAndWishlist(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	me := h.user(t, "Ana", "Oslo", 0)
	other := h.user(t, "Ben", "Bergen", 0)
	h.listing(t, me.ID, true)
	h.listing(t, me.ID, false)
	theirs := h.listing(t, other.ID, true)
	_, err := h.items.ToggleWishlist(ctx, me.ID, theirs.ID)
	require.NoError(t, err)

	profile, err := h.svc.Profile(ctx, me.ID)
	require.NoError(t, err)

	assert.Equal(t, me.ID, profile.ID)
	assert.Equal(t, me.Email, profile.Email)
	assert.Len(t, profile.ItemsListed, 2)
	require.Len(t, profile.ItemsWishlisted, 1)
	assert.Equal(t, theirs.ID, profile.ItemsWishlisted[0].ID)
}

func TestPublicProfileShowsOnlyAvailableListings(t *testing.T) {
	h := newHarness(t)
	seller := h.user(t, "Ana", "Oslo", 0)
	h.listing(t, seller.ID, true)
	h.listing(t, seller.ID, false)

	profile, err := h.svc.PublicProfile(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)
	require.Len(t, profile.ItemsListed, 1)
	assert.True(t, profile.ItemsListed[0].IsAvailable)
	require.NotNil(t, profile.ItemsListed[0].Seller)
}

func TestPublicProfileUnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.PublicProfile(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestWishlistIsOwnerOnly(t *testing.T) {
	h := newHarness(t)
	owner := h.user(t, "Ana", "Oslo", 0)
	other := h.user(t, "Ben", "Oslo", 0)

	_, err := h.svc.Wishlist(context.Background(), other.ID, owner.ID, pagination.Params{Page: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	res, err := h.svc.Wishlist(context.Background(), owner.ID, owner.ID, pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestWishlistPagesAtTheStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "Ana", "Oslo", 0)
	seller := h.user(t, "Ben", "Oslo", 0)
	for i := 0; i < 3; i++ {
		it := h.listing(t, seller.ID, true)
		_, err := h.items.ToggleWishlist(ctx, owner.ID, it.ID)
		require.NoError(t, err)
	}
	sold := h.listing(t, seller.ID, false)
	_, err := h.items.ToggleWishlist(ctx, owner.ID, sold.ID)
	require.NoError(t, err)

	res, err := h.svc.Wishlist(ctx, owner.ID, owner.ID, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, pagination.Meta{Current: 2, Pages: 2, Total: 3}, res.Pagination)
}

func TestUpdateAvatar(t *testing.T) {
	h := newHarness(t)
	me := h.user(t, "Ana", "Oslo", 0)

	updated, err := h.svc.UpdateAvatar(context.Background(), me.ID, " /uploads/me.png ")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/me.png", updated.Avatar)

	_, err = h.svc.UpdateAvatar(context.Background(), me.ID, "  ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = h.svc.UpdateAvatar(context.Background(), uuid.New(), "/uploads/x.png")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSearchMatchesNameOrLocation(t *testing.T) {
	h := newHarness(t)
	h.user(t, "John Smith", "Paris", 10)
	h.user(t, "Ana", "Johnstown", 30)
	h.user(t, "Ben", "Rome", 99)

	res, err := h.svc.Search(context.Background(), "JOHN", pagination.Params{Page: 1})
	require.NoError(t, err)

	require.Len(t, res.Users, 2)
	assert.Equal(t, "Ana", res.Users[0].Name)
	assert.Equal(t, "John Smith", res.Users[1].Name)
	assert.EqualValues(t, 2, res.Pagination.Total)
	assert.Equal(t, 1, res.Pagination.Pages)
}

func TestSearchEscapesWildcards(t *testing.T) {
	h := newHarness(t)
	h.user(t, "Ana", "Oslo", 0)
	h.user(t, "100%_cotton", "Oslo", 0)

	res, err := h.svc.Search(context.Background(), "%_", pagination.Params{Page: 1})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "100%_cotton", res.Users[0].Name)
}

func TestSearchRequiresQuery(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Search(context.Background(), " ", pagination.Params{Page: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStatsDelegatesToItems(t *testing.T) {
	h := newHarness(t)
	seller := h.user(t, "Ana", "Oslo", 0)
	h.listing(t, seller.ID, true)
	h.listing(t, seller.ID, false)

	stats, err := h.svc.Stats(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Equal(t, items.StatsDTO{TotalItems: 2, ActiveItems: 1}, *stats)
}
